package aam

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnparseableDate is wrapped by Normalize when a date_of_birth value
// cannot be interpreted as a date. Callers must not swallow it: emitting a
// guessed birthdate would corrupt downstream matching.
var ErrUnparseableDate = errors.New("unparseable date of birth")

// dobLayouts are tried in order. The canonical output layout comes first so
// re-normalizing already-normalized data is a no-op rather than a
// month/day swap through a locale-sensitive parse.
var dobLayouts = []string{
	"20060102",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02 Jan 2006",
	"January 2, 2006",
	time.RFC3339,
}

// Normalize applies the per-field normalization rule to a raw value and
// returns the hashing-ready string form.
//
// Raw values may be scalars or single-element lists left over from legacy
// multi-valued form fields; lists are collapsed to their first element
// before any rule runs. Only date_of_birth can fail.
func Normalize(f Field, raw any) (string, error) {
	v := collapseScalar(raw)
	switch f {
	case FieldGender:
		return normalizeGender(v), nil
	case FieldDateOfBirth:
		return normalizeDateOfBirth(v)
	default:
		return normalizeGeneric(v), nil
	}
}

// collapseScalar reduces a raw source value to a plain string.
func collapseScalar(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case []string:
		if len(v) == 0 {
			return ""
		}
		return v[0]
	case []any:
		if len(v) == 0 {
			return ""
		}
		return collapseScalar(v[0])
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// normalizeGeneric lower-cases and trims. Phone and zip intentionally take
// this same path: digit-stripping is left to the delivery layer.
func normalizeGeneric(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// normalizeGender keeps only the first character, case preserved:
// "Male" → "M", "Female" → "F". An empty value stays empty.
func normalizeGender(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	return v[:1]
}

// normalizeDateOfBirth reformats a free-form date string as YYYYMMDD.
func normalizeDateOfBirth(v string) (string, error) {
	v = strings.TrimSpace(v)
	for _, layout := range dobLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format("20060102"), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnparseableDate, v)
}
