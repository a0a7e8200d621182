// Package aam implements Meta Advanced Automatic Matching: extraction,
// normalization, and settings-based filtering of customer identity fields.
package aam

// Field is one of the canonical identity-field names recognized by
// Advanced Matching. The set is closed.
type Field string

const (
	FieldEmail       Field = "email"
	FieldLastName    Field = "last_name"
	FieldFirstName   Field = "first_name"
	FieldPhone       Field = "phone"
	FieldGender      Field = "gender"
	FieldExternalID  Field = "external_id"
	FieldCountry     Field = "country"
	FieldCity        Field = "city"
	FieldState       Field = "state"
	FieldZipCode     Field = "zip_code"
	FieldDateOfBirth Field = "date_of_birth"
)

// allFields is the registry, in the order Meta documents the parameters.
var allFields = []Field{
	FieldEmail,
	FieldLastName,
	FieldFirstName,
	FieldPhone,
	FieldGender,
	FieldExternalID,
	FieldCountry,
	FieldCity,
	FieldState,
	FieldZipCode,
	FieldDateOfBirth,
}

// AllFields returns the full ordered field registry. Callers must not
// mutate the returned slice.
func AllFields() []Field {
	return allFields
}

// Known reports whether s names a registered field.
func Known(s string) bool {
	for _, f := range allFields {
		if Field(s) == f {
			return true
		}
	}
	return false
}

// RawUserData maps a field to its raw, untyped value as supplied by a
// session or order source. Values are strings, or single-element string
// lists from legacy multi-valued form fields.
type RawUserData map[Field]any
