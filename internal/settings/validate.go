package settings

import (
	"fmt"
	"strings"

	"github.com/storelink/metabridge/internal/aam"
)

// Validate rejects settings that name fields outside the closed registry
// or list the same field twice. Nil settings are valid: matching is simply
// not configured.
func Validate(s *aam.Settings) error {
	if s == nil {
		return nil
	}
	seen := make(map[aam.Field]bool)
	var errs []string
	for i, f := range s.EnabledFields {
		if !aam.Known(string(f)) {
			errs = append(errs, fmt.Sprintf("enabled_fields[%d]: unknown field %q", i, f))
			continue
		}
		if seen[f] {
			errs = append(errs, fmt.Sprintf("enabled_fields[%d]: duplicate field %q", i, f))
		}
		seen[f] = true
	}
	if len(errs) > 0 {
		return fmt.Errorf("settings validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
