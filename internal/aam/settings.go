package aam

// Settings is the admin-configured Automatic Advanced Matching state: the
// master switch plus the subset of fields the merchant allows. A nil
// *Settings means matching was never configured at all.
type Settings struct {
	Enabled       bool    `yaml:"enabled" json:"enabled"`
	EnabledFields []Field `yaml:"enabled_fields" json:"enabled_fields"`
}

// Eligible reports whether matching may run: settings exist and the
// switch is on.
func (s *Settings) Eligible() bool {
	return s != nil && s.Enabled
}

// PermittedFields returns the allow-list. When matching is enabled but no
// explicit subset was configured, every registered field is permitted.
func (s *Settings) PermittedFields() []Field {
	if s == nil || len(s.EnabledFields) == 0 {
		return AllFields()
	}
	return s.EnabledFields
}

// SettingsProvider supplies the current settings. Implementations must
// return fresh state on every call: admin configuration can change between
// requests and stale allow-lists would leak fields the merchant disabled.
type SettingsProvider interface {
	AAMSettings() *Settings
}
