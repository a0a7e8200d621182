package aam

// SessionSource supplies the raw identity record for a live storefront
// session. It is the default source when a caller does not hand the
// Extractor an explicit record.
type SessionSource interface {
	UserDataFromSession(sessionID string) RawUserData
}

// Extractor runs the matching pipeline: gate on settings, pick a raw
// source, intersect with the permitted fields, normalize what survives.
//
// It holds no mutable state; one Extractor serves concurrent requests.
type Extractor struct {
	settings SettingsProvider
	sessions SessionSource
}

// NewExtractor builds an Extractor over the given collaborators.
func NewExtractor(settings SettingsProvider, sessions SessionSource) *Extractor {
	return &Extractor{settings: settings, sessions: sessions}
}

// NormalizedUserData returns the filtered, normalized field mapping for a
// session, or for the override record when one is supplied (order-sourced
// matching passes the order's record here).
//
// A nil map with nil error means matching is off — disabled or never
// configured — and callers must not attach user data at all. That is
// distinct from an empty non-nil map, which means matching is on but no
// permitted field had a value.
func (e *Extractor) NormalizedUserData(sessionID string, override RawUserData) (map[Field]string, error) {
	settings := e.settings.AAMSettings()
	if !settings.Eligible() {
		return nil, nil
	}

	raw := override
	if raw == nil {
		raw = e.sessions.UserDataFromSession(sessionID)
	}

	out := make(map[Field]string)
	for _, f := range settings.PermittedFields() {
		v, ok := raw[f]
		if !ok {
			continue
		}
		if collapseScalar(v) == "" {
			continue // absent and empty are both skipped, never emitted blank
		}
		norm, err := Normalize(f, v)
		if err != nil {
			return nil, err
		}
		out[f] = norm
	}
	return out, nil
}
