package capi

import (
	"github.com/storelink/metabridge/internal/aam"
)

// Assembler populates event envelopes with filtered, normalized user data.
type Assembler struct {
	extractor *aam.Extractor
}

// NewAssembler builds an Assembler over the extraction pipeline.
func NewAssembler(extractor *aam.Extractor) *Assembler {
	return &Assembler{extractor: extractor}
}

// AttachUserData runs the matching pipeline and sets the event's user-data
// block. With matching off the event comes back untouched, no block
// attached. Otherwise the populated slots equal exactly the key set of the
// normalized mapping: absent fields leave their slot nil.
func (a *Assembler) AttachUserData(ev *ServerEvent, sessionID string, override aam.RawUserData) (*ServerEvent, error) {
	data, err := a.extractor.NormalizedUserData(sessionID, override)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return ev, nil
	}
	ud := &UserData{}
	for f, v := range data {
		ud.Set(f, v)
	}
	ev.UserData = ud
	return ev, nil
}
