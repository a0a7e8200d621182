// Package capi holds the server-side event envelope delivered to the
// Conversions API and the assembler that attaches matched user data to it.
package capi

import (
	"github.com/storelink/metabridge/internal/aam"
)

// UserData is the identity block of a server event: one optional slot per
// registered matching field. Slots are pointers so an absent field and an
// empty string stay distinguishable on the wire and in code.
type UserData struct {
	Email       *string `json:"em,omitempty"`
	LastName    *string `json:"ln,omitempty"`
	FirstName   *string `json:"fn,omitempty"`
	Phone       *string `json:"ph,omitempty"`
	Gender      *string `json:"ge,omitempty"`
	ExternalID  *string `json:"external_id,omitempty"`
	Country     *string `json:"country,omitempty"`
	City        *string `json:"ct,omitempty"`
	State       *string `json:"st,omitempty"`
	ZipCode     *string `json:"zp,omitempty"`
	DateOfBirth *string `json:"db,omitempty"`
}

// slots maps each field to its UserData slot accessor.
var slots = map[aam.Field]func(*UserData) **string{
	aam.FieldEmail:       func(u *UserData) **string { return &u.Email },
	aam.FieldLastName:    func(u *UserData) **string { return &u.LastName },
	aam.FieldFirstName:   func(u *UserData) **string { return &u.FirstName },
	aam.FieldPhone:       func(u *UserData) **string { return &u.Phone },
	aam.FieldGender:      func(u *UserData) **string { return &u.Gender },
	aam.FieldExternalID:  func(u *UserData) **string { return &u.ExternalID },
	aam.FieldCountry:     func(u *UserData) **string { return &u.Country },
	aam.FieldCity:        func(u *UserData) **string { return &u.City },
	aam.FieldState:       func(u *UserData) **string { return &u.State },
	aam.FieldZipCode:     func(u *UserData) **string { return &u.ZipCode },
	aam.FieldDateOfBirth: func(u *UserData) **string { return &u.DateOfBirth },
}

// Set populates the slot for f. Unknown fields are ignored: the registry
// is closed and the assembler only feeds registered fields through.
func (u *UserData) Set(f aam.Field, v string) {
	if slot, ok := slots[f]; ok {
		*slot(u) = &v
	}
}

// IsSet reports whether the slot for f holds a value.
func (u *UserData) IsSet(f aam.Field) bool {
	slot, ok := slots[f]
	return ok && *slot(u) != nil
}

// PopulatedFields returns the registry fields whose slots are set, in
// registry order.
func (u *UserData) PopulatedFields() []aam.Field {
	var out []aam.Field
	for _, f := range aam.AllFields() {
		if u.IsSet(f) {
			out = append(out, f)
		}
	}
	return out
}
