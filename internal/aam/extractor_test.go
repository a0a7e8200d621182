package aam

import (
	"math/rand"
	"testing"
)

// stubSettings always returns the same settings snapshot.
type stubSettings struct {
	s *Settings
}

func (s *stubSettings) AAMSettings() *Settings { return s.s }

// stubSessions serves one record regardless of session id.
type stubSessions struct {
	data RawUserData
}

func (s *stubSessions) UserDataFromSession(string) RawUserData { return s.data }

func sessionRecord() RawUserData {
	return RawUserData{
		FieldEmail:       "abc@mail.com",
		FieldLastName:    "Perez",
		FieldFirstName:   "Pedro",
		FieldPhone:       "567891234",
		FieldGender:      "Male",
		FieldExternalID:  "1",
		FieldCountry:     "US",
		FieldCity:        "Seattle",
		FieldState:       "WA",
		FieldZipCode:     "12345",
		FieldDateOfBirth: "1990-06-11",
	}
}

func orderRecord() RawUserData {
	return RawUserData{
		FieldEmail:       "def@mail.com",
		FieldLastName:    "Homer",
		FieldFirstName:   "Simpson",
		FieldPhone:       "12345678",
		FieldGender:      "Male",
		FieldExternalID:  "2",
		FieldCountry:     "US",
		FieldCity:        "Springfield",
		FieldState:       "OH",
		FieldZipCode:     "12345",
		FieldDateOfBirth: "1982-06-11",
	}
}

func TestNormalizedUserData_NilWhenNotConfigured(t *testing.T) {
	e := NewExtractor(&stubSettings{s: nil}, &stubSessions{data: sessionRecord()})
	got, err := e.NormalizedUserData("s1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("got %v, want nil map when settings are absent", got)
	}
}

func TestNormalizedUserData_NilWhenDisabled(t *testing.T) {
	settings := &Settings{Enabled: false, EnabledFields: AllFields()}
	e := NewExtractor(&stubSettings{s: settings}, &stubSessions{data: sessionRecord()})
	got, err := e.NormalizedUserData("s1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("got %v, want nil map when matching is disabled", got)
	}
}

func TestNormalizedUserData_SessionDefault(t *testing.T) {
	settings := &Settings{Enabled: true, EnabledFields: AllFields()}
	e := NewExtractor(&stubSettings{s: settings}, &stubSessions{data: sessionRecord()})

	got, err := e.NormalizedUserData("s1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[Field]string{
		FieldEmail:       "abc@mail.com",
		FieldLastName:    "perez",
		FieldFirstName:   "pedro",
		FieldPhone:       "567891234",
		FieldGender:      "M",
		FieldExternalID:  "1",
		FieldCountry:     "us",
		FieldCity:        "seattle",
		FieldState:       "wa",
		FieldZipCode:     "12345",
		FieldDateOfBirth: "19900611",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d fields, want %d: %v", len(got), len(want), got)
	}
	for f, w := range want {
		if got[f] != w {
			t.Errorf("field %s = %q, want %q", f, got[f], w)
		}
	}
}

func TestNormalizedUserData_OverrideWins(t *testing.T) {
	settings := &Settings{Enabled: true, EnabledFields: AllFields()}
	e := NewExtractor(&stubSettings{s: settings}, &stubSessions{data: sessionRecord()})

	got, err := e.NormalizedUserData("s1", orderRecord())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[FieldEmail] != "def@mail.com" {
		t.Errorf("email = %q, want order-sourced %q", got[FieldEmail], "def@mail.com")
	}
	if got[FieldDateOfBirth] != "19820611" {
		t.Errorf("date_of_birth = %q, want %q", got[FieldDateOfBirth], "19820611")
	}
}

// Randomized allow-list subsets: the output key set must equal exactly the
// enabled subset when every field is present in the source.
func TestNormalizedUserData_SubsetFidelity(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	sessions := &stubSessions{data: sessionRecord()}
	for i := 0; i < 25; i++ {
		subset := randomSubset(rng)
		settings := &Settings{Enabled: true, EnabledFields: subset}
		e := NewExtractor(&stubSettings{s: settings}, sessions)

		got, err := e.NormalizedUserData("s1", nil)
		if err != nil {
			t.Fatalf("iteration %d: %v", i, err)
		}
		// An empty configured subset falls back to the full registry.
		want := subset
		if len(subset) == 0 {
			want = AllFields()
		}
		if len(got) != len(want) {
			t.Fatalf("iteration %d: got %d fields, want %d (subset %v)", i, len(got), len(want), subset)
		}
		for _, f := range want {
			if _, ok := got[f]; !ok {
				t.Errorf("iteration %d: field %s missing from output", i, f)
			}
		}
	}
}

func TestNormalizedUserData_SkipsAbsentAndEmpty(t *testing.T) {
	raw := RawUserData{
		FieldEmail:  "abc@mail.com",
		FieldPhone:  "",           // present but empty
		FieldGender: []string{""}, // legacy list holding an empty value
		// everything else absent
	}
	settings := &Settings{Enabled: true, EnabledFields: AllFields()}
	e := NewExtractor(&stubSettings{s: settings}, &stubSessions{data: raw})

	got, err := e.NormalizedUserData("s1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %v, want only email", got)
	}
	if got[FieldEmail] != "abc@mail.com" {
		t.Errorf("email = %q", got[FieldEmail])
	}
}

func TestNormalizedUserData_EmptyMappingWhenNothingQualifies(t *testing.T) {
	settings := &Settings{Enabled: true, EnabledFields: []Field{FieldCity}}
	e := NewExtractor(&stubSettings{s: settings}, &stubSessions{data: RawUserData{FieldEmail: "abc@mail.com"}})

	got, err := e.NormalizedUserData("s1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("got nil, want empty non-nil map: matching is enabled")
	}
	if len(got) != 0 {
		t.Errorf("got %v, want empty map", got)
	}
}

func TestNormalizedUserData_BadDatePropagates(t *testing.T) {
	raw := sessionRecord()
	raw[FieldDateOfBirth] = "eleventy"
	settings := &Settings{Enabled: true, EnabledFields: AllFields()}
	e := NewExtractor(&stubSettings{s: settings}, &stubSessions{data: raw})

	if _, err := e.NormalizedUserData("s1", nil); err == nil {
		t.Fatal("expected error for unparseable date of birth, got nil")
	}
}

func TestNormalizedUserData_TwoFieldAllowList(t *testing.T) {
	settings := &Settings{Enabled: true, EnabledFields: []Field{FieldEmail, FieldPhone}}
	e := NewExtractor(&stubSettings{s: settings}, &stubSessions{data: sessionRecord()})

	got, err := e.NormalizedUserData("s1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %v, want exactly email and phone", got)
	}
	if _, ok := got[FieldEmail]; !ok {
		t.Error("email missing")
	}
	if _, ok := got[FieldPhone]; !ok {
		t.Error("phone missing")
	}
}

// randomSubset shuffles the registry and takes a random-length prefix,
// possibly empty.
func randomSubset(rng *rand.Rand) []Field {
	fields := append([]Field(nil), AllFields()...)
	rng.Shuffle(len(fields), func(i, j int) { fields[i], fields[j] = fields[j], fields[i] })
	return fields[:rng.Intn(len(fields)+1)]
}
