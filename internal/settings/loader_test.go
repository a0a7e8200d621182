package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/storelink/metabridge/internal/aam"
)

func writeSettings(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "aam.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write settings file: %v", err)
	}
	return path
}

func TestLoader_MissingFileMeansNotConfigured(t *testing.T) {
	l, err := NewLoader(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	if l.AAMSettings() != nil {
		t.Error("expected nil settings for a missing file")
	}
}

func TestLoader_LoadsEnabledFields(t *testing.T) {
	path := writeSettings(t, t.TempDir(), "enabled: true\nenabled_fields: [email, phone]\n")
	l, err := NewLoader(path)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	s := l.AAMSettings()
	if !s.Eligible() {
		t.Fatal("expected eligible settings")
	}
	if len(s.EnabledFields) != 2 || s.EnabledFields[0] != aam.FieldEmail || s.EnabledFields[1] != aam.FieldPhone {
		t.Errorf("EnabledFields = %v", s.EnabledFields)
	}
}

func TestLoader_RejectsUnknownField(t *testing.T) {
	path := writeSettings(t, t.TempDir(), "enabled: true\nenabled_fields: [email, shoe_size]\n")
	if _, err := NewLoader(path); err == nil {
		t.Fatal("expected error for unknown field name")
	}
}

func TestLoader_Reload(t *testing.T) {
	dir := t.TempDir()
	path := writeSettings(t, dir, "enabled: false\n")
	l, err := NewLoader(path)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	if l.AAMSettings().Eligible() {
		t.Fatal("expected ineligible settings before reload")
	}

	var notified *aam.Settings
	l.OnChange(func(s *aam.Settings) { notified = s })

	writeSettings(t, dir, "enabled: true\n")
	s, err := l.Reload()
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if !s.Eligible() {
		t.Error("expected eligible settings after reload")
	}
	if notified != s {
		t.Error("OnChange callback did not receive the reloaded settings")
	}
	if len(s.PermittedFields()) != 11 {
		t.Errorf("no explicit subset configured, want all 11 fields permitted, got %d", len(s.PermittedFields()))
	}
}

func TestValidate_Duplicates(t *testing.T) {
	err := Validate(&aam.Settings{EnabledFields: []aam.Field{aam.FieldEmail, aam.FieldEmail}})
	if err == nil {
		t.Fatal("expected error for duplicate field")
	}
}
