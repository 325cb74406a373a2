package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestSettings_DefaultsAndTypes verifies typed lookups fall back correctly.
func TestSettings_DefaultsAndTypes(t *testing.T) {
	s := NewSettings()

	if got := s.Float("view.sensitivity", 0); got != 1.5 {
		t.Fatalf("expected registered default 1.5, got %v", got)
	}
	if got := s.Float("view.unknown", 7); got != 7 {
		t.Fatalf("expected caller default, got %v", got)
	}
	if !s.Bool("view.naturalScroll", false) {
		t.Fatalf("expected natural scroll default true")
	}
	if err := s.Set("custom.flag", "maybe"); err != nil {
		t.Fatalf("expected unknown setting to be stored, got %v", err)
	}
	if s.Bool("custom.flag", true) != true {
		t.Fatalf("expected unparsable bool to yield the default")
	}
}

// TestSettings_SetValidates verifies values must match the default's type.
func TestSettings_SetValidates(t *testing.T) {
	s := NewSettings()
	bad := map[string]string{
		"view.sensitivity":   "fast",
		"view.clickDelay":    "-1",
		"view.naturalScroll": "sometimes",
		"view.cancelPolicy":  "ignore",
		"view.acceleration":  "NaN",
		"":                   "x",
		"a..b":               "x",
		"custom.":            "x",
	}
	for _, v := range []string{"NaN", "Inf", "+Inf", "-Inf"} {
		if err := s.Set("view.sensitivity", v); !errors.Is(err, ErrInvalidSetting) {
			t.Fatalf("expected ErrInvalidSetting for sensitivity %s, got %v", v, err)
		}
	}
	for name, value := range bad {
		if err := s.Set(name, value); !errors.Is(err, ErrInvalidSetting) {
			t.Fatalf("expected ErrInvalidSetting for %s=%s, got %v", name, value, err)
		}
	}
	if err := s.Set("view.cancelPolicy", "discard"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if s.String("view.cancelPolicy", "") != "discard" {
		t.Fatalf("expected stored value")
	}
}

// TestSettings_PersistRoundTrip verifies values survive a save and reload as nested YAML.
func TestSettings_PersistRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")
	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if err := s.Set("view.sensitivity", "2.25"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set("view.naturalScroll", "false"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read settings: %v", err)
	}
	if !strings.Contains(string(data), "view:\n") {
		t.Fatalf("expected nested yaml, got:\n%s", data)
	}

	again, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if again.Float("view.sensitivity", 0) != 2.25 || again.Bool("view.naturalScroll", true) {
		t.Fatalf("unexpected reloaded snapshot %v", again.Snapshot())
	}
}

// TestSettings_Reset verifies Reset reverts to defaults on disk too.
func TestSettings_Reset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	s, _ := LoadSettings(path)
	_ = s.Set("view.acceleration", "0.9")
	if err := s.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if got := s.Snapshot()["view.acceleration"]; got != "0.3" {
		t.Fatalf("expected default after reset, got %q", got)
	}
	again, _ := LoadSettings(path)
	if again.Float("view.acceleration", 0) != 0.3 {
		t.Fatalf("expected reset to be persisted")
	}
}

// TestLoadSettings_Invalid verifies malformed files are reported.
func TestLoadSettings_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("view: [1,"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadSettings(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

// TestSettings_RejectsNestingConflicts verifies a name cannot be both a value and a section.
func TestSettings_RejectsNestingConflicts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if err := s.Set("view", "x"); !errors.Is(err, ErrInvalidSetting) {
		t.Fatalf("expected conflict with default section, got %v", err)
	}
	if err := s.Set("custom", "x"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set("custom.flag", "y"); !errors.Is(err, ErrInvalidSetting) {
		t.Fatalf("expected conflict with stored value, got %v", err)
	}
	if err := s.Set("view.sensitivity", "2"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	again, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if again.String("custom", "") != "x" || again.Float("view.sensitivity", 0) != 2 {
		t.Fatalf("unexpected reloaded snapshot %v", again.Snapshot())
	}
}

// TestSettings_SetManyIsAtomic verifies one bad value leaves every other value unchanged.
func TestSettings_SetManyIsAtomic(t *testing.T) {
	s := NewSettings()
	err := s.SetMany(map[string]string{
		"view.sensitivity":  "2",
		"view.acceleration": "0.5",
		"view.cancelPolicy": "never",
	})
	if !errors.Is(err, ErrInvalidSetting) {
		t.Fatalf("expected ErrInvalidSetting, got %v", err)
	}
	if s.Float("view.sensitivity", 0) != 1.5 || s.Float("view.acceleration", 0) != 0.3 {
		t.Fatalf("expected no value stored, got %v", s.Snapshot())
	}

	err = s.SetMany(map[string]string{"group": "1", "group.item": "2"})
	if !errors.Is(err, ErrInvalidSetting) {
		t.Fatalf("expected conflict inside one batch, got %v", err)
	}
	if err := s.SetMany(map[string]string{"view.sensitivity": "2", "view.acceleration": "0.5"}); err != nil {
		t.Fatalf("SetMany failed: %v", err)
	}
	if s.Float("view.sensitivity", 0) != 2 || s.Float("view.acceleration", 0) != 0.5 {
		t.Fatalf("expected both values stored, got %v", s.Snapshot())
	}
}
