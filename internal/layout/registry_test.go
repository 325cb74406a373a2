package layout

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/frudas24/touchslice/internal/command"
	"github.com/frudas24/touchslice/internal/contact"
	"github.com/frudas24/touchslice/internal/keyboard"
	"github.com/frudas24/touchslice/internal/testutil"
)

// TestRegistry_Builtins verifies the embedded layouts are registered.
func TestRegistry_Builtins(t *testing.T) {
	r, err := NewRegistry("", "")
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	list := r.List()
	if len(list) < 2 || list[0].ID != "de" || list[1].ID != "us" {
		t.Fatalf("unexpected layouts %+v", list)
	}
	if r.Default().Name() != "English (US)" {
		t.Fatalf("unexpected default %q", r.Default().Name())
	}
	if _, err := r.Get("xx"); !errors.Is(err, ErrUnknownLayout) {
		t.Fatalf("expected ErrUnknownLayout, got %v", err)
	}
	if _, err := r.Raw("xx"); !errors.Is(err, ErrUnknownLayout) {
		t.Fatalf("expected ErrUnknownLayout, got %v", err)
	}
}

// TestRegistry_Directory verifies files in the layout directory are added.
func TestRegistry_Directory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "sample.json"), []byte(sampleBindings), 0o600); err != nil {
		t.Fatalf("write layout: %v", err)
	}

	r, err := NewRegistry(dir, "")
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	k, err := r.Get("sample")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if k.Name() != "Sample" {
		t.Fatalf("unexpected name %q", k.Name())
	}
	raw, err := r.Raw("sample")
	if err != nil || string(raw) != sampleBindings {
		t.Fatalf("expected raw document back, got %v", err)
	}
}

// TestRegistry_MissingDirectory verifies a missing directory is not fatal.
func TestRegistry_MissingDirectory(t *testing.T) {
	if _, err := NewRegistry(filepath.Join(t.TempDir(), "nope"), ""); err != nil {
		t.Fatalf("expected missing directory to be skipped, got %v", err)
	}
}

// TestRegistry_BrokenFile verifies a malformed layout file fails loading.
func TestRegistry_BrokenFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0o600); err != nil {
		t.Fatalf("write layout: %v", err)
	}
	if _, err := NewRegistry(dir, ""); !errors.Is(err, ErrInvalidBindings) {
		t.Fatalf("expected ErrInvalidBindings, got %v", err)
	}
}

// center returns the middle of a geometry key.
func center(t *testing.T, g Geometry, id string) (float64, float64) {
	t.Helper()
	for _, k := range g.Keys {
		if k.ID == id {
			return k.Rect.X + k.Rect.W/2, k.Rect.Y + k.Rect.H/2
		}
	}
	t.Fatalf("key %s not in geometry", id)
	return 0, 0
}

// TestKeyboard_ResolveKey verifies fixed, action and layout keys resolve.
func TestKeyboard_ResolveKey(t *testing.T) {
	r, err := NewRegistry("", "")
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	k := r.Default()

	if b, ok := k.ResolveKey("LFSH"); !ok || b.Variants[0].Symbol != "Shift_L" {
		t.Fatalf("expected fixed shift key, got %+v", b)
	}
	if b, ok := k.ResolveKey("MENU"); !ok || b.Action != "settings" {
		t.Fatalf("expected action key, got %+v", b)
	}
	if b, ok := k.ResolveKey("AC01"); !ok || b.Variants[1].Name != "A" {
		t.Fatalf("expected layout key, got %+v", b)
	}

	x, y := center(t, r.Geometry(), "AD03")
	if pos, ok := k.HitTest(x, y); !ok || pos != "AD03" {
		t.Fatalf("expected AD03 under its center, got %q", pos)
	}
}

// TestKeyboard_ShiftedTyping verifies the mapper types through a real layout.
func TestKeyboard_ShiftedTyping(t *testing.T) {
	r, err := NewRegistry("", "")
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	sink := &testutil.RecordingSink{}
	m := keyboard.NewMapper(r.Default(), sink, nil)

	sx, sy := center(t, r.Geometry(), "LFSH")
	ax, ay := center(t, r.Geometry(), "AC01")
	if err := m.Start([]contact.Point{{ID: 1, X: sx, Y: sy}, {ID: 2, X: ax, Y: ay}}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	got := sink.Take()
	if len(got) != 2 || got[1] != command.KeyDown("A", false) {
		t.Fatalf("expected shifted A, got %v", got)
	}
}
