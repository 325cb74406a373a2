package layout

import "testing"

// TestCheck_BuiltinsClean verifies the embedded layouts cover the embedded geometry.
func TestCheck_BuiltinsClean(t *testing.T) {
	reg, err := NewRegistry("", "")
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	for _, info := range reg.List() {
		data, err := reg.Raw(info.ID)
		if err != nil {
			t.Fatalf("Raw(%s) failed: %v", info.ID, err)
		}
		b, err := ParseBindings(data)
		if err != nil {
			t.Fatalf("ParseBindings(%s) failed: %v", info.ID, err)
		}
		if problems := Check(reg.Geometry(), b); len(problems) != 0 {
			t.Fatalf("layout %s: unexpected problems %v", info.ID, problems)
		}
	}
}

// TestCheck_ReportsProblems verifies unbound, unreachable and nameless entries are reported in key order.
func TestCheck_ReportsProblems(t *testing.T) {
	g := Geometry{
		Width:  100,
		Height: 20,
		Keys: []Key{
			{ID: "AC01", Rect: Rect{W: 10, H: 10}},
			{ID: "AC02", Rect: Rect{X: 10, W: 10, H: 10}},
			{ID: "SPCE", Rect: Rect{X: 20, W: 50, H: 10}, Name: " ", Symbol: "space"},
			{ID: "MENU", Rect: Rect{X: 70, W: 10, H: 10}, Action: "settings"},
		},
	}
	b := Bindings{
		Meta: Meta{Name: "Broken"},
		Layout: map[string][4]Entry{
			"AC01": {{Name: "a", Keysym: 97, Symbol: "a"}, {Keysym: 65, Symbol: "A"}},
			"AE01": {{Name: "1", Keysym: 49, Symbol: "1"}},
		},
	}

	got := Check(g, b)
	want := []Problem{
		{Key: "AC01", Msg: "variant 1 has no name"},
		{Key: "AC02", Msg: "no base binding"},
		{Key: "AE01", Msg: "not on the keyboard surface"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("problem %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	if got[1].String() != "AC02: no base binding" {
		t.Fatalf("unexpected format %q", got[1].String())
	}
}
