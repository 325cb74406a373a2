package layout

import (
	"errors"
	"testing"
)

// TestNormalizeRect_NegativeDims verifies Normalize flips negative sizes.
func TestNormalizeRect_NegativeDims(t *testing.T) {
	in := Rect{X: 10, Y: 20, W: -5, H: -6}
	out := Normalize(in)
	want := Rect{X: 5, Y: 14, W: 5, H: 6}
	if out != want {
		t.Fatalf("expected %+v, got %+v", want, out)
	}
}

// TestContains_Edges verifies edges are treated as inside the rect.
func TestContains_Edges(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 5, H: 4}
	if !Contains(r, 10, 20) || !Contains(r, 15, 24) {
		t.Fatalf("expected edges to be inside rect")
	}
	if Contains(r, 9.5, 20) || Contains(r, 15.5, 24) {
		t.Fatalf("expected point to be outside rect")
	}
	if Contains(Rect{X: 1, Y: 1}, 1, 1) {
		t.Fatalf("expected empty rect to contain nothing")
	}
}

// TestParseGeometry_NormalizesKeys verifies rectangles are normalized on load.
func TestParseGeometry_NormalizesKeys(t *testing.T) {
	g, err := ParseGeometry([]byte(`
name: test
width: 100
height: 50
keys:
  - id: AC01
    rect: {x: 40, y: 40, w: -40, h: -40}
  - id: MENU
    rect: {x: 40, y: 0, w: 20, h: 20}
    action: settings
`))
	if err != nil {
		t.Fatalf("ParseGeometry failed: %v", err)
	}
	if len(g.Keys) != 2 || g.Keys[0].Rect != (Rect{X: 0, Y: 0, W: 40, H: 40}) {
		t.Fatalf("unexpected keys %+v", g.Keys)
	}
	if g.Keys[1].Action != "settings" {
		t.Fatalf("expected action, got %+v", g.Keys[1])
	}
}

// TestParseGeometry_Rejects verifies missing and duplicate ids are rejected.
func TestParseGeometry_Rejects(t *testing.T) {
	cases := []string{
		"keys:\n  - rect: {x: 0, y: 0, w: 1, h: 1}\n",
		"keys:\n  - id: A\n  - id: A\n",
		"keys: [",
	}
	for _, doc := range cases {
		if _, err := ParseGeometry([]byte(doc)); !errors.Is(err, ErrInvalidGeometry) {
			t.Fatalf("expected ErrInvalidGeometry for %q, got %v", doc, err)
		}
	}
}

// TestHitTest_Topmost verifies the last declared key wins on overlap.
func TestHitTest_Topmost(t *testing.T) {
	g := Geometry{Keys: []Key{
		{ID: "BIG", Rect: Rect{X: 0, Y: 0, W: 100, H: 100}},
		{ID: "SMALL", Rect: Rect{X: 10, Y: 10, W: 10, H: 10}},
	}}
	if k, ok := g.HitTest(15, 15); !ok || k.ID != "SMALL" {
		t.Fatalf("expected SMALL, got %+v", k)
	}
	if k, ok := g.HitTest(50, 50); !ok || k.ID != "BIG" {
		t.Fatalf("expected BIG, got %+v", k)
	}
	if _, ok := g.HitTest(150, 50); ok {
		t.Fatalf("expected no key outside the surface")
	}
}
