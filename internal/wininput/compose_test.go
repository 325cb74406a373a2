package wininput

import "testing"

// TestCompose_Precomposed verifies dead keys combine into single characters.
func TestCompose_Precomposed(t *testing.T) {
	cases := []struct {
		dead, base, want rune
	}{
		{'´', 'e', 'é'},
		{'^', 'a', 'â'},
		{'`', 'U', 'Ù'},
		{'¨', 'o', 'ö'},
		{'~', 'n', 'ñ'},
	}
	for _, tc := range cases {
		got, ok := compose(tc.dead, tc.base)
		if !ok || got != tc.want {
			t.Fatalf("compose(%c,%c) = %c,%t, want %c", tc.dead, tc.base, got, ok, tc.want)
		}
	}
}

// TestCompose_NoPrecomposed verifies pairs without a composed form are refused.
func TestCompose_NoPrecomposed(t *testing.T) {
	if _, ok := compose('´', 'q'); ok {
		t.Fatalf("expected no composition for q")
	}
	if _, ok := compose('x', 'a'); ok {
		t.Fatalf("expected unknown dead key to be refused")
	}
}

// TestCarry_KeepsRemainder verifies fractional parts are carried.
func TestCarry_KeepsRemainder(t *testing.T) {
	whole, rest := carry(2.75)
	if whole != 2 || rest != 0.75 {
		t.Fatalf("unexpected split %d %v", whole, rest)
	}
	whole, rest = carry(-1.5)
	if whole != -1 || rest != -0.5 {
		t.Fatalf("unexpected split %d %v", whole, rest)
	}
}
