package keyboard

import (
	"errors"
	"strings"
)

// ErrUnknownKey is returned when a key position has no usable binding.
var ErrUnknownKey = errors.New("key not in layout")

// Position identifies a key on the keyboard surface, e.g. "AE01".
type Position string

// Variant is one modifier level of a key.
type Variant struct {
	// Name is the character or the <special> key name to emit.
	Name string
	// Symbol is the X keysym name, used to recognise modifier keys.
	Symbol string
	Dead   bool
}

// IsZero reports whether the variant is unbound.
func (v Variant) IsZero() bool {
	return v.Name == "" && v.Symbol == ""
}

// Binding maps the four modifier levels of a key to variants. A binding with
// an Action is an action element and produces no key events.
type Binding struct {
	Variants [4]Variant
	Action   string
}

// Resolve returns the variant for the current modifiers, falling back to
// the base variant when that level is unbound.
func (b Binding) Resolve(mods *ModifierState) (Variant, bool) {
	idx := 0
	if mods != nil {
		idx = mods.Index()
	}
	if v := b.Variants[idx]; !v.IsZero() {
		return v, true
	}
	if v := b.Variants[0]; !v.IsZero() {
		return v, true
	}
	return Variant{}, false
}

// Layout resolves key positions and hit-tests the keyboard surface.
type Layout interface {
	ResolveKey(pos Position) (Binding, bool)
	HitTest(x, y float64) (Position, bool)
}

type modifierKind int

const (
	modNone modifierKind = iota
	modShift
	modAltGr
	modCapsLock
)

// classify reports which modifier, if any, a variant controls.
func classify(v Variant) modifierKind {
	switch v.Symbol {
	case "Shift_L", "Shift_R":
		return modShift
	case "ISO_Level3_Shift":
		return modAltGr
	case "Caps_Lock":
		return modCapsLock
	}
	switch strings.ToLower(v.Name) {
	case "<shift>", "<shift_l>", "<shift_r>":
		return modShift
	case "<alt_gr>":
		return modAltGr
	case "<caps_lock>":
		return modCapsLock
	}
	return modNone
}

// IsDeadSymbol reports whether an X keysym name denotes a dead key.
func IsDeadSymbol(symbol string) bool {
	return strings.HasPrefix(symbol, "dead_")
}
