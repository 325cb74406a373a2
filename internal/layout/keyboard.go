package layout

import (
	"github.com/frudas24/touchslice/internal/keyboard"
)

// Keyboard combines a geometry with the bindings of one layout.
type Keyboard struct {
	geometry Geometry
	bindings Bindings
	keys     map[string]Key
}

// Ensure Keyboard implements the keyboard layout provider.
var _ keyboard.Layout = (*Keyboard)(nil)

// NewKeyboard returns a layout provider for geometry and bindings.
func NewKeyboard(geometry Geometry, bindings Bindings) *Keyboard {
	keys := make(map[string]Key, len(geometry.Keys))
	for _, k := range geometry.Keys {
		keys[k.ID] = k
	}
	return &Keyboard{geometry: geometry, bindings: bindings, keys: keys}
}

// Name returns the display name of the bindings.
func (k *Keyboard) Name() string {
	return k.bindings.Meta.Name
}

// HitTest returns the position of the topmost key under the point.
func (k *Keyboard) HitTest(x, y float64) (keyboard.Position, bool) {
	key, ok := k.geometry.HitTest(x, y)
	if !ok {
		return "", false
	}
	return keyboard.Position(key.ID), true
}

// ResolveKey returns the binding for a position. Action and fixed keys come
// from the geometry, every other key from the layout.
func (k *Keyboard) ResolveKey(pos keyboard.Position) (keyboard.Binding, bool) {
	key, inGeometry := k.keys[string(pos)]
	switch {
	case inGeometry && key.Action != "":
		return keyboard.Binding{Action: key.Action}, true
	case inGeometry && key.Fixed():
		v := keyboard.Variant{Name: key.Name, Symbol: key.Symbol, Dead: keyboard.IsDeadSymbol(key.Symbol)}
		if v.Name == "" {
			v.Name = key.Symbol
		}
		return keyboard.Binding{Variants: [4]keyboard.Variant{v}}, true
	}
	return k.bindings.Binding(pos)
}

// Size returns the geometry's surface size.
func (k *Keyboard) Size() (float64, float64) {
	return k.geometry.Width, k.geometry.Height
}
