package layout

import (
	"errors"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/frudas24/touchslice/internal/keyboard"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrInvalidBindings is returned when a bindings file cannot be used.
var ErrInvalidBindings = errors.New("invalid keyboard layout")

// Entry is one modifier level of a key as stored in a layout file.
type Entry struct {
	Name   string
	Keysym int
	Symbol string
}

// IsZero reports whether the level is unbound.
func (e Entry) IsZero() bool {
	return e.Name == "" && e.Symbol == ""
}

// Variant converts the entry to the keyboard representation.
func (e Entry) Variant() keyboard.Variant {
	return keyboard.Variant{Name: e.Name, Symbol: e.Symbol, Dead: keyboard.IsDeadSymbol(e.Symbol)}
}

// UnmarshalJSON accepts either "" for an unbound level or [name, keysym, symbol].
func (e *Entry) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "" {
			return fmt.Errorf("%w: unexpected string %q", ErrInvalidBindings, s)
		}
		*e = Entry{}
		return nil
	}
	var raw []jsoniter.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBindings, err)
	}
	if len(raw) != 3 {
		return fmt.Errorf("%w: entry has %d fields", ErrInvalidBindings, len(raw))
	}
	var out Entry
	if err := json.Unmarshal(raw[0], &out.Name); err != nil {
		return fmt.Errorf("%w: name: %v", ErrInvalidBindings, err)
	}
	if err := json.Unmarshal(raw[1], &out.Keysym); err != nil {
		return fmt.Errorf("%w: keysym: %v", ErrInvalidBindings, err)
	}
	if err := json.Unmarshal(raw[2], &out.Symbol); err != nil {
		return fmt.Errorf("%w: symbol: %v", ErrInvalidBindings, err)
	}
	*e = out
	return nil
}

// MarshalJSON writes the entry in the layout file format.
func (e Entry) MarshalJSON() ([]byte, error) {
	if e.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal([]any{e.Name, e.Keysym, e.Symbol})
}

// Meta describes a layout file.
type Meta struct {
	Name string `json:"name"`
}

// Bindings maps key positions to their four modifier levels.
type Bindings struct {
	Meta   Meta                `json:"meta"`
	Layout map[string][4]Entry `json:"layout"`
}

// ParseBindings decodes a JSON layout document.
func ParseBindings(data []byte) (Bindings, error) {
	var b Bindings
	if err := json.Unmarshal(data, &b); err != nil {
		if errors.Is(err, ErrInvalidBindings) {
			return b, err
		}
		return b, fmt.Errorf("%w: %v", ErrInvalidBindings, err)
	}
	if strings.TrimSpace(b.Meta.Name) == "" {
		return b, fmt.Errorf("%w: missing meta.name", ErrInvalidBindings)
	}
	if b.Layout == nil {
		b.Layout = make(map[string][4]Entry)
	}
	return b, nil
}

// Binding returns the keyboard binding for a position.
func (b Bindings) Binding(pos keyboard.Position) (keyboard.Binding, bool) {
	entries, ok := b.Layout[string(pos)]
	if !ok {
		return keyboard.Binding{}, false
	}
	var out keyboard.Binding
	for i, e := range entries {
		out.Variants[i] = e.Variant()
	}
	return out, true
}
