// Package layout loads keyboard geometry and key bindings for the keyboard surface.
package layout

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrInvalidGeometry is returned when a geometry file cannot be used.
var ErrInvalidGeometry = errors.New("invalid keyboard geometry")

// Rect describes a rectangle using top-left origin and size, in surface pixels.
type Rect struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	W float64 `yaml:"w" json:"w"`
	H float64 `yaml:"h" json:"h"`
}

// Normalize returns a rectangle with non-negative width/height.
func Normalize(r Rect) Rect {
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

// Contains reports whether a point is inside the rectangle (edges inclusive).
func Contains(r Rect, x, y float64) bool {
	if r.W <= 0 || r.H <= 0 {
		return false
	}
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// Key is one element of the keyboard surface.
type Key struct {
	ID   string `yaml:"id" json:"id"`
	Rect Rect   `yaml:"rect" json:"rect"`
	// Name and Symbol fix the key regardless of the active layout.
	Name   string `yaml:"name,omitempty" json:"name,omitempty"`
	Symbol string `yaml:"symbol,omitempty" json:"symbol,omitempty"`
	// Action marks the key as an action element.
	Action string `yaml:"action,omitempty" json:"action,omitempty"`
}

// Fixed reports whether the key is not looked up in the layout.
func (k Key) Fixed() bool {
	return k.Symbol != "" || k.Name != ""
}

// Geometry is the set of key rectangles making up the keyboard surface.
type Geometry struct {
	Name   string  `yaml:"name" json:"name"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
	Keys   []Key   `yaml:"keys" json:"keys"`
}

// ParseGeometry decodes a YAML geometry document.
func ParseGeometry(data []byte) (Geometry, error) {
	var g Geometry
	if err := yaml.Unmarshal(data, &g); err != nil {
		return g, fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}
	seen := make(map[string]struct{}, len(g.Keys))
	for i := range g.Keys {
		k := &g.Keys[i]
		if k.ID == "" {
			return g, fmt.Errorf("%w: key %d has no id", ErrInvalidGeometry, i)
		}
		if _, dup := seen[k.ID]; dup {
			return g, fmt.Errorf("%w: duplicate key %s", ErrInvalidGeometry, k.ID)
		}
		seen[k.ID] = struct{}{}
		k.Rect = Normalize(k.Rect)
	}
	return g, nil
}

// HitTest returns the topmost key containing the point. Later keys are
// drawn above earlier ones.
func (g Geometry) HitTest(x, y float64) (Key, bool) {
	for i := len(g.Keys) - 1; i >= 0; i-- {
		if Contains(g.Keys[i].Rect, x, y) {
			return g.Keys[i], true
		}
	}
	return Key{}, false
}
