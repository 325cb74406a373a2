// Package keyboard maps keyboard-surface contacts to key commands.
package keyboard

// Level names the combined modifier state, matching the class names used by
// the client to show key labels.
type Level string

const (
	// LevelNone means no modifier is active.
	LevelNone Level = "mod-none"
	// LevelShift means only shift is active.
	LevelShift Level = "mod-shift"
	// LevelAltGr means only altgr is active.
	LevelAltGr Level = "mod-altgr"
	// LevelBoth means shift and altgr are active.
	LevelBoth Level = "mod-both"
)

// ModifierState holds the shift and altgr flags of one keyboard surface.
// The two flags are independent.
type ModifierState struct {
	shift bool
	altgr bool
}

// Shift reports whether shift is active.
func (m *ModifierState) Shift() bool {
	return m.shift
}

// AltGr reports whether altgr is active.
func (m *ModifierState) AltGr() bool {
	return m.altgr
}

// SetShift sets or clears shift.
func (m *ModifierState) SetShift(v bool) {
	m.shift = v
}

// SetAltGr sets or clears altgr.
func (m *ModifierState) SetAltGr(v bool) {
	m.altgr = v
}

// ToggleShift flips shift, as caps lock does.
func (m *ModifierState) ToggleShift() {
	m.shift = !m.shift
}

// Reset clears both modifiers.
func (m *ModifierState) Reset() {
	m.shift = false
	m.altgr = false
}

// Index returns the binding variant index (shift<<0)|(altgr<<1).
func (m *ModifierState) Index() int {
	i := 0
	if m.shift {
		i |= 1
	}
	if m.altgr {
		i |= 2
	}
	return i
}

// Level returns the combined modifier level.
func (m *ModifierState) Level() Level {
	switch m.Index() {
	case 1:
		return LevelShift
	case 2:
		return LevelAltGr
	case 3:
		return LevelBoth
	default:
		return LevelNone
	}
}
