// Package pointer classifies touchpad contacts into pointer commands.
package pointer

import (
	"math"
	"time"
)

// Setting names read from the configuration provider.
const (
	SettingSensitivity    = "view.sensitivity"
	SettingAcceleration   = "view.acceleration"
	SettingNaturalScroll  = "view.naturalScroll"
	SettingClickDelay     = "view.clickDelay"
	SettingClickThreshold = "view.clickThreshold"
	SettingCancelPolicy   = "view.cancelPolicy"
)

// Defaults for settings absent from the configuration provider.
const (
	DefaultSensitivity   = 1.5
	DefaultAcceleration  = 0.3
	DefaultNaturalScroll = true
	// DefaultClickDelay is also the window in which a new contact turns a
	// tap into a drag.
	DefaultClickDelay = 300 * time.Millisecond
	// ClickThreshold is the maximum travel, in pixels, of a tap.
	ClickThreshold = 10.0
)

// CancelPolicy decides what a cancelled contact does to the gesture.
type CancelPolicy string

const (
	// CancelAsEnd commits the gesture exactly like a contact end.
	CancelAsEnd CancelPolicy = "end"
	// CancelDiscard drops the gesture without clicking and releases a held
	// drag button.
	CancelDiscard CancelPolicy = "discard"
)

// Config supplies named settings; missing or unparsable values yield def.
type Config interface {
	Float(name string, def float64) float64
	Bool(name string, def bool) bool
	String(name string, def string) string
}

// defaultConfig answers every lookup with the default.
type defaultConfig struct{}

// Float returns def.
func (defaultConfig) Float(_ string, def float64) float64 { return def }

// Bool returns def.
func (defaultConfig) Bool(_ string, def bool) bool { return def }

// String returns def.
func (defaultConfig) String(_ string, def string) string { return def }

// Movement converts a contact delta into a pointer movement. The magnitude
// grows as sensitivity * |delta|^(1+acceleration) along the delta direction.
func Movement(dx, dy, sensitivity, acceleration float64) (float64, float64) {
	d := math.Hypot(dx, dy)
	a := math.Atan2(dy, dx)
	h := sensitivity * math.Pow(d, 1+acceleration)
	return math.Cos(a) * h, math.Sin(a) * h
}

// ScrollDelta converts a contact delta into a scroll amount. Natural scroll
// inverts both axes.
func ScrollDelta(dx, dy float64, natural bool) (float64, float64) {
	if natural {
		return -dx, -dy
	}
	return dx, dy
}

// parseCancelPolicy maps a setting value to a policy, defaulting to CancelAsEnd.
func parseCancelPolicy(v string) CancelPolicy {
	if CancelPolicy(v) == CancelDiscard {
		return CancelDiscard
	}
	return CancelAsEnd
}
