// Package wininput applies input commands to the local desktop.
package wininput

import "errors"

// ErrUnknownKey is returned for special key names without a virtual key.
var ErrUnknownKey = errors.New("no virtual key for name")

// Button identifies a mouse button.
type Button int

const (
	// ButtonLeft is the primary button.
	ButtonLeft Button = iota
	// ButtonRight is the secondary button.
	ButtonRight
	// ButtonMiddle is the wheel button.
	ButtonMiddle
)

// WheelDelta is the wheel amount of one notch.
const WheelDelta = 120

// Injector defines the input operations used by the sink.
type Injector interface {
	MoveRel(dx, dy int) error
	ButtonDown(b Button) error
	ButtonUp(b Button) error
	Wheel(delta int) error
	HWheel(delta int) error
	// SpecialKey presses or releases a named key such as "<enter>".
	SpecialKey(name string, press bool) error
	// Unicode presses or releases the key producing r.
	Unicode(r rune, press bool) error
}
