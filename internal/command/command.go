// Package command defines the typed input intents produced by the gesture engine.
package command

import "fmt"

// Kind identifies the kind of input intent.
type Kind string

const (
	// KindMove moves the pointer by a relative offset.
	KindMove Kind = "move"
	// KindScroll scrolls by a relative offset.
	KindScroll Kind = "scroll"
	// KindButtonDown presses a pointer button.
	KindButtonDown Kind = "button_down"
	// KindButtonUp releases a pointer button.
	KindButtonUp Kind = "button_up"
	// KindKeyDown presses a key.
	KindKeyDown Kind = "key_down"
	// KindKeyUp releases a key.
	KindKeyUp Kind = "key_up"
	// KindAction triggers a layout action element; it has no release.
	KindAction Kind = "action"
)

// Button identifies a pointer button.
type Button string

const (
	// ButtonLeft is the primary button.
	ButtonLeft Button = "left"
	// ButtonRight is the secondary button.
	ButtonRight Button = "right"
	// ButtonMiddle is the middle button.
	ButtonMiddle Button = "middle"
)

// Command is a single immutable input intent. Only the fields relevant to
// Kind are set.
type Command struct {
	Kind   Kind
	DX     float64
	DY     float64
	Button Button
	Name   string
	Dead   bool
}

// Move returns a pointer move command.
func Move(dx, dy float64) Command {
	return Command{Kind: KindMove, DX: dx, DY: dy}
}

// Scroll returns a scroll command.
func Scroll(dx, dy float64) Command {
	return Command{Kind: KindScroll, DX: dx, DY: dy}
}

// ButtonDown returns a button press command.
func ButtonDown(b Button) Command {
	return Command{Kind: KindButtonDown, Button: b}
}

// ButtonUp returns a button release command.
func ButtonUp(b Button) Command {
	return Command{Kind: KindButtonUp, Button: b}
}

// KeyDown returns a key press command.
func KeyDown(name string, dead bool) Command {
	return Command{Kind: KindKeyDown, Name: name, Dead: dead}
}

// KeyUp returns a key release command.
func KeyUp(name string, dead bool) Command {
	return Command{Kind: KindKeyUp, Name: name, Dead: dead}
}

// Action returns an action element command.
func Action(name string) Command {
	return Command{Kind: KindAction, Name: name}
}

// String renders the command for logs and test failures.
func (c Command) String() string {
	switch c.Kind {
	case KindMove, KindScroll:
		return fmt.Sprintf("%s(%.3f,%.3f)", c.Kind, c.DX, c.DY)
	case KindButtonDown, KindButtonUp:
		return fmt.Sprintf("%s(%s)", c.Kind, c.Button)
	case KindKeyDown, KindKeyUp:
		if c.Dead {
			return fmt.Sprintf("%s(%q,dead)", c.Kind, c.Name)
		}
		return fmt.Sprintf("%s(%q)", c.Kind, c.Name)
	default:
		return fmt.Sprintf("%s(%q)", c.Kind, c.Name)
	}
}
