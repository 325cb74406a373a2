package testutil

import (
	"fmt"
	"sync"

	"github.com/frudas24/touchslice/internal/wininput"
)

// FakeInjector implements wininput.Injector and records calls for tests.
type FakeInjector struct {
	mu    sync.Mutex
	Calls []string
	// Fail makes every call return this error when set.
	Fail error
}

// Ensure FakeInjector implements the interface.
var _ wininput.Injector = (*FakeInjector)(nil)

// record appends a formatted call.
func (f *FakeInjector) record(format string, args ...any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, fmt.Sprintf(format, args...))
	return f.Fail
}

// Take returns the recorded calls and clears the record.
func (f *FakeInjector) Take() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.Calls
	f.Calls = nil
	return out
}

// MoveRel records a relative move.
func (f *FakeInjector) MoveRel(dx, dy int) error {
	return f.record("MoveRel(%d,%d)", dx, dy)
}

// ButtonDown records a button press.
func (f *FakeInjector) ButtonDown(b wininput.Button) error {
	return f.record("ButtonDown(%d)", b)
}

// ButtonUp records a button release.
func (f *FakeInjector) ButtonUp(b wininput.Button) error {
	return f.record("ButtonUp(%d)", b)
}

// Wheel records a vertical wheel delta.
func (f *FakeInjector) Wheel(delta int) error {
	return f.record("Wheel(%d)", delta)
}

// HWheel records a horizontal wheel delta.
func (f *FakeInjector) HWheel(delta int) error {
	return f.record("HWheel(%d)", delta)
}

// SpecialKey records a named key transition.
func (f *FakeInjector) SpecialKey(name string, press bool) error {
	return f.record("SpecialKey(%s,%t)", name, press)
}

// Unicode records a character key transition.
func (f *FakeInjector) Unicode(r rune, press bool) error {
	return f.record("Unicode(%c,%t)", r, press)
}
