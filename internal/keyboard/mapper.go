package keyboard

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/frudas24/touchslice/internal/command"
	"github.com/frudas24/touchslice/internal/contact"
)

// activeKey is the key a contact currently rests on.
type activeKey struct {
	pos     Position
	variant Variant
	// owesRelease is false for action elements and unbound keys.
	owesRelease bool
}

// heldModifier counts the contacts holding a level modifier. base is the
// modifier's value before the first of them pressed it.
type heldModifier struct {
	count int
	base  bool
}

// transition applies a press or release of a level modifier. The last
// release restores the value the modifier had before the first press.
func (h *heldModifier) transition(pressed bool, get func() bool, set func(bool)) {
	if pressed {
		if h.count == 0 {
			h.base = get()
		}
		h.count++
		set(true)
		return
	}
	if h.count == 0 {
		return
	}
	h.count--
	if h.count == 0 {
		set(h.base)
	}
}

// Mapper turns keyboard-surface contacts into key presses and releases.
// It is not safe for concurrent use.
type Mapper struct {
	logger   zerolog.Logger
	layout   Layout
	sink     command.Sink
	mods     *ModifierState
	contacts *contact.Tracker
	touches  map[contact.ID]activeKey
	shift    heldModifier
	altgr    heldModifier
}

// NewMapper returns a mapper for one keyboard surface. A nil mods allocates
// a fresh modifier state.
func NewMapper(layout Layout, sink command.Sink, mods *ModifierState) *Mapper {
	logger := log.With().
		Str("module", "keyboard").
		Logger()

	if mods == nil {
		mods = &ModifierState{}
	}
	return &Mapper{
		logger:   logger,
		layout:   layout,
		sink:     sink,
		mods:     mods,
		contacts: contact.NewTracker(),
		touches:  make(map[contact.ID]activeKey),
	}
}

// Modifiers returns the modifier state owned by this mapper.
func (m *Mapper) Modifiers() *ModifierState {
	return m.mods
}

// ResetModifiers clears shift and altgr. Keys still held keep their
// contacts but release to the cleared state.
func (m *Mapper) ResetModifiers() {
	m.mods.Reset()
	m.shift.base = false
	m.altgr.base = false
}

// SetLayout releases every held key and switches to layout.
func (m *Mapper) SetLayout(layout Layout) {
	m.releaseAll()
	m.layout = layout
}

// Active returns the key under each contact that rests on one.
func (m *Mapper) Active() map[contact.ID]Position {
	out := make(map[contact.ID]Position, len(m.touches))
	for id, ak := range m.touches {
		out[id] = ak.pos
	}
	return out
}

// Start handles a contact-start batch, pressing the keys under new contacts.
func (m *Mapper) Start(points []contact.Point) error {
	var errs []error
	for _, c := range m.contacts.Start(points) {
		pos, ok := m.hitTest(c.X, c.Y)
		if !ok {
			continue
		}
		if err := m.press(c.ID, pos); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Move handles a contact-move batch. A contact that leaves its key releases
// it, and one that enters a key presses it, in that order.
func (m *Mapper) Move(points []contact.Point) error {
	var errs []error
	for _, u := range m.contacts.Move(points) {
		id := u.New.ID
		pos, onKey := m.hitTest(u.New.X, u.New.Y)
		prev, had := m.touches[id]
		if had && onKey && prev.pos == pos {
			continue
		}
		if had {
			m.release(id)
		}
		if onKey {
			if err := m.press(id, pos); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// End handles a contact-end batch, releasing the keys under the contacts.
func (m *Mapper) End(points []contact.Point) error {
	for _, c := range m.contacts.End(points) {
		m.release(c.ID)
	}
	return nil
}

// Cancel handles a contact-cancel batch exactly like End.
func (m *Mapper) Cancel(points []contact.Point) error {
	return m.End(points)
}

// Reset releases every held key and forgets all contacts. Modifier state is
// left alone.
func (m *Mapper) Reset() {
	m.releaseAll()
	m.contacts.Clear()
}

// press records that id rests on pos and emits the press.
func (m *Mapper) press(id contact.ID, pos Position) error {
	binding, ok := m.layout.ResolveKey(pos)
	if !ok {
		m.touches[id] = activeKey{pos: pos}
		return fmt.Errorf("%w: %s", ErrUnknownKey, pos)
	}
	if binding.Action != "" {
		m.touches[id] = activeKey{pos: pos}
		m.sink.Send(command.Action(binding.Action))
		return nil
	}

	v, ok := binding.Resolve(m.mods)
	if !ok {
		m.touches[id] = activeKey{pos: pos}
		return fmt.Errorf("%w: %s has no variant for %s", ErrUnknownKey, pos, m.mods.Level())
	}
	m.touches[id] = activeKey{pos: pos, variant: v, owesRelease: true}
	m.sink.Send(command.KeyDown(v.Name, v.Dead))
	// Visible to the next contact of this batch.
	m.applyModifier(v, true)
	return nil
}

// release emits the release owed by id, if any, and forgets its key.
func (m *Mapper) release(id contact.ID) {
	ak, ok := m.touches[id]
	if !ok {
		return
	}
	delete(m.touches, id)
	if !ak.owesRelease {
		return
	}
	m.sink.Send(command.KeyUp(ak.variant.Name, ak.variant.Dead))
	m.applyModifier(ak.variant, false)
}

// releaseAll releases every held key.
func (m *Mapper) releaseAll() {
	for _, c := range m.contacts.Contacts() {
		m.release(c.ID)
	}
}

// applyModifier updates the modifier state for a modifier key transition.
func (m *Mapper) applyModifier(v Variant, pressed bool) {
	switch classify(v) {
	case modShift:
		m.shift.transition(pressed, m.mods.Shift, m.mods.SetShift)
	case modAltGr:
		m.altgr.transition(pressed, m.mods.AltGr, m.mods.SetAltGr)
	case modCapsLock:
		if !pressed {
			return
		}
		m.mods.ToggleShift()
		if m.shift.count > 0 {
			m.shift.base = !m.shift.base
		}
	default:
		return
	}
	m.logger.Debug().Str("level", string(m.mods.Level())).Msg("modifiers changed")
}

// hitTest resolves the key under a point, if any.
func (m *Mapper) hitTest(x, y float64) (Position, bool) {
	if m.layout == nil {
		return "", false
	}
	return m.layout.HitTest(x, y)
}
