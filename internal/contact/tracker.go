// Package contact tracks active touch contacts on a single surface.
package contact

import "math"

// ID identifies a contact for as long as it stays down.
type ID int64

// Point is one entry of a platform touch batch.
type Point struct {
	ID ID
	X  float64
	Y  float64
}

// Contact is the tracked state of one active contact.
type Contact struct {
	ID       ID
	X        float64
	Y        float64
	OriginX  float64
	OriginY  float64
	Distance float64
}

// Update pairs the state of a contact before and after a move.
type Update struct {
	Old Contact
	New Contact
}

// Delta returns the movement between the old and new positions.
func (u Update) Delta() (dx, dy float64) {
	return u.New.X - u.Old.X, u.New.Y - u.Old.Y
}

// Tracker keeps the set of active contacts keyed by identifier, in the order
// they started. It is not safe for concurrent use.
type Tracker struct {
	contacts map[ID]*Contact
	order    []ID
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{contacts: make(map[ID]*Contact)}
}

// Start registers new contacts and returns the ones that were added.
// Duplicate identifiers are ignored and leave the existing entry untouched.
func (t *Tracker) Start(points []Point) []Contact {
	var added []Contact
	for _, p := range points {
		if _, exists := t.contacts[p.ID]; exists {
			continue
		}
		c := &Contact{ID: p.ID, X: p.X, Y: p.Y, OriginX: p.X, OriginY: p.Y}
		t.contacts[p.ID] = c
		t.order = append(t.order, p.ID)
		added = append(added, *c)
	}
	return added
}

// Move updates known contacts and returns their old and new state.
// Unknown identifiers are ignored.
func (t *Tracker) Move(points []Point) []Update {
	var updates []Update
	for _, p := range points {
		c, ok := t.contacts[p.ID]
		if !ok {
			continue
		}
		old := *c
		c.Distance += math.Hypot(p.X-c.X, p.Y-c.Y)
		c.X = p.X
		c.Y = p.Y
		updates = append(updates, Update{Old: old, New: *c})
	}
	return updates
}

// End removes contacts and returns their final state. Unknown identifiers
// are ignored.
func (t *Tracker) End(points []Point) []Contact {
	var removed []Contact
	for _, p := range points {
		c, ok := t.contacts[p.ID]
		if !ok {
			continue
		}
		removed = append(removed, *c)
		t.remove(p.ID)
	}
	return removed
}

// Clear removes every contact and returns them in start order.
func (t *Tracker) Clear() []Contact {
	removed := t.Contacts()
	t.contacts = make(map[ID]*Contact)
	t.order = nil
	return removed
}

// Len returns the number of active contacts.
func (t *Tracker) Len() int {
	return len(t.order)
}

// Has reports whether id is active.
func (t *Tracker) Has(id ID) bool {
	_, ok := t.contacts[id]
	return ok
}

// Get returns the state of an active contact.
func (t *Tracker) Get(id ID) (Contact, bool) {
	c, ok := t.contacts[id]
	if !ok {
		return Contact{}, false
	}
	return *c, true
}

// Contacts returns a snapshot of the active contacts in start order.
func (t *Tracker) Contacts() []Contact {
	out := make([]Contact, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, *t.contacts[id])
	}
	return out
}

// remove deletes id from the map and the ordering.
func (t *Tracker) remove(id ID) {
	delete(t.contacts, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			return
		}
	}
}
