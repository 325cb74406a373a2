package pointer

import (
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/frudas24/touchslice/internal/command"
	"github.com/frudas24/touchslice/internal/contact"
	"github.com/frudas24/touchslice/internal/schedule"
)

// State is the observable gesture state of a classifier.
type State int

const (
	// Idle means no contact is down and nothing is pending.
	Idle State = iota
	// Tracking means contacts are down and no button is involved.
	Tracking
	// ClickPending means a tap ended and its click waits for the delay.
	ClickPending
	// Dragging means the left button is held by a tap-and-touch gesture.
	Dragging
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Tracking:
		return "tracking"
	case ClickPending:
		return "click_pending"
	case Dragging:
		return "dragging"
	default:
		return "idle"
	}
}

// Classifier turns touchpad contact batches into move, scroll, click and
// drag commands. It is not safe for concurrent use; callers serialize
// contact batches and scheduler callbacks.
type Classifier struct {
	logger   zerolog.Logger
	sink     command.Sink
	sched    schedule.Scheduler
	cfg      Config
	contacts *contact.Tracker

	// ref is the contact whose motion drives the current gesture.
	ref       contact.ID
	travel    float64
	committed bool

	pending       schedule.Task
	pendingButton command.Button
	dragging      bool
}

// NewClassifier returns a classifier emitting into sink. A nil cfg uses the
// documented defaults.
func NewClassifier(sink command.Sink, sched schedule.Scheduler, cfg Config) *Classifier {
	logger := log.With().
		Str("module", "pointer").
		Logger()

	if cfg == nil {
		cfg = defaultConfig{}
	}
	return &Classifier{
		logger:   logger,
		sink:     sink,
		sched:    sched,
		cfg:      cfg,
		contacts: contact.NewTracker(),
	}
}

// State reports the current gesture state.
func (c *Classifier) State() State {
	switch {
	case c.dragging:
		return Dragging
	case c.pending != nil:
		return ClickPending
	case c.contacts.Len() > 0:
		return Tracking
	default:
		return Idle
	}
}

// Contacts returns a snapshot of the contacts currently down.
func (c *Classifier) Contacts() []contact.Contact {
	return c.contacts.Contacts()
}

// Start handles a contact-start batch.
func (c *Classifier) Start(points []contact.Point) {
	wasEmpty := c.contacts.Len() == 0
	added := c.contacts.Start(points)
	if len(added) == 0 {
		return
	}

	if c.pending != nil {
		// Tap followed by a new touch inside the click window: drag.
		c.cancelPending()
		c.dragging = true
		c.resetGesture(added[0].ID)
		c.sink.Send(command.ButtonDown(command.ButtonLeft))
		return
	}
	if wasEmpty {
		c.resetGesture(added[0].ID)
	}
}

// Move handles a contact-move batch. The batch must cover exactly the
// contacts that are down; anything else is dropped.
func (c *Classifier) Move(points []contact.Point) {
	n := c.contacts.Len()
	if n == 0 || len(points) != n || !c.coversTracked(points) {
		c.logger.Debug().
			Int("tracked", n).
			Int("batch", len(points)).
			Msg("dropping partial move batch")
		return
	}
	if !c.contacts.Has(c.ref) {
		c.ref = c.contacts.Contacts()[0].ID
	}

	var (
		ref   contact.Update
		found bool
	)
	for _, u := range c.contacts.Move(points) {
		if u.New.ID == c.ref {
			ref, found = u, true
			break
		}
	}
	if !found {
		return
	}

	dx, dy := ref.Delta()
	c.travel += math.Hypot(dx, dy)
	if dx == 0 && dy == 0 {
		return
	}

	switch n {
	case 1:
		mx, my := Movement(dx, dy,
			c.cfg.Float(SettingSensitivity, DefaultSensitivity),
			c.cfg.Float(SettingAcceleration, DefaultAcceleration))
		c.sink.Send(command.Move(mx, my))
	case 2:
		sx, sy := ScrollDelta(dx, dy, c.cfg.Bool(SettingNaturalScroll, DefaultNaturalScroll))
		c.sink.Send(command.Scroll(sx, sy))
	}
}

// End handles a contact-end batch.
func (c *Classifier) End(points []contact.Point) {
	down := c.contacts.Len()
	if len(c.contacts.End(points)) == 0 {
		return
	}
	c.commit(down)
}

// Cancel handles a contact-cancel batch according to view.cancelPolicy.
func (c *Classifier) Cancel(points []contact.Point) {
	if parseCancelPolicy(c.cfg.String(SettingCancelPolicy, string(CancelAsEnd))) == CancelAsEnd {
		c.End(points)
		return
	}

	if len(c.contacts.End(points)) == 0 || c.committed {
		return
	}
	c.committed = true
	if c.dragging {
		c.dragging = false
		c.sink.Send(command.ButtonUp(command.ButtonLeft))
	}
}

// CancelClick cancels a pending click. It returns false when no click was
// pending, including on a repeated call.
func (c *Classifier) CancelClick() bool {
	return c.cancelPending()
}

// Reset drops all contacts and pending work, releasing a held drag button.
func (c *Classifier) Reset() {
	c.cancelPending()
	if c.dragging {
		c.dragging = false
		c.sink.Send(command.ButtonUp(command.ButtonLeft))
	}
	c.contacts.Clear()
	c.committed = false
	c.travel = 0
}

// commit decides the outcome of a gesture the first time one of its
// contacts ends; down is the number of contacts before the end.
func (c *Classifier) commit(down int) {
	if c.committed {
		return
	}
	c.committed = true

	if c.dragging {
		c.dragging = false
		c.sink.Send(command.ButtonUp(command.ButtonLeft))
		return
	}
	if c.travel >= c.cfg.Float(SettingClickThreshold, ClickThreshold) {
		return
	}

	button := command.ButtonLeft
	if down == 2 {
		button = command.ButtonRight
	}
	c.scheduleClick(button)
}

// scheduleClick queues a click of button after the click delay.
func (c *Classifier) scheduleClick(button command.Button) {
	if c.pending != nil {
		c.logger.Error().
			Str("button", string(c.pendingButton)).
			Msg("click already pending; cancelling it")
		c.cancelPending()
	}

	delay := time.Duration(c.cfg.Float(SettingClickDelay, float64(DefaultClickDelay/time.Millisecond)) * float64(time.Millisecond))
	var task schedule.Task
	task = c.sched.AfterFunc(delay, func() {
		if c.pending != task {
			return
		}
		c.pending = nil
		c.sink.Send(command.ButtonDown(button))
		c.sink.Send(command.ButtonUp(button))
	})
	c.pending = task
	c.pendingButton = button
}

// cancelPending cancels the pending click task, if any.
func (c *Classifier) cancelPending() bool {
	if c.pending == nil {
		return false
	}
	task := c.pending
	c.pending = nil
	return task.Cancel()
}

// resetGesture starts a new gesture driven by ref.
func (c *Classifier) resetGesture(ref contact.ID) {
	c.ref = ref
	c.travel = 0
	c.committed = false
}

// coversTracked reports whether points names every tracked contact once.
func (c *Classifier) coversTracked(points []contact.Point) bool {
	seen := make(map[contact.ID]struct{}, len(points))
	for _, p := range points {
		if !c.contacts.Has(p.ID) {
			return false
		}
		if _, dup := seen[p.ID]; dup {
			return false
		}
		seen[p.ID] = struct{}{}
	}
	return true
}
