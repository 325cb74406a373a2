package control

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/frudas24/touchslice/internal/command"
	"github.com/frudas24/touchslice/internal/keyboard"
	"github.com/frudas24/touchslice/internal/pointer"
	"github.com/frudas24/touchslice/internal/schedule"
	"github.com/frudas24/touchslice/internal/session"
)

// ErrClosed is returned when a message arrives after the stream closed.
var ErrClosed = errors.New("control stream closed")

// Settings is the configuration provider shared by all streams.
type Settings interface {
	pointer.Config
	Set(name, value string) error
}

// Keyboard is a key layout together with the size of its surface.
type Keyboard interface {
	keyboard.Layout
	Size() (w, h float64)
}

// LayoutSource looks up a keyboard layout by id.
type LayoutSource func(id string) (Keyboard, error)

// Env holds the collaborators every stream shares.
type Env struct {
	Session  *session.Session
	Settings Settings
	Layouts  LayoutSource
	// Sink receives host input commands. Nil discards them.
	Sink command.Sink
}

// Stream owns the touchpad classifier and keyboard mapper of one client
// connection. All message handling and timer callbacks are serialized.
type Stream struct {
	mu         sync.Mutex
	logger     zerolog.Logger
	env        Env
	reply      func(Message) error
	classifier *pointer.Classifier
	mapper     *keyboard.Mapper
	keyboard   Keyboard
	level      keyboard.Level
	closed     bool
}

// NewStream returns a stream whose feedback messages go to reply. Reply is
// called with the stream lock held.
func NewStream(env Env, reply func(Message) error) *Stream {
	s := &Stream{}
	s.init(env, reply, schedule.NewTimers(&s.mu))
	return s
}

// init wires the stream to its collaborators.
func (s *Stream) init(env Env, reply func(Message) error, sched schedule.Scheduler) {
	s.logger = log.With().
		Str("module", "control").
		Logger()
	s.env = env
	s.reply = reply

	host := env.Sink
	if host == nil {
		host = command.Discard
	}
	input := command.Gate(host, env.Session.InputEnabled)
	actions := command.SinkFunc(func(cmd command.Command) {
		s.send(Message{T: TypeAction, Name: cmd.Name})
	})
	sink := command.Split(input, actions)

	var cfg pointer.Config
	if env.Settings != nil {
		cfg = env.Settings
	}
	s.classifier = pointer.NewClassifier(sink, sched, cfg)
	s.mapper = keyboard.NewMapper(nil, sink, nil)
	s.level = s.mapper.Modifiers().Level()

	if env.Layouts == nil {
		return
	}
	id := env.Session.Layout()
	kb, err := env.Layouts(id)
	if err != nil {
		s.logger.Warn().Err(err).Str("layout", id).Msg("keyboard layout unavailable")
		return
	}
	s.keyboard = kb
	s.mapper.SetLayout(kb)
}

// Announce sends the current modifier level to the client.
func (s *Stream) Announce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.send(Message{T: TypeModifiers, Level: string(s.level)})
}

// Modifiers returns the current modifier level.
func (s *Stream) Modifiers() keyboard.Level {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

// HandleRaw decodes and handles one payload.
func (s *Stream) HandleRaw(data []byte) error {
	msg, err := Decode(data)
	if err != nil {
		return err
	}
	return s.Handle(msg)
}

// Handle applies one control message.
func (s *Stream) Handle(msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	switch msg.T {
	case TypeStart, TypeMove, TypeEnd, TypeCancel:
		return s.handleTouches(msg)
	case TypeSetting:
		if s.env.Settings == nil {
			return fmt.Errorf("%w: settings are read-only", ErrBadMessage)
		}
		return s.env.Settings.Set(msg.Name, msg.Value)
	case TypeInputEnabled:
		if msg.Enabled == nil {
			return fmt.Errorf("%w: missing enabled", ErrBadMessage)
		}
		if !*msg.Enabled {
			// Release while commands still reach the host.
			s.releaseLocked()
			s.notifyModifiers()
		}
		s.env.Session.SetInputEnabled(*msg.Enabled)
		return nil
	case TypeResetModifiers:
		s.mapper.ResetModifiers()
		s.notifyModifiers()
		return nil
	case TypeLayout:
		return s.setLayoutLocked(msg.Name)
	default:
		return fmt.Errorf("%w: unknown type %q", ErrBadMessage, msg.T)
	}
}

// Close releases everything held by the stream: a pending click is
// cancelled, a drag button and pressed keys are released.
func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.releaseLocked()
}

// handleTouches routes a contact batch to its surface.
func (s *Stream) handleTouches(msg Message) error {
	points := msg.points()
	switch msg.Surface {
	case "", SurfaceTouchpad:
		switch msg.T {
		case TypeStart:
			s.classifier.Start(points)
		case TypeMove:
			s.classifier.Move(points)
		case TypeEnd:
			s.classifier.End(points)
		case TypeCancel:
			s.classifier.Cancel(points)
		}
		return nil
	case SurfaceKeyboard:
		if s.keyboard != nil {
			gw, gh := s.keyboard.Size()
			points = scalePoints(points, msg.W, msg.H, gw, gh)
		}
		var err error
		switch msg.T {
		case TypeStart:
			err = s.mapper.Start(points)
		case TypeMove:
			err = s.mapper.Move(points)
		case TypeEnd:
			err = s.mapper.End(points)
		case TypeCancel:
			err = s.mapper.Cancel(points)
		}
		s.notifyModifiers()
		return err
	default:
		return fmt.Errorf("%w: unknown surface %q", ErrBadMessage, msg.Surface)
	}
}

// setLayoutLocked switches the keyboard layout, releasing held keys.
func (s *Stream) setLayoutLocked(id string) error {
	if s.env.Layouts == nil {
		return fmt.Errorf("%w: no layouts", ErrBadMessage)
	}
	kb, err := s.env.Layouts(id)
	if err != nil {
		return err
	}
	s.keyboard = kb
	s.mapper.SetLayout(kb)
	s.env.Session.SetLayout(id)
	if s.env.Settings != nil {
		if err := s.env.Settings.Set("keyboard.layout", id); err != nil {
			s.logger.Warn().Err(err).Msg("layout not persisted")
		}
	}
	s.notifyModifiers()
	s.logger.Info().Str("layout", id).Msg("keyboard layout changed")
	return nil
}

// releaseLocked resets both surfaces, emitting every owed release.
func (s *Stream) releaseLocked() {
	s.classifier.Reset()
	s.mapper.Reset()
}

// notifyModifiers tells the client when the modifier level changed.
func (s *Stream) notifyModifiers() {
	level := s.mapper.Modifiers().Level()
	if level == s.level {
		return
	}
	s.level = level
	s.send(Message{T: TypeModifiers, Level: string(level)})
}

// send delivers a feedback message, logging failures.
func (s *Stream) send(msg Message) {
	if s.reply == nil {
		return
	}
	if err := s.reply(msg); err != nil {
		s.logger.Debug().Err(err).Str("type", msg.T).Msg("feedback not delivered")
	}
}
