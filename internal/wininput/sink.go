package wininput

import (
	"math"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/frudas24/touchslice/internal/command"
)

// DefaultWheelPerPixel converts scroll pixels into wheel units.
const DefaultWheelPerPixel = 4.0

// Sink applies commands to an Injector. Sub-pixel motion is carried over to
// the next command, and dead keys compose with the following character.
type Sink struct {
	logger zerolog.Logger
	mu     sync.Mutex
	inj    Injector

	wheelPerPixel  float64
	moveX, moveY   float64
	wheelX, wheelY float64

	// dead is the spacing form of a pending dead key, or 0.
	dead rune
	// typed holds the runes injected for each pressed character key.
	typed map[string][]rune
}

// Ensure Sink implements the command sink interface.
var _ command.Sink = (*Sink)(nil)

// NewSink returns a sink applying commands through inj.
func NewSink(inj Injector) *Sink {
	return &Sink{
		logger: log.With().
			Str("module", "wininput").
			Logger(),
		inj:           inj,
		wheelPerPixel: DefaultWheelPerPixel,
		typed:         make(map[string][]rune),
	}
}

// Send applies one command. Injection failures are logged.
func (s *Sink) Send(cmd command.Command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.apply(cmd); err != nil {
		s.logger.Warn().Err(err).Str("command", cmd.String()).Msg("input injection failed")
	}
}

// apply dispatches cmd to the injector.
func (s *Sink) apply(cmd command.Command) error {
	switch cmd.Kind {
	case command.KindMove:
		var dx, dy int
		dx, s.moveX = carry(cmd.DX + s.moveX)
		dy, s.moveY = carry(cmd.DY + s.moveY)
		if dx == 0 && dy == 0 {
			return nil
		}
		return s.inj.MoveRel(dx, dy)
	case command.KindScroll:
		var wx, wy int
		wx, s.wheelX = carry(cmd.DX*s.wheelPerPixel + s.wheelX)
		wy, s.wheelY = carry(cmd.DY*s.wheelPerPixel + s.wheelY)
		if wy != 0 {
			// Positive wheel scrolls up.
			if err := s.inj.Wheel(-wy); err != nil {
				return err
			}
		}
		if wx != 0 {
			return s.inj.HWheel(wx)
		}
		return nil
	case command.KindButtonDown:
		return s.inj.ButtonDown(button(cmd.Button))
	case command.KindButtonUp:
		return s.inj.ButtonUp(button(cmd.Button))
	case command.KindKeyDown:
		return s.keyDown(cmd.Name, cmd.Dead)
	case command.KindKeyUp:
		return s.keyUp(cmd.Name, cmd.Dead)
	default:
		return nil
	}
}

// keyDown presses a key, holding back dead keys until the next character.
func (s *Sink) keyDown(name string, dead bool) error {
	if isSpecial(name) {
		s.dead = 0
		return s.inj.SpecialKey(name, true)
	}
	r, _ := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return nil
	}
	if dead {
		if s.dead != 0 {
			// Two dead keys in a row type the first one.
			if err := s.tap(s.dead); err != nil {
				return err
			}
		}
		s.dead = r
		return nil
	}

	runes := []rune{r}
	if s.dead != 0 {
		switch composed, ok := compose(s.dead, r); {
		case ok:
			runes = []rune{composed}
		case r == ' ':
			runes = []rune{s.dead}
		default:
			if err := s.tap(s.dead); err != nil {
				return err
			}
		}
		s.dead = 0
	}
	s.typed[name] = runes
	for _, r := range runes {
		if err := s.inj.Unicode(r, true); err != nil {
			return err
		}
	}
	return nil
}

// keyUp releases exactly what the matching keyDown pressed.
func (s *Sink) keyUp(name string, dead bool) error {
	if isSpecial(name) {
		return s.inj.SpecialKey(name, false)
	}
	if dead {
		return nil
	}
	runes, ok := s.typed[name]
	if !ok {
		return nil
	}
	delete(s.typed, name)
	for i := len(runes) - 1; i >= 0; i-- {
		if err := s.inj.Unicode(runes[i], false); err != nil {
			return err
		}
	}
	return nil
}

// tap presses and releases r.
func (s *Sink) tap(r rune) error {
	if err := s.inj.Unicode(r, true); err != nil {
		return err
	}
	return s.inj.Unicode(r, false)
}

// carry splits v into a whole part to inject and a remainder to keep.
func carry(v float64) (int, float64) {
	whole := math.Trunc(v)
	return int(whole), v - whole
}

// isSpecial reports whether name is a <named> key.
func isSpecial(name string) bool {
	return len(name) > 2 && strings.HasPrefix(name, "<") && strings.HasSuffix(name, ">")
}

// button maps a command button to an injector button.
func button(b command.Button) Button {
	switch b {
	case command.ButtonRight:
		return ButtonRight
	case command.ButtonMiddle:
		return ButtonMiddle
	default:
		return ButtonLeft
	}
}
