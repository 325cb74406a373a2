package testutil

import (
	"sync"

	"github.com/frudas24/touchslice/internal/command"
)

// RecordingSink implements command.Sink and records commands for tests.
type RecordingSink struct {
	mu       sync.Mutex
	Commands []command.Command
}

// Ensure RecordingSink implements the interface.
var _ command.Sink = (*RecordingSink)(nil)

// Send records a command.
func (r *RecordingSink) Send(cmd command.Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Commands = append(r.Commands, cmd)
}

// Take returns the recorded commands and clears the record.
func (r *RecordingSink) Take() []command.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.Commands
	r.Commands = nil
	return out
}
