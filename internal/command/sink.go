package command

// Sink accepts commands in emission order. Delivery is fire-and-forget.
type Sink interface {
	Send(cmd Command)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(cmd Command)

// Send calls f(cmd).
func (f SinkFunc) Send(cmd Command) {
	f(cmd)
}

// Discard drops every command.
var Discard Sink = SinkFunc(func(Command) {})

// Gate forwards commands only while enabled reports true.
func Gate(next Sink, enabled func() bool) Sink {
	return SinkFunc(func(cmd Command) {
		if enabled != nil && !enabled() {
			return
		}
		next.Send(cmd)
	})
}

// Split routes action commands to actions and everything else to input.
func Split(input, actions Sink) Sink {
	return SinkFunc(func(cmd Command) {
		if cmd.Kind == KindAction {
			if actions != nil {
				actions.Send(cmd)
			}
			return
		}
		input.Send(cmd)
	})
}
