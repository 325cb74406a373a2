package webrtc

import "sync/atomic"

// debugMessages controls whether every data-channel payload is logged.
var debugMessages atomic.Bool

// SetDebugLogging enables/disables verbose data-channel logs.
func SetDebugLogging(enabled bool) {
	debugMessages.Store(enabled)
}

// debugMessagesEnabled reports whether data-channel payload logs are enabled.
func debugMessagesEnabled() bool {
	return debugMessages.Load()
}
