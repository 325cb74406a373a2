// Package signaling negotiates the WebRTC peer carrying touch data channels.
package signaling

import "github.com/pion/webrtc/v3"

// Message types exchanged during negotiation.
const (
	TypeOffer  = "offer"
	TypeAnswer = "answer"
	TypeICE    = "ice"
	TypeError  = "error"
)

// Message is a websocket signaling payload.
type Message struct {
	T         string                   `json:"t"`
	SDP       string                   `json:"sdp,omitempty"`
	Candidate *webrtc.ICECandidateInit `json:"candidate,omitempty"`
	// Error explains why the server is ending negotiation.
	Error string `json:"error,omitempty"`
}
