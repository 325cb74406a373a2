// Package control turns client touch messages into host input commands.
package control

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/frudas24/touchslice/internal/contact"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Message types sent by the client.
const (
	TypeStart          = "start"
	TypeMove           = "move"
	TypeEnd            = "end"
	TypeCancel         = "cancel"
	TypeSetting        = "setting"
	TypeInputEnabled   = "inputEnabled"
	TypeResetModifiers = "resetModifiers"
	TypeLayout         = "layout"
)

// Message types sent to the client.
const (
	TypeModifiers = "modifiers"
	TypeAction    = "action"
)

// Surfaces a touch batch can target.
const (
	SurfaceTouchpad = "touchpad"
	SurfaceKeyboard = "keyboard"
)

// ErrBadMessage is returned for payloads that cannot be decoded or routed.
var ErrBadMessage = errors.New("bad control message")

// Touch is one contact of a batch, in surface pixels.
type Touch struct {
	ID int64   `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Message is a control payload in either direction.
type Message struct {
	T       string  `json:"t"`
	Surface string  `json:"surface,omitempty"`
	Touches []Touch `json:"touches,omitempty"`
	// W and H are the client's size of the surface, used to scale keyboard
	// touches onto the key geometry.
	W       float64 `json:"w,omitempty"`
	H       float64 `json:"h,omitempty"`
	Name    string  `json:"name,omitempty"`
	Value   string  `json:"value,omitempty"`
	Enabled *bool   `json:"enabled,omitempty"`
	Level   string  `json:"level,omitempty"`
}

// Decode parses a control payload.
func Decode(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return msg, fmt.Errorf("%w: %v", ErrBadMessage, err)
	}
	if msg.T == "" {
		return msg, fmt.Errorf("%w: missing type", ErrBadMessage)
	}
	return msg, nil
}

// Encode serializes a control payload.
func Encode(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// points converts the touches of a batch into contact points.
func (m Message) points() []contact.Point {
	out := make([]contact.Point, len(m.Touches))
	for i, t := range m.Touches {
		out[i] = contact.Point{ID: contact.ID(t.ID), X: t.X, Y: t.Y}
	}
	return out
}
