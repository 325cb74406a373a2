// Package remote forwards commands to a controller process over a websocket.
package remote

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/frudas24/touchslice/internal/command"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNotForwarded is returned for commands that have no wire form.
var ErrNotForwarded = errors.New("command is not forwarded")

// Wire command names understood by the controller.
const (
	wireMouseMove   = "mouse_move"
	wireMouseScroll = "mouse_scroll"
	wireMouseDown   = "mouse_down"
	wireMouseUp     = "mouse_up"
	wireKeyDown     = "key_down"
	wireKeyUp       = "key_up"
)

// envelope is one controller message.
type envelope struct {
	Command string `json:"command"`
	Data    any    `json:"data"`
}

type deltaData struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type buttonData struct {
	Button string `json:"button"`
}

type keyData struct {
	Name   string `json:"name"`
	IsDead bool   `json:"is_dead"`
}

// Encode serializes cmd in the controller wire format.
func Encode(cmd command.Command) ([]byte, error) {
	var env envelope
	switch cmd.Kind {
	case command.KindMove:
		env = envelope{Command: wireMouseMove, Data: deltaData{DX: cmd.DX, DY: cmd.DY}}
	case command.KindScroll:
		env = envelope{Command: wireMouseScroll, Data: deltaData{DX: cmd.DX, DY: cmd.DY}}
	case command.KindButtonDown:
		env = envelope{Command: wireMouseDown, Data: buttonData{Button: string(cmd.Button)}}
	case command.KindButtonUp:
		env = envelope{Command: wireMouseUp, Data: buttonData{Button: string(cmd.Button)}}
	case command.KindKeyDown:
		env = envelope{Command: wireKeyDown, Data: keyData{Name: cmd.Name, IsDead: cmd.Dead}}
	case command.KindKeyUp:
		env = envelope{Command: wireKeyUp, Data: keyData{Name: cmd.Name, IsDead: cmd.Dead}}
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotForwarded, cmd.Kind)
	}
	return json.Marshal(env)
}
