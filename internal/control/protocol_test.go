package control

import (
	"errors"
	"testing"
)

// TestProtocol_Touches verifies decoding a touch batch.
func TestProtocol_Touches(t *testing.T) {
	msg, err := Decode([]byte(`{"t":"start","surface":"keyboard","w":450,"touches":[{"id":1,"x":0.5,"y":2},{"id":7,"x":3,"y":4}]}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if msg.T != TypeStart || msg.Surface != SurfaceKeyboard || msg.W != 450 || len(msg.Touches) != 2 {
		t.Fatalf("unexpected message: %+v", msg)
	}
	pts := msg.points()
	if pts[1].ID != 7 || pts[1].X != 3 || pts[1].Y != 4 {
		t.Fatalf("unexpected points: %+v", pts)
	}
}

// TestProtocol_Setting verifies decoding a setting message.
func TestProtocol_Setting(t *testing.T) {
	msg, err := Decode([]byte(`{"t":"setting","name":"view.sensitivity","value":"2"}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if msg.Name != "view.sensitivity" || msg.Value != "2" {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

// TestProtocol_InputEnabled verifies the enabled flag keeps an explicit false.
func TestProtocol_InputEnabled(t *testing.T) {
	msg, err := Decode([]byte(`{"t":"inputEnabled","enabled":false}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if msg.Enabled == nil || *msg.Enabled {
		t.Fatalf("expected explicit false, got %+v", msg.Enabled)
	}
}

// TestProtocol_Bad verifies malformed payloads are rejected.
func TestProtocol_Bad(t *testing.T) {
	for _, raw := range []string{`{"touches":[]}`, `{"t":`, `[]`} {
		if _, err := Decode([]byte(raw)); !errors.Is(err, ErrBadMessage) {
			t.Fatalf("expected ErrBadMessage for %s, got %v", raw, err)
		}
	}
}

// TestProtocol_EncodeFeedback verifies feedback omits empty fields.
func TestProtocol_EncodeFeedback(t *testing.T) {
	data, err := Encode(Message{T: TypeModifiers, Level: "mod-shift"})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if string(data) != `{"t":"modifiers","level":"mod-shift"}` {
		t.Fatalf("unexpected encoding %s", data)
	}
}
