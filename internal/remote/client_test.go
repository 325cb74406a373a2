package remote

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/frudas24/touchslice/internal/command"
)

// controller is a websocket server recording received payloads.
type controller struct {
	srv      *httptest.Server
	received chan string
}

// newController starts a recording controller.
func newController(t *testing.T) *controller {
	t.Helper()
	c := &controller{received: make(chan string, 64)}
	upgrader := websocket.Upgrader{}
	c.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				close(c.received)
				return
			}
			c.received <- string(data)
		}
	}))
	t.Cleanup(c.srv.Close)
	return c
}

// logBuffer collects log output written from several goroutines.
type logBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write appends p.
func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns everything written so far.
func (b *logBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// captureLogs routes the global logger into a buffer for the rest of the test.
func captureLogs(t *testing.T) *logBuffer {
	t.Helper()
	buf := &logBuffer{}
	prev := log.Logger
	log.Logger = zerolog.New(buf)
	t.Cleanup(func() { log.Logger = prev })
	return buf
}

// url returns the websocket URL of the controller.
func (c *controller) url() string {
	return "ws" + strings.TrimPrefix(c.srv.URL, "http")
}

// next waits for the next payload.
func (c *controller) next(t *testing.T) string {
	t.Helper()
	select {
	case msg, ok := <-c.received:
		if !ok {
			t.Fatalf("controller connection closed")
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for command")
	}
	return ""
}

// TestEncode_WireFormat verifies every forwarded kind.
func TestEncode_WireFormat(t *testing.T) {
	cases := []struct {
		cmd  command.Command
		want string
	}{
		{command.Move(1.5, -2), `{"command":"mouse_move","data":{"dx":1.5,"dy":-2}}`},
		{command.Scroll(0, 3), `{"command":"mouse_scroll","data":{"dx":0,"dy":3}}`},
		{command.ButtonDown(command.ButtonRight), `{"command":"mouse_down","data":{"button":"right"}}`},
		{command.ButtonUp(command.ButtonLeft), `{"command":"mouse_up","data":{"button":"left"}}`},
		{command.KeyDown("^", true), `{"command":"key_down","data":{"name":"^","is_dead":true}}`},
		{command.KeyUp("<enter>", false), `{"command":"key_up","data":{"name":"<enter>","is_dead":false}}`},
	}
	for _, tc := range cases {
		got, err := Encode(tc.cmd)
		if err != nil {
			t.Fatalf("Encode(%v) failed: %v", tc.cmd, err)
		}
		if string(got) != tc.want {
			t.Fatalf("Encode(%v) = %s, want %s", tc.cmd, got, tc.want)
		}
	}
}

// TestEncode_ActionNotForwarded verifies UI actions stay local.
func TestEncode_ActionNotForwarded(t *testing.T) {
	if _, err := Encode(command.Action("settings")); !errors.Is(err, ErrNotForwarded) {
		t.Fatalf("expected ErrNotForwarded, got %v", err)
	}
}

// TestClient_OrderedDelivery verifies commands arrive in send order.
func TestClient_OrderedDelivery(t *testing.T) {
	ctrl := newController(t)
	client, err := Dial(context.Background(), ctrl.url(), 16)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}

	client.Send(command.ButtonDown(command.ButtonLeft))
	client.Send(command.Action("settings"))
	client.Send(command.Move(1, 1))
	client.Send(command.ButtonUp(command.ButtonLeft))

	for _, want := range []string{wireMouseDown, wireMouseMove, wireMouseUp} {
		if got := ctrl.next(t); !strings.Contains(got, `"command":"`+want+`"`) {
			t.Fatalf("expected %s, got %s", want, got)
		}
	}

	if err := client.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !errors.Is(client.Err(), ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", client.Err())
	}
	client.Send(command.Move(1, 1))
	if client.Dropped() != 1 {
		t.Fatalf("expected send after close to be dropped, got %d", client.Dropped())
	}
}

// TestClient_CloseFlushesQueue verifies queued commands are written before closing.
func TestClient_CloseFlushesQueue(t *testing.T) {
	ctrl := newController(t)
	client, err := Dial(context.Background(), ctrl.url(), 64)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		client.Send(command.Scroll(0, float64(i)))
	}
	_ = client.Close()

	for i := 0; i < 10; i++ {
		if got := ctrl.next(t); !strings.Contains(got, wireMouseScroll) {
			t.Fatalf("expected scroll %d, got %s", i, got)
		}
	}
}

// TestClient_CloseIsQuiet verifies a local close is not reported as a lost connection.
func TestClient_CloseIsQuiet(t *testing.T) {
	logs := captureLogs(t)
	ctrl := newController(t)
	client, err := Dial(context.Background(), ctrl.url(), 4)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	client.Send(command.Move(1, 1))
	_ = client.Close()

	if strings.Contains(logs.String(), "connection lost") {
		t.Fatalf("unexpected warning after close: %s", logs.String())
	}
	if !errors.Is(client.Err(), ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", client.Err())
	}
}

// TestClient_ServerGone verifies a lost controller stops the client.
func TestClient_ServerGone(t *testing.T) {
	logs := captureLogs(t)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		_ = conn.Close()
	}))
	defer srv.Close()

	client, err := Dial(context.Background(), "ws"+strings.TrimPrefix(srv.URL, "http"), 4)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}

	select {
	case <-client.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("expected client to stop")
	}
	if client.Err() == nil || errors.Is(client.Err(), ErrClosed) {
		t.Fatalf("expected a connection error, got %v", client.Err())
	}
	if !strings.Contains(logs.String(), "connection lost") {
		t.Fatalf("expected lost connection warning, got %s", logs.String())
	}
}

// TestDial_Unreachable verifies dial errors are returned.
func TestDial_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := Dial(ctx, "ws://127.0.0.1:1/none", 4); err == nil {
		t.Fatalf("expected dial error")
	}
}
