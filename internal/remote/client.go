package remote

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/frudas24/touchslice/internal/command"
)

// ErrClosed is returned by Err after the client was closed locally.
var ErrClosed = errors.New("remote client closed")

const writeWait = 5 * time.Second

// Client is a command sink that writes commands, in order, to a controller
// websocket. Commands that do not fit the queue are dropped.
type Client struct {
	logger zerolog.Logger
	conn   *websocket.Conn

	mu     sync.RWMutex
	queue  chan []byte
	closed bool
	err    error

	dropped  atomic.Uint64
	done     chan struct{}
	readDone chan struct{}
}

// Ensure Client implements the sink interface.
var _ command.Sink = (*Client)(nil)

// Dial connects to the controller at url.
func Dial(ctx context.Context, url string, queue int) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return NewClient(conn, queue), nil
}

// NewClient starts forwarding over an established connection.
func NewClient(conn *websocket.Conn, queue int) *Client {
	if queue <= 0 {
		queue = 1
	}
	c := &Client{
		logger: log.With().
			Str("module", "remote").
			Str("peer", conn.RemoteAddr().String()).
			Logger(),
		conn:     conn,
		queue:    make(chan []byte, queue),
		done:     make(chan struct{}),
		readDone: make(chan struct{}),
	}
	go c.writeLoop()
	go c.readLoop()
	return c
}

// Send queues cmd for the controller. It never blocks.
func (c *Client) Send(cmd command.Command) {
	data, err := Encode(cmd)
	if err != nil {
		c.logger.Debug().Err(err).Str("command", cmd.String()).Msg("command skipped")
		return
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		c.dropped.Add(1)
		return
	}
	select {
	case c.queue <- data:
	default:
		n := c.dropped.Add(1)
		c.logger.Warn().Str("command", cmd.String()).Uint64("dropped", n).Msg("controller queue full; command dropped")
	}
}

// Dropped returns how many commands were dropped so far.
func (c *Client) Dropped() uint64 {
	return c.dropped.Load()
}

// Err returns the error that stopped the client, if any.
func (c *Client) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Done is closed once the connection has been shut down.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close flushes queued commands, then closes the connection.
func (c *Client) Close() error {
	c.stop(ErrClosed)
	<-c.done
	<-c.readDone
	return nil
}

// stop refuses further commands and lets the writer drain the queue.
func (c *Client) stop(reason error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.err = reason
	close(c.queue)
}

// writeLoop writes queued commands until the queue is closed.
func (c *Client) writeLoop() {
	defer close(c.done)
	defer c.conn.Close()

	failed := false
	for data := range c.queue {
		if failed {
			c.dropped.Add(1)
			continue
		}
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			c.logger.Error().Err(err).Msg("controller write failed")
			failed = true
			c.stop(err)
		}
	}
	if !failed {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
	}
}

// readLoop discards controller messages and notices a lost connection.
// A read error after the client stopped is the expected shutdown.
func (c *Client) readLoop() {
	defer close(c.readDone)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if c.stopped() {
				return
			}
			c.logger.Warn().Err(err).Msg("controller connection lost")
			c.stop(err)
			return
		}
	}
}

// stopped reports whether the client no longer accepts commands.
func (c *Client) stopped() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}
