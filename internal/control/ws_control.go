package control

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const writeWait = 5 * time.Second

// Server handles websocket control input on /ws/touch.
type Server struct {
	mu       sync.Mutex
	logger   zerolog.Logger
	upgrader websocket.Upgrader
	env      Env
	conn     *websocket.Conn
}

// NewServer creates a control websocket server.
func NewServer(env Env) *Server {
	return &Server{
		logger: log.With().
			Str("module", "control").
			Logger(),
		env: env,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the connection and processes control messages.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !s.env.Session.IsAuthenticated() {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	if err := s.acceptConn(conn); err != nil {
		s.logger.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("control connection rejected")
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}
	defer s.cleanupConn(conn)

	stream := NewStream(s.env, func(msg Message) error {
		data, err := Encode(msg)
		if err != nil {
			return err
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteMessage(websocket.TextMessage, data)
	})
	defer stream.Close()
	stream.Announce()

	s.logger.Info().Str("remote", r.RemoteAddr).Msg("control connected")
	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			s.logger.Info().Err(err).Msg("control disconnected")
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		if err := stream.HandleRaw(data); err != nil {
			if errors.Is(err, ErrClosed) {
				return
			}
			s.logger.Warn().Err(err).Msg("control message rejected")
		}
	}
}

// acceptConn ensures only one active control connection exists.
func (s *Server) acceptConn(conn *websocket.Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		return fmt.Errorf("control connection already active")
	}
	s.conn = conn
	return nil
}

// cleanupConn clears the active connection when closed.
func (s *Server) cleanupConn(conn *websocket.Conn) {
	s.mu.Lock()
	if s.conn == conn {
		s.conn = nil
	}
	s.mu.Unlock()
	_ = conn.Close()
}
