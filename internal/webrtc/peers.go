// Package webrtc hosts the peer connection carrying touch data channels.
package webrtc

import (
	"fmt"
	"sync"

	"github.com/pion/interceptor"
	"github.com/pion/webrtc/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DataChannelLabel is the label of the channel carrying touch messages.
const DataChannelLabel = "touch"

// Handler receives the payloads of one data channel. Close runs once when
// the channel or its peer goes away.
type Handler interface {
	HandleRaw(data []byte) error
	Close()
}

// HandlerFactory builds the handler for a new data channel. Reply sends a
// text message back over the same channel.
type HandlerFactory func(reply func(data []byte) error) Handler

// Peers manages the single active peer connection.
type Peers struct {
	mu     sync.Mutex
	logger zerolog.Logger
	api    *webrtc.API
	peer   *webrtc.PeerConnection
}

// NewPeers initializes the WebRTC API with default codecs/interceptors.
func NewPeers() (*Peers, error) {
	media := &webrtc.MediaEngine{}
	if err := media.RegisterDefaultCodecs(); err != nil {
		return nil, fmt.Errorf("register codecs: %w", err)
	}

	interceptors := &interceptor.Registry{}
	if err := webrtc.RegisterDefaultInterceptors(media, interceptors); err != nil {
		return nil, fmt.Errorf("register interceptors: %w", err)
	}

	api := webrtc.NewAPI(
		webrtc.WithMediaEngine(media),
		webrtc.WithInterceptorRegistry(interceptors),
	)

	return &Peers{
		logger: log.With().
			Str("module", "webrtc").
			Logger(),
		api: api,
	}, nil
}

// NewPeer replaces the active peer connection with a fresh one whose touch
// data channels are served by handlers from factory.
func (p *Peers) NewPeer(factory HandlerFactory) (*webrtc.PeerConnection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.peer != nil {
		_ = p.peer.Close()
		p.peer = nil
	}

	peer, err := p.api.NewPeerConnection(webrtc.Configuration{})
	if err != nil {
		return nil, err
	}
	channels := &channelSet{}
	peer.OnDataChannel(func(dc *webrtc.DataChannel) {
		p.serveChannel(dc, factory, channels)
	})
	peer.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		p.logger.Debug().Str("state", state.String()).Msg("peer state changed")
		switch state {
		case webrtc.PeerConnectionStateFailed, webrtc.PeerConnectionStateClosed:
			channels.closeAll()
		}
	})

	p.peer = peer
	return peer, nil
}

// ClosePeer closes the current peer connection.
func (p *Peers) ClosePeer() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.peer != nil {
		_ = p.peer.Close()
		p.peer = nil
	}
}

// serveChannel feeds a touch data channel into a new handler.
func (p *Peers) serveChannel(dc *webrtc.DataChannel, factory HandlerFactory, channels *channelSet) {
	if dc.Label() != DataChannelLabel {
		p.logger.Warn().Str("label", dc.Label()).Msg("ignoring unknown data channel")
		_ = dc.Close()
		return
	}

	handler := factory(func(data []byte) error {
		return dc.SendText(string(data))
	})
	var once sync.Once
	closeHandler := func() { once.Do(handler.Close) }
	channels.add(closeHandler)

	dc.OnOpen(func() {
		p.logger.Info().Str("label", dc.Label()).Msg("data channel open")
	})
	dc.OnMessage(func(msg webrtc.DataChannelMessage) {
		if debugMessagesEnabled() {
			p.logger.Debug().Bytes("payload", msg.Data).Msg("data channel message")
		}
		if err := handler.HandleRaw(msg.Data); err != nil {
			p.logger.Warn().Err(err).Msg("data channel message rejected")
		}
	})
	dc.OnClose(func() {
		p.logger.Info().Str("label", dc.Label()).Msg("data channel closed")
		closeHandler()
	})
	dc.OnError(func(err error) {
		p.logger.Warn().Err(err).Msg("data channel error")
		closeHandler()
	})
}

// channelSet tracks the handler closers of one peer connection.
type channelSet struct {
	mu      sync.Mutex
	closers []func()
}

// add registers a closer.
func (c *channelSet) add(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closers = append(c.closers, fn)
}

// closeAll runs and forgets every registered closer.
func (c *channelSet) closeAll() {
	c.mu.Lock()
	closers := c.closers
	c.closers = nil
	c.mu.Unlock()
	for _, fn := range closers {
		fn()
	}
}
