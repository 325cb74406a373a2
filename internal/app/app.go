// Package app wires HTTP, signaling, and touch control together.
package app

import (
	"errors"

	"github.com/frudas24/touchslice/internal/command"
	"github.com/frudas24/touchslice/internal/config"
	"github.com/frudas24/touchslice/internal/control"
	"github.com/frudas24/touchslice/internal/layout"
	"github.com/frudas24/touchslice/internal/session"
	"github.com/frudas24/touchslice/internal/signaling"
	"github.com/frudas24/touchslice/internal/webrtc"
)

// App coordinates the HTTP API and the websocket servers.
type App struct {
	cfg       config.Config
	session   *session.Session
	settings  *config.Settings
	layouts   *layout.Registry
	signaling *signaling.Server
	control   *control.Server
}

// New creates a new application with its dependencies wired. Commands from
// every client go to sink.
func New(cfg config.Config, sess *session.Session, settings *config.Settings, layouts *layout.Registry, peers *webrtc.Peers, sink command.Sink, policy signaling.ClientPolicy) (*App, error) {
	if sess == nil {
		return nil, errors.New("session is required")
	}
	if settings == nil {
		return nil, errors.New("settings are required")
	}
	if layouts == nil {
		return nil, errors.New("layout registry is required")
	}
	if peers == nil {
		return nil, errors.New("webrtc peers are required")
	}
	if sink == nil {
		return nil, errors.New("command sink is required")
	}

	app := &App{
		cfg:      cfg,
		session:  sess,
		settings: settings,
		layouts:  layouts,
	}

	env := control.Env{
		Session:  sess,
		Settings: settings,
		Layouts:  app.keyboard,
		Sink:     sink,
	}
	app.signaling = signaling.NewServer(peers, env, policy)
	app.control = control.NewServer(env)

	return app, nil
}

// keyboard resolves a layout id for control streams.
func (a *App) keyboard(id string) (control.Keyboard, error) {
	kb, err := a.layouts.Get(id)
	if err != nil {
		return nil, err
	}
	return kb, nil
}

// Signaling returns the signaling websocket handler.
func (a *App) Signaling() *signaling.Server {
	return a.signaling
}

// Control returns the control websocket handler.
func (a *App) Control() *control.Server {
	return a.control
}
