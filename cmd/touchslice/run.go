package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/frudas24/touchslice/internal/app"
	"github.com/frudas24/touchslice/internal/command"
	"github.com/frudas24/touchslice/internal/config"
	"github.com/frudas24/touchslice/internal/layout"
	"github.com/frudas24/touchslice/internal/remote"
	"github.com/frudas24/touchslice/internal/session"
	"github.com/frudas24/touchslice/internal/signaling"
	"github.com/frudas24/touchslice/internal/webrtc"
	"github.com/frudas24/touchslice/internal/wininput"
)

// run wires the application and blocks until shutdown.
func run(debug bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	webrtc.SetDebugLogging(debug)
	logStartup(cfg)

	settings, err := config.LoadSettings(cfg.SettingsPath)
	if err != nil {
		return err
	}
	layouts, err := layout.NewRegistry(cfg.LayoutDir, cfg.GeometryPath)
	if err != nil {
		return err
	}
	layoutID := initialLayout(cfg, settings, layouts)
	sess := session.New(cfg.UIPassword, layoutID)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sink, closeSink, err := openSink(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSink()

	peers, err := webrtc.NewPeers()
	if err != nil {
		return err
	}
	defer peers.ClosePeer()

	appInstance, err := app.New(cfg, sess, settings, layouts, peers, sink, signaling.ClientReplace)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	appInstance.RegisterRoutes(mux, "")
	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// openSink returns the command sink selected by SINK and its cleanup func.
func openSink(ctx context.Context, cfg config.Config) (command.Sink, func(), error) {
	switch cfg.Sink {
	case config.SinkRemote:
		dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		client, err := remote.Dial(dialCtx, cfg.RemoteURL, cfg.RemoteQueue)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("url", cfg.RemoteURL).Msg("forwarding input to remote host")
		go func() {
			<-client.Done()
			if err := client.Err(); err != nil {
				log.Error().Err(err).Uint64("dropped", client.Dropped()).Msg("remote host disconnected")
			}
		}()
		return client, func() {
			if err := client.Close(); err != nil {
				log.Warn().Err(err).Msg("remote close")
			}
		}, nil
	default:
		injector, err := wininput.NewInjector()
		if err != nil {
			if !errors.Is(err, wininput.ErrUnsupported) {
				return nil, nil, err
			}
			log.Warn().Err(err).Msg("local input injection disabled")
		}
		return wininput.NewSink(injector), func() {}, nil
	}
}

// initialLayout picks the stored layout, then LAYOUT, then the built-in default.
func initialLayout(cfg config.Config, settings *config.Settings, layouts *layout.Registry) string {
	id := cfg.Layout
	if stored := settings.String("keyboard.layout", ""); stored != "" && stored != config.Defaults["keyboard.layout"] {
		id = stored
	}
	if _, err := layouts.Get(id); err != nil {
		log.Warn().Err(err).Str("layout", id).Msg("falling back to default layout")
		return layout.DefaultID
	}
	return id
}

// logStartup prints startup checks and connection info.
func logStartup(cfg config.Config) {
	log.Info().Msg("TouchSlice starting")
	envPath := filepath.Join(cfg.DataDir, ".env")
	if fileExists(envPath) {
		log.Info().Str("path", envPath).Msg("env check: ok")
	} else {
		log.Info().Str("path", envPath).Msg("env check: missing")
	}
	log.Info().Str("sink", cfg.Sink).Str("layouts", cfg.LayoutDir).Msg("input")
	logListenStatus(cfg.ListenAddr)
}

// logListenStatus reports the listen address and a local URL helper.
func logListenStatus(addr string) {
	log.Info().Str("addr", addr).Msg("listen")
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	log.Info().Msgf("local url: http://%s", net.JoinHostPort(host, port))
}

// fileExists reports whether a path exists and is a file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
