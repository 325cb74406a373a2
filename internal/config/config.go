// Package config loads environment configuration and persisted settings for TouchSlice.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

const (
	defaultListenAddr  = "0.0.0.0:8787"
	defaultDataDir     = "./data"
	defaultLayout      = "us"
	defaultRemoteQueue = 256
	defaultLogLevel    = "info"
)

// Sink kinds selecting where commands are applied.
const (
	SinkLocal  = "local"
	SinkRemote = "remote"
)

// Config holds runtime configuration values.
type Config struct {
	ListenAddr   string
	UIPassword   string
	DataDir      string
	SettingsPath string
	LayoutDir    string
	Layout       string
	GeometryPath string
	Sink         string
	RemoteURL    string
	RemoteQueue  int
	LogLevel     zerolog.Level
}

// Load reads configuration from ./data/.env and environment variables.
func Load() (Config, error) {
	cfg := Config{
		ListenAddr:  defaultListenAddr,
		DataDir:     defaultDataDir,
		Layout:      defaultLayout,
		Sink:        SinkLocal,
		RemoteQueue: defaultRemoteQueue,
		LogLevel:    zerolog.InfoLevel,
	}

	if err := loadEnvFile(filepath.Join(cfg.DataDir, ".env")); err != nil {
		return Config{}, err
	}

	cfg.ListenAddr = envString("LISTEN_ADDR", cfg.ListenAddr)
	cfg.DataDir = envString("DATA_DIR", cfg.DataDir)
	cfg.SettingsPath = envString("SETTINGS_PATH", filepath.Join(cfg.DataDir, "settings.yaml"))
	cfg.LayoutDir = envString("LAYOUT_DIR", filepath.Join(cfg.DataDir, "layouts"))
	cfg.Layout = envString("LAYOUT", cfg.Layout)
	cfg.GeometryPath = envString("GEOMETRY_PATH", "")
	cfg.RemoteURL = envString("REMOTE_URL", "")
	cfg.UIPassword = strings.TrimSpace(os.Getenv("UI_PASSWORD"))

	sink, err := normalizeSink(envString("SINK", cfg.Sink))
	if err != nil {
		return Config{}, err
	}
	cfg.Sink = sink

	queue, err := envInt("REMOTE_QUEUE", cfg.RemoteQueue)
	if err != nil {
		return Config{}, err
	}
	if queue <= 0 {
		return Config{}, fmt.Errorf("REMOTE_QUEUE must be > 0")
	}
	cfg.RemoteQueue = queue

	level, err := zerolog.ParseLevel(strings.ToLower(envString("LOG_LEVEL", defaultLogLevel)))
	if err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	if cfg.Sink == SinkRemote && cfg.RemoteURL == "" {
		return Config{}, errors.New("REMOTE_URL is required when SINK=remote")
	}
	if cfg.UIPassword == "" {
		return Config{}, errors.New("UI_PASSWORD is required")
	}

	return cfg, nil
}

// normalizeSink validates the SINK value.
func normalizeSink(value string) (string, error) {
	switch v := strings.ToLower(strings.TrimSpace(value)); v {
	case SinkLocal, SinkRemote:
		return v, nil
	default:
		return "", fmt.Errorf("SINK must be %q or %q, got %q", SinkLocal, SinkRemote, value)
	}
}

// envString returns an env override when present, otherwise a default.
func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// envInt returns an int env override when present, otherwise a default.
func envInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}

// parseBool accepts the usual spellings of a boolean.
func parseBool(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}

// loadEnvFile loads KEY=VALUE pairs from a .env file.
func loadEnvFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := parseEnvLine(line)
		if !ok {
			continue
		}
		if _, exists := os.LookupEnv(key); !exists {
			if err := os.Setenv(key, value); err != nil {
				return err
			}
		}
	}

	return nil
}

// parseEnvLine parses a single .env line into key/value.
func parseEnvLine(line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", false
	}
	return key, strings.Trim(strings.TrimSpace(value), `"'`), true
}
