// Package config loads client configuration from standard locations.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Common errors.
var (
	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
)

// Transport kinds accepted in [server].
const (
	TransportWebSocket = "websocket"
	TransportNATS      = "nats"
)

// Config holds client configuration loaded from config.toml.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Reconcile ReconcileConfig `toml:"reconcile"`
	Log       LogConfig       `toml:"log"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

// ServerConfig selects and addresses the renderer session transport.
type ServerConfig struct {
	// Transport is "websocket" or "nats".
	Transport string `toml:"transport"`

	// URL is the endpoint for the selected transport
	// (ws://host/session for websocket, nats://host:4222 for nats).
	URL string `toml:"url"`
}

// ReconcileConfig tunes the synchronizer's retry behavior.
type ReconcileConfig struct {
	// ResyncInterval is how long a change may stay unacknowledged
	// before it is re-sent. Default: 15s.
	ResyncInterval Duration `toml:"resync_interval"`

	// ResyncLimit is the number of re-sends tolerated before the
	// session is declared dead. Default: 8.
	ResyncLimit int `toml:"resync_limit"`
}

// LogConfig controls log output.
type LogConfig struct {
	// Level is "debug", "info", "warn" or "error". Default: "info".
	Level string `toml:"level"`
}

// TelemetryConfig controls trace export.
type TelemetryConfig struct {
	// Enabled turns on OTLP trace export.
	Enabled bool `toml:"enabled"`

	// Endpoint is the OTLP collector address (host:port).
	Endpoint string `toml:"endpoint"`
}

// Duration wraps time.Duration so TOML values like "15s" decode directly.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Transport: TransportWebSocket,
			URL:       "ws://localhost:8080/session",
		},
		Reconcile: ReconcileConfig{
			ResyncInterval: Duration{15 * time.Second},
			ResyncLimit:    8,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Server.Transport {
	case TransportWebSocket, TransportNATS:
	default:
		return fmt.Errorf("%w: unknown transport %q", ErrInvalidConfig, c.Server.Transport)
	}
	if c.Server.URL == "" {
		return fmt.Errorf("%w: server URL is required", ErrInvalidConfig)
	}
	if c.Reconcile.ResyncInterval.Duration <= 0 {
		return fmt.Errorf("%w: resync interval must be positive", ErrInvalidConfig)
	}
	if c.Reconcile.ResyncLimit < 0 {
		return fmt.Errorf("%w: resync limit must not be negative", ErrInvalidConfig)
	}
	if c.Telemetry.Enabled && c.Telemetry.Endpoint == "" {
		return fmt.Errorf("%w: telemetry endpoint is required when enabled", ErrInvalidConfig)
	}
	return nil
}

// StandardPaths returns the standard config file locations in order of priority.
func StandardPaths() []string {
	paths := []string{"configsync.toml"}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "configsync", "config.toml"))
	}

	return paths
}

// Load loads configuration from the first available standard location.
// When no file is found the defaults apply, still subject to environment
// overrides.
func Load() (Config, string, error) {
	for _, path := range StandardPaths() {
		if _, err := os.Stat(path); err == nil {
			cfg, err := LoadFile(path)
			return cfg, path, err
		}
	}

	cfg := DefaultConfig()
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, "", err
	}
	return cfg, "", nil
}

// LoadFile loads configuration from a specific file. Fields absent from
// the file keep their default values.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("decode %s: %w", path, err)
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overrides file values with environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("CONFIGSYNC_SERVER_URL"); v != "" {
		cfg.Server.URL = v
	}
	if v := os.Getenv("CONFIGSYNC_TRANSPORT"); v != "" {
		cfg.Server.Transport = v
	}
	if v := os.Getenv("CONFIGSYNC_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}
