/*
Package config handles loading and saving daily-raffle configuration.

Configuration is stored in ~/.daily-raffle.json. Every field is optional;
missing values fall back to defaults and environment variables override
whatever the file says.

Schema:
  {
    "history": {
      "backend": "json",
      "path": "/home/me/.daily-raffle/raffle_history.json"
    },
    "server": {
      "addr": ":8080"
    },
    "logLevel": "info"
  }
*/
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// History backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Environment variables that override the config file.
const (
	EnvHistoryBackend = "RAFFLE_HISTORY_BACKEND"
	EnvHistoryPath    = "RAFFLE_HISTORY_PATH"
	EnvHTTPAddr       = "RAFFLE_HTTP_ADDR"
	EnvLogLevel       = "RAFFLE_LOG_LEVEL"
)

// Config represents the root configuration structure.
type Config struct {
	// History selects where draws are persisted.
	History *HistorySettings `json:"history"`

	// Server contains settings for the HTTP API.
	Server *ServerSettings `json:"server,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"logLevel,omitempty"`
}

// HistorySettings selects the history backend.
type HistorySettings struct {
	// Backend is "json" (single JSON file) or "sqlite".
	Backend string `json:"backend"`

	// Path is the history file or database. Empty means the backend default.
	Path string `json:"path,omitempty"`
}

// ServerSettings contains settings for the HTTP API.
type ServerSettings struct {
	Addr string `json:"addr"`
}

// NewConfig creates a configuration with every default filled in.
func NewConfig() *Config {
	return &Config{
		History:  &HistorySettings{Backend: BackendJSON},
		Server:   &ServerSettings{Addr: ":8080"},
		LogLevel: "info",
	}
}

// Default locations under the user's home directory.
const (
	DataDirName     = ".daily-raffle"
	JSONHistoryFile = "raffle_history.json"
	SQLiteFile      = "history.db"
)

// DefaultHistoryPath returns the history location for backend:
// ~/.daily-raffle/history.db for sqlite, ~/.daily-raffle/raffle_history.json
// otherwise.
func DefaultHistoryPath(backend string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	name := JSONHistoryFile
	if backend == BackendSQLite {
		name = SQLiteFile
	}
	return filepath.Join(home, DataDirName, name), nil
}

// GetDefaultConfigPath returns the path to ~/.daily-raffle.json
func GetDefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".daily-raffle.json"), nil
}

// Load reads the configuration at path, using defaults when the file does
// not exist, then applies environment overrides and validates the result.
// An empty path means the default location.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := GetDefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		var notFound *ConfigNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		cfg = NewConfig()
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, &InvalidConfigError{Path: path, Message: err.Error()}
	}
	return cfg, nil
}

// fillDefaults sets every field the file left empty.
func (c *Config) fillDefaults() {
	defaults := NewConfig()
	if c.History == nil {
		c.History = defaults.History
	}
	if c.History.Backend == "" {
		c.History.Backend = defaults.History.Backend
	}
	if c.Server == nil {
		c.Server = defaults.Server
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
}

// ApplyEnv overrides file values with any RAFFLE_* environment variables set.
func (c *Config) ApplyEnv() {
	c.fillDefaults()
	if v := os.Getenv(EnvHistoryBackend); v != "" {
		c.History.Backend = v
	}
	if v := os.Getenv(EnvHistoryPath); v != "" {
		c.History.Path = v
	}
	if v := os.Getenv(EnvHTTPAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Validate checks the backend and log level.
func (c *Config) Validate() error {
	c.fillDefaults()
	switch c.History.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("unknown history backend %q (want %q or %q)", c.History.Backend, BackendJSON, BackendSQLite)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// HistoryPath returns the configured history path or the backend default.
func (c *Config) HistoryPath() (string, error) {
	c.fillDefaults()
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	return DefaultHistoryPath(c.History.Backend)
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	level, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseLogLevel maps debug, info, warn and error to slog levels.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q", s)
	}
}
