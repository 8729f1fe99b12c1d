package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Store backends for image tag associations.
const (
	StoreSQLite = "sqlite"
	StoreBolt   = "bolt"
	StoreMemory = "memory"
)

// Config holds process settings read from PHOTOTAG_* environment variables.
type Config struct {
	Env           string
	Addr          string
	DBPath        string
	Store         string
	BoltPath      string
	WriteMetadata bool
	ExifToolPath  string // empty uses exiftool from $PATH
	LogLevel      string
	LogFormat     string
}

// FromEnv reads the configuration, applying defaults for unset variables.
func FromEnv() Config {
	return Config{
		Env:           envOrDefault("PHOTOTAG_ENV", "development"),
		Addr:          envOrDefault("PHOTOTAG_ADDR", ":8080"),
		DBPath:        envOrDefault("PHOTOTAG_DB", "phototag.db"),
		Store:         envOrDefault("PHOTOTAG_STORE", StoreSQLite),
		BoltPath:      envOrDefault("PHOTOTAG_BOLT_PATH", "phototag.bolt"),
		WriteMetadata: envOrDefault("PHOTOTAG_WRITE_METADATA", "true") != "false",
		ExifToolPath:  os.Getenv("PHOTOTAG_EXIFTOOL"),
		LogLevel:      envOrDefault("PHOTOTAG_LOG_LEVEL", "info"),
		LogFormat:     envOrDefault("PHOTOTAG_LOG_FORMAT", "json"),
	}
}

// Validate checks the values FromEnv or flags cannot constrain.
func (c Config) Validate() error {
	switch c.Store {
	case StoreSQLite, StoreBolt, StoreMemory:
	default:
		return fmt.Errorf("unknown store %q (want sqlite, bolt or memory)", c.Store)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("invalid log format: %s", c.LogFormat)
	}
	return nil
}

// Production reports whether the process runs with production safeguards.
func (c Config) Production() bool {
	return c.Env == "production"
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level: %s", s)
}

// NewLogger builds a JSON or text slog logger writing to w.
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch format {
	case "json", "":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("invalid log format: %s", format)
}
