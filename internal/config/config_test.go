package config

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestFromEnv_Defaults verifies defaults when nothing is set.
func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"PHOTOTAG_ENV", "PHOTOTAG_ADDR", "PHOTOTAG_DB", "PHOTOTAG_STORE", "PHOTOTAG_BOLT_PATH",
		"PHOTOTAG_WRITE_METADATA", "PHOTOTAG_EXIFTOOL", "PHOTOTAG_LOG_LEVEL", "PHOTOTAG_LOG_FORMAT"} {
		t.Setenv(k, "")
	}
	want := Config{
		Env:           "development",
		Addr:          ":8080",
		DBPath:        "phototag.db",
		Store:         StoreSQLite,
		BoltPath:      "phototag.bolt",
		WriteMetadata: true,
		LogLevel:      "info",
		LogFormat:     "json",
	}
	got := FromEnv()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

// TestFromEnv_Overrides verifies environment values win.
func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PHOTOTAG_ENV", "production")
	t.Setenv("PHOTOTAG_STORE", "bolt")
	t.Setenv("PHOTOTAG_WRITE_METADATA", "false")
	t.Setenv("PHOTOTAG_LOG_FORMAT", "text")
	got := FromEnv()
	if !got.Production() || got.Store != StoreBolt || got.WriteMetadata || got.LogFormat != "text" {
		t.Errorf("overrides not applied: %+v", got)
	}
}

// TestConfig_Validate rejects unknown stores and log settings.
func TestConfig_Validate(t *testing.T) {
	base := Config{Store: StoreMemory, LogLevel: "debug", LogFormat: "text"}
	if err := base.Validate(); err != nil {
		t.Fatalf("base: %v", err)
	}
	bad := []Config{
		{Store: "redis", LogLevel: "info", LogFormat: "json"},
		{Store: StoreSQLite, LogLevel: "loud", LogFormat: "json"},
		{Store: StoreSQLite, LogLevel: "info", LogFormat: "xml"},
	}
	for _, c := range bad {
		if err := c.Validate(); err == nil {
			t.Errorf("expected error for %+v", c)
		}
	}
}

// TestNewLogger_FiltersByLevel verifies level filtering and the JSON format.
func TestNewLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "warn", "json")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	logger.Info("bulk_apply_started")
	logger.Warn("slow_query", "statement", "SELECT image_tag")
	out := buf.String()
	if strings.Contains(out, "bulk_apply_started") {
		t.Error("info should be filtered at warn level")
	}
	if !strings.Contains(out, `"msg":"slow_query"`) {
		t.Errorf("expected JSON slow_query line, got %q", out)
	}
}

// TestParseLevel covers the accepted names.
func TestParseLevel(t *testing.T) {
	for name, want := range map[string]slog.Level{"debug": slog.LevelDebug, "INFO": slog.LevelInfo, "warn": slog.LevelWarn, "error": slog.LevelError} {
		got, err := ParseLevel(name)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v", name, got, err)
		}
	}
}
