package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ADSBOARD_CONFIG", "")
	t.Setenv("ADSBOARD_PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.HTTPTimeout != 15*time.Second || cfg.CacheTTL != 5*time.Minute {
		t.Fatalf("bad default durations: %+v", cfg)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("expected info level, got %v", cfg.LogLevel)
	}
}

func TestLoadFileWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("port: \"9090\"\nsheet_url: https://example.test/sheet\ncache_ttl: 1m\nlog_level: debug\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	t.Setenv("ADSBOARD_CONFIG", path)
	t.Setenv("ADSBOARD_PORT", "7070")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SheetURL != "https://example.test/sheet" {
		t.Fatalf("file value not applied: %q", cfg.SheetURL)
	}
	if cfg.CacheTTL != time.Minute {
		t.Fatalf("file duration not applied: %v", cfg.CacheTTL)
	}
	// env beats file
	if cfg.Port != "7070" {
		t.Fatalf("env override lost: %q", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v", cfg.LogLevel)
	}
}
