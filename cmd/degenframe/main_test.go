package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MarkoPoloResearchLab/degenframe/internal/frameapi"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv(envPublicURL, "")
	t.Setenv(envLegacyPublicHost, "")
	cmd := newRootCommand()
	cfg := frameapi.Config{}
	if err := loadConfig(cmd, &cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ListenAddr != ":3000" || cfg.PublicURL != "http://localhost:3000" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.ValidationMode != frameapi.ValidationModeHub || cfg.UpstreamTimeout != 0 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfigPublicURLFallsBackToLegacyHost(t *testing.T) {
	t.Setenv(envPublicURL, "")
	t.Setenv(envLegacyPublicHost, "https://legacy.example")
	cfg := frameapi.Config{}
	if err := loadConfig(newRootCommand(), &cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PublicURL != "https://legacy.example" {
		t.Fatalf("expected legacy host, got %q", cfg.PublicURL)
	}

	t.Setenv(envPublicURL, "https://frame.example")
	cfg = frameapi.Config{}
	if err := loadConfig(newRootCommand(), &cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PublicURL != "https://frame.example" {
		t.Fatalf("expected prefixed env to win, got %q", cfg.PublicURL)
	}
}

func TestLoadConfigFlagsAndEnvFile(t *testing.T) {
	t.Setenv(envPublicURL, "")
	t.Setenv(envLegacyPublicHost, "")
	t.Setenv("DEGENFRAME_UPSTREAM_TIMEOUT", "")
	if err := os.Unsetenv("DEGENFRAME_UPSTREAM_TIMEOUT"); err != nil {
		t.Fatalf("unsetenv: %v", err)
	}
	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte("DEGENFRAME_UPSTREAM_TIMEOUT=4s\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	cmd := newRootCommand()
	if err := cmd.Flags().Parse([]string{"--validation-mode=insecure", "--allowed-origins=https://a.example,https://b.example", "--env-file=" + envFile}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	cfg := frameapi.Config{}
	if err := loadConfig(cmd, &cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ValidationMode != frameapi.ValidationModeInsecure {
		t.Fatalf("expected insecure mode, got %q", cfg.ValidationMode)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Fatalf("expected two origins, got %v", cfg.AllowedOrigins)
	}
	if cfg.UpstreamTimeout != 4*time.Second {
		t.Fatalf("expected timeout from env file, got %s", cfg.UpstreamTimeout)
	}
}
