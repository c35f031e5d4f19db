package config

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })
	return &buf
}

func TestLoadWarnsOnJWTSecretFallback(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	logs := captureLogs(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.JWTSecret != "dev-only-secret" {
		t.Fatalf("expected development fallback secret, got %q", cfg.JWTSecret)
	}
	if !strings.Contains(logs.String(), "config_jwt_secret_fallback") {
		t.Fatalf("expected fallback warning, got logs: %s", logs.String())
	}
}

func TestLoadReadsJWTSecretSilently(t *testing.T) {
	t.Setenv("JWT_SECRET", "configured-secret")
	logs := captureLogs(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.JWTSecret != "configured-secret" {
		t.Fatalf("expected configured secret, got %q", cfg.JWTSecret)
	}
	if strings.Contains(logs.String(), "config_jwt_secret_fallback") {
		t.Fatalf("unexpected fallback warning: %s", logs.String())
	}
}
