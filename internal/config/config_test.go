package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_PATH", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SENTRY_DSN", "")
	t.Setenv("ENV", "")
	t.Setenv("RATE_LIMIT_RPS", "")
	t.Setenv("RATE_LIMIT_BURST", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.DBPath != defaultDBPath {
		t.Errorf("expected default DB path %q, got %q", defaultDBPath, cfg.DBPath)
	}

	if cfg.ServerPort != defaultServerPort {
		t.Errorf("expected default server port %d, got %d", defaultServerPort, cfg.ServerPort)
	}

	if cfg.LogLevel != defaultLogLevel {
		t.Errorf("expected default log level %q, got %q", defaultLogLevel, cfg.LogLevel)
	}

	if cfg.Environment != defaultEnvironment {
		t.Errorf("expected default environment %q, got %q", defaultEnvironment, cfg.Environment)
	}

	if cfg.ShutdownGrace != defaultShutdownGrace {
		t.Errorf("expected shutdown grace %s, got %s", defaultShutdownGrace, cfg.ShutdownGrace)
	}

	if cfg.RateLimitPerSec != defaultRateLimitPerSec {
		t.Errorf("expected default rate limit %v, got %v", defaultRateLimitPerSec, cfg.RateLimitPerSec)
	}

	if cfg.RateLimitBurst != defaultRateLimitBurst {
		t.Errorf("expected default burst %d, got %d", defaultRateLimitBurst, cfg.RateLimitBurst)
	}

	if cfg.SentryDSN != "" {
		t.Errorf("expected empty Sentry DSN, got %q", cfg.SentryDSN)
	}
}

func TestLoadWithExplicitValues(t *testing.T) {
	t.Setenv("DB_PATH", "/tmp/inkwell.db")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SENTRY_DSN", "dsn")
	t.Setenv("ENV", "production")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.DBPath != "/tmp/inkwell.db" {
		t.Errorf("expected DB path %q, got %q", "/tmp/inkwell.db", cfg.DBPath)
	}

	if cfg.ServerPort != 9090 {
		t.Errorf("expected server port 9090, got %d", cfg.ServerPort)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %q", cfg.LogLevel)
	}

	if cfg.SentryDSN != "dsn" {
		t.Errorf("expected Sentry DSN dsn, got %q", cfg.SentryDSN)
	}

	if cfg.Environment != "production" {
		t.Errorf("expected environment production, got %q", cfg.Environment)
	}

	if cfg.RateLimitPerSec != 2.5 {
		t.Errorf("expected rate limit 2.5, got %v", cfg.RateLimitPerSec)
	}

	if cfg.RateLimitBurst != 5 {
		t.Errorf("expected burst 5, got %d", cfg.RateLimitBurst)
	}
}

func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "invalid")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected error for invalid port, got nil")
	}

	if !strings.Contains(err.Error(), "invalid SERVER_PORT value") {
		t.Fatalf("expected error to mention invalid SERVER_PORT value, got %v", err)
	}
}

func TestLoadInvalidRateLimit(t *testing.T) {
	t.Setenv("RATE_LIMIT_RPS", "-1")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected error for negative rate limit, got nil")
	}

	if !strings.Contains(err.Error(), "RATE_LIMIT_RPS must be positive") {
		t.Fatalf("expected error to mention RATE_LIMIT_RPS, got %v", err)
	}
}
