package config_test

import (
	"testing"
	"time"

	"github.com/moneta-app/moneta/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.OverspendPolicy != "reject" || cfg.OverpaymentPolicy != "clamp" {
		t.Fatalf("expected default ledger policies reject/clamp, got %s/%s",
			cfg.OverspendPolicy, cfg.OverpaymentPolicy)
	}

	if len(cfg.SyncExcludedKinds) != 3 {
		t.Fatalf("expected 3 default excluded asset kinds, got %v", cfg.SyncExcludedKinds)
	}

	if cfg.IdempotencyTTL != 24*time.Hour {
		t.Fatalf("expected default idempotency TTL 24h, got %s", cfg.IdempotencyTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("OVERSPEND_POLICY", "allow")
	t.Setenv("SYNC_EXCLUDED_KINDS", "bond,crypto")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if cfg.OverspendPolicy != "allow" {
		t.Fatalf("expected overspend policy override, got %s", cfg.OverspendPolicy)
	}

	if len(cfg.SyncExcludedKinds) != 2 || cfg.SyncExcludedKinds[0] != "bond" || cfg.SyncExcludedKinds[1] != "crypto" {
		t.Fatalf("expected excluded kinds [bond crypto], got %v", cfg.SyncExcludedKinds)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}
