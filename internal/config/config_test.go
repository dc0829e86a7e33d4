package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LUMORA_AUTH_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("unexpected addr: %s", cfg.Addr)
	}
	if cfg.Issuer != "Lumora" {
		t.Fatalf("unexpected issuer: %s", cfg.Issuer)
	}
	if cfg.TokenTTL != 15*time.Minute {
		t.Fatalf("unexpected ttl: %s", cfg.TokenTTL)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("LUMORA_AUTH_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without auth secret")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LUMORA_AUTH_SECRET", "test-secret")
	t.Setenv("LUMORA_ADDR", ":9999")
	t.Setenv("LUMORA_TOKEN_TTL", "1h")
	t.Setenv("LUMORA_RATE_LIMIT_BURST", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9999" || cfg.TokenTTL != time.Hour || cfg.RateLimitBurst != 5 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestValidateRejectsBadLimits(t *testing.T) {
	cfg := Config{AuthSecret: "x", TokenTTL: time.Minute, RateLimitPerSecond: 0, RateLimitBurst: 1}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero rate limit")
	}
}
