package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full service configuration, loaded from environment
// variables. Defaults suit local development; production deployments set the
// LUMORA_* variables explicitly.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `env:"ADDR" envDefault:":8080"`

	// PostgresDSN enables the database-backed stores when set.
	PostgresDSN string `env:"PG_DSN"`

	// AuthSecret signs session tokens. Required.
	AuthSecret string `env:"AUTH_SECRET"`

	// Issuer appears in session tokens and TOTP provisioning URIs.
	Issuer string `env:"ISSUER" envDefault:"Lumora"`

	// TokenTTL bounds session token lifetime.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"15m"`

	// RateLimitPerSecond / RateLimitBurst shape the per-IP token bucket.
	RateLimitPerSecond int `env:"RATE_LIMIT_PER_SECOND" envDefault:"20"`
	RateLimitBurst     int `env:"RATE_LIMIT_BURST" envDefault:"40"`

	// MaxBodyBytes caps request body size.
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" envDefault:"1048576"`
}

// Load reads configuration from the environment under the LUMORA_ prefix.
func Load() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "LUMORA_"}); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate applies guardrails to loaded values.
func (c Config) Validate() error {
	if c.AuthSecret == "" {
		return errors.New("config: LUMORA_AUTH_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return errors.New("config: token ttl must be positive")
	}
	if c.RateLimitPerSecond <= 0 || c.RateLimitBurst <= 0 {
		return errors.New("config: rate limit values must be positive")
	}
	return nil
}
