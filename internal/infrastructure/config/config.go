package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// devFallbackSecret signs sessions when no secret is configured. It is
// an intentional convenience for local development only; Validate
// refuses to start a production process without a real secret.
const devFallbackSecret = "development-secret"

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// SessionSecret signs session tokens. Optional outside production.
	SessionSecret string `env:"SESSION_SECRET"`
	// SessionTTLSeconds bounds both the token expiry and the cookie
	// Max-Age; they are always issued from this one value.
	SessionTTLSeconds int `env:"SESSION_TTL, default=3600"`

	Database DatabaseConfig
	Redis    RedisConfig
}

type DatabaseConfig struct {
	URL string `env:"DATABASE_URL, default=postgres://localhost:5432/dealership?sslmode=disable"`
}

type RedisConfig struct {
	// Addr empty disables Redis-backed login throttling.
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// Validate rejects configurations that must never serve traffic.
func (c *Config) Validate() error {
	if c.IsProduction() && c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required in production")
	}
	if c.SessionTTLSeconds <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// SecureCookies reports whether session cookies carry the Secure flag.
// Only plain-HTTP development setups go without it.
func (c *Config) SecureCookies() bool {
	return !c.IsDevelopment()
}

// SessionTTL is the single lifetime shared by token expiry and cookie
// Max-Age.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSeconds) * time.Second
}

// ResolvedSecret returns the configured signing secret, falling back
// to the fixed development secret when none is set. Validate keeps the
// fallback unreachable in production.
func (c *Config) ResolvedSecret() string {
	if c.SessionSecret != "" {
		return c.SessionSecret
	}
	return devFallbackSecret
}
