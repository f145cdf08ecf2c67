package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env      string `env:"ENV"       envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT"      envDefault:"8080"  validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"  validate:"oneof=debug info warn error"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	// AuthBaseURL is the remote auth service, e.g. http://localhost:3000.
	AuthBaseURL string `env:"AUTH_BASE_URL" envDefault:"http://localhost:3000" validate:"required,url"`

	TokenStore  string `env:"TOKEN_STORE"  envDefault:"file"         validate:"required,oneof=memory file postgres"`
	TokenFile   string `env:"TOKEN_FILE"   envDefault:".authshell/token.json" validate:"required_if=TokenStore file"`
	TokenSlot   string `env:"TOKEN_SLOT"   envDefault:"default"`
	DatabaseURL string `env:"DATABASE_URL" validate:"required_if=TokenStore postgres"`
}

// DevAuthConfig configures the local stand-in for the remote auth service.
type DevAuthConfig struct {
	Env      string `env:"ENV"       envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT"      envDefault:"3000"  validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"  validate:"oneof=debug info warn error"`

	JWTSecret string        `env:"JWT_SECRET,required" validate:"required,min=32"`
	TokenTTL  time.Duration `env:"TOKEN_TTL"           envDefault:"2h" validate:"min=1m"`

	// Users is a comma separated list of email:password:name entries.
	Users []string `env:"DEVAUTH_USERS" envSeparator:"," envDefault:"test1@google.com:123456:Test One" validate:"min=1,dive,required"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func LoadDevAuth() (*DevAuthConfig, error) {
	cfg := &DevAuthConfig{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	return parseLevel(c.LogLevel)
}

func (c *DevAuthConfig) SlogLevel() slog.Level {
	return parseLevel(c.LogLevel)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
