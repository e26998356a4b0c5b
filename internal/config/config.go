// Package config loads service settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	EnvLocal = "local"
	EnvProd  = "prod"
)

type Config struct {
	Env      string   `env:"ENV" env-default:"local"`
	LogLevel string   `env:"LOG_LEVEL" env-default:"info"`
	HTTP     HTTP     `env-prefix:""`
	Postgres Postgres `env-prefix:""`
	Auth     Auth     `env-prefix:""`
	Kafka    Kafka    `env-prefix:""`
	Breaker  Breaker  `env-prefix:""`
}

type HTTP struct {
	Addr            string        `env:"HTTP_ADDR" env-default:":8080"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" env-default:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type Postgres struct {
	URL string `env:"DATABASE_URL"`
}

type Auth struct {
	APIKey     string `env:"API_KEY"`
	APIKeyHash string `env:"API_KEY_HASH"`
}

type Kafka struct {
	Brokers string `env:"KAFKA_BROKERS"`
	Topic   string `env:"KAFKA_TOPIC" env-default:"analytics-usage"`
}

type Breaker struct {
	MaxFailures uint32        `env:"BREAKER_MAX_FAILURES" env-default:"5"`
	OpenTimeout time.Duration `env:"BREAKER_OPEN_TIMEOUT" env-default:"30s"`
}

// Load reads dotenvPath when it exists, then the process environment, and
// validates the result. Variables already set in the environment win over
// the file.
func Load(dotenvPath string) (*Config, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", dotenvPath, err)
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings every binary needs. Serving the API also
// requires ValidateAPI.
func (c *Config) Validate() error {
	var errs []error
	if c.Postgres.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.Env != EnvLocal && c.Env != EnvProd {
		errs = append(errs, fmt.Errorf("ENV must be %q or %q, got %q", EnvLocal, EnvProd, c.Env))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	if c.HTTP.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}
	if c.Breaker.MaxFailures == 0 {
		errs = append(errs, errors.New("BREAKER_MAX_FAILURES must be at least 1"))
	}
	return errors.Join(errs...)
}

// ValidateAPI checks the settings only the HTTP API uses.
func (c *Config) ValidateAPI() error {
	if c.Auth.APIKey == "" && c.Auth.APIKeyHash == "" {
		return errors.New("API_KEY or API_KEY_HASH is required")
	}
	return nil
}

// NewLogger builds a JSON production logger for prod and a console
// development logger otherwise.
func NewLogger(env, level string) (*zap.Logger, error) {
	var zapCfg zap.Config
	if env == EnvProd {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)

	return zapCfg.Build()
}
