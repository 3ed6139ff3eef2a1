package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"

	"item-appraiser/internal/logs"
)

type Config struct {
	// HTTP listen address, e.g. ":3001"
	Address string `env:"ADDRESS" envDefault:":3001"`

	// Model API
	OpenAIKey       string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL   string        `env:"OPENAI_BASE_URL"`
	OpenAIModel     string        `env:"OPENAI_MODEL" envDefault:"gpt-4o"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"60s"`
	UpstreamRetries int           `env:"UPSTREAM_MAX_RETRIES" envDefault:"2"`
	ProbeInterval   time.Duration `env:"UPSTREAM_PROBE_INTERVAL" envDefault:"0s"`

	// Share store
	ShareTTL           time.Duration `env:"SHARE_TTL" envDefault:"168h"`
	ShareSweepInterval time.Duration `env:"SHARE_SWEEP_INTERVAL" envDefault:"1h"`
	ShareMaxEntries    int           `env:"SHARE_MAX_ENTRIES" envDefault:"10000"`

	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
	LogBuffer int    `env:"LOG_BUFFER" envDefault:"1000"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load loads .env (if present) and parses environment variables into Config.
func Load() (Config, error) {
	// Load .env if available; ignore error if file does not exist
	_ = godotenv.Load()

	return Parse()
}

// Parse reads the process environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.OpenAIKey) == "" {
		errs = append(errs, errors.New("OPENAI_API_KEY is required"))
	}
	if c.UpstreamTimeout <= 0 {
		errs = append(errs, errors.New("UPSTREAM_TIMEOUT must be positive"))
	}
	if c.UpstreamRetries < 0 {
		errs = append(errs, errors.New("UPSTREAM_MAX_RETRIES must not be negative"))
	}
	if c.ProbeInterval < 0 {
		errs = append(errs, errors.New("UPSTREAM_PROBE_INTERVAL must not be negative"))
	}
	if c.ShareTTL <= 0 {
		errs = append(errs, errors.New("SHARE_TTL must be positive"))
	}
	if c.ShareSweepInterval <= 0 {
		errs = append(errs, errors.New("SHARE_SWEEP_INTERVAL must be positive"))
	}
	if c.ShareMaxEntries <= 0 {
		errs = append(errs, errors.New("SHARE_MAX_ENTRIES must be positive"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}
	if c.LogBuffer < 0 {
		errs = append(errs, errors.New("LOG_BUFFER must not be negative"))
	}
	if _, err := logs.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Level returns the parsed log level, INFO when unset or invalid.
func (c Config) Level() logs.Level {
	lvl, err := logs.ParseLevel(c.LogLevel)
	if err != nil {
		return logs.INFO
	}
	return lvl
}
