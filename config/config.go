// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every variable, e.g. BQQUOTE_LOG_LEVEL.
const EnvPrefix = "BQQUOTE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	AppEnv          string        `envconfig:"APP_ENV" default:"dev"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"json"`
	CurrencySymbol  string        `envconfig:"CURRENCY_SYMBOL" default:"₱"`
	CatalogSeedFile string        `envconfig:"CATALOG_SEED_FILE"`
	OutboxBuffer    int           `envconfig:"OUTBOX_BUFFER" default:"256"`
	RemoteTimeout   time.Duration `envconfig:"REMOTE_TIMEOUT" default:"10s"`
	RemoteEnabled   bool          `envconfig:"REMOTE_ENABLED" default:"true"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) validate() error {
	if c.OutboxBuffer < 1 {
		return fmt.Errorf("%s_OUTBOX_BUFFER must be positive, got %d", EnvPrefix, c.OutboxBuffer)
	}
	if c.RemoteTimeout <= 0 {
		return fmt.Errorf("%s_REMOTE_TIMEOUT must be positive, got %s", EnvPrefix, c.RemoteTimeout)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "console":
	default:
		return fmt.Errorf("%s_LOG_FORMAT must be json or console, got %q", EnvPrefix, c.LogFormat)
	}
	return nil
}

func (c Config) IsDev() bool {
	return strings.EqualFold(c.AppEnv, AppEnvDev)
}

func (c Config) IsProd() bool {
	return strings.EqualFold(c.AppEnv, AppEnvProd)
}
