// Package config loads process settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"fasttrack-engine/internal/refdata"
)

type Config struct {
	Port                 string        `env:"PORT"                   envDefault:"8080"`
	ReferenceDataPath    string        `env:"REFERENCE_DATA_PATH"`
	ReferenceDataURL     string        `env:"REFERENCE_DATA_URL"`
	ReferenceDataTimeout time.Duration `env:"REFERENCE_DATA_TIMEOUT" envDefault:"2s"`
	CompareParallel      bool          `env:"COMPARE_PARALLEL"       envDefault:"true"`
	ExportLocale         string        `env:"EXPORT_LOCALE"          envDefault:"en-US"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.ReferenceDataPath != "" && cfg.ReferenceDataURL != "" {
		return Config{}, errors.New("set at most one of REFERENCE_DATA_PATH and REFERENCE_DATA_URL")
	}
	if cfg.ReferenceDataTimeout <= 0 {
		return Config{}, fmt.Errorf("REFERENCE_DATA_TIMEOUT must be positive, got %s", cfg.ReferenceDataTimeout)
	}
	return cfg, nil
}

// ReferenceSource maps the settings onto a reference data source.
func (c Config) ReferenceSource() refdata.Source {
	return refdata.Source{
		Path:    c.ReferenceDataPath,
		URL:     c.ReferenceDataURL,
		Timeout: c.ReferenceDataTimeout,
	}
}
