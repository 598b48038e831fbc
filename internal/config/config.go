// Package config loads the race list settings from defaults, an optional YAML file and
// NEXTTOGO_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"dario.cat/mergo"
	"github.com/bcdxn/nexttogo/internal/domain"
	"github.com/bcdxn/nexttogo/internal/i18n"
	"github.com/bcdxn/nexttogo/internal/racing"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable name read by Load.
const EnvPrefix = "NEXTTOGO_"

// Config holds the settings of the race list application.
type Config struct {
	APIBaseURL      string        `yaml:"api_base_url" env:"API_BASE_URL"`
	RaceCount       int           `yaml:"race_count" env:"RACE_COUNT"`
	VisibleRows     int           `yaml:"visible_rows" env:"VISIBLE_ROWS"`
	RefreshInterval time.Duration `yaml:"refresh_interval" env:"REFRESH_INTERVAL"`
	Locale          string        `yaml:"locale" env:"LOCALE"`
	LogFile         string        `yaml:"log_file" env:"LOG_FILE"`
	Categories      []string      `yaml:"categories" env:"CATEGORIES" envSeparator:","`
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		APIBaseURL:      racing.DefaultBaseURL,
		RaceCount:       racing.DefaultCount,
		VisibleRows:     domain.DefaultListSize,
		RefreshInterval: 30 * time.Second,
		Locale:          i18n.BaseLocale,
		LogFile:         "nexttogo.log",
	}
}

// Load builds the configuration. A missing file at path is not an error; an empty path skips
// the file entirely.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		}
	}
	if err := mergo.Merge(&cfg, Default()); err != nil {
		return cfg, fmt.Errorf("failed to apply config defaults: %w", err)
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("failed to parse config env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("api_base_url is required")
	}
	if c.RaceCount <= 0 {
		return fmt.Errorf("race_count must be positive, found %d", c.RaceCount)
	}
	if c.VisibleRows <= 0 {
		return fmt.Errorf("visible_rows must be positive, found %d", c.VisibleRows)
	}
	if c.RefreshInterval < time.Second {
		return fmt.Errorf("refresh_interval must be at least 1s, found %s", c.RefreshInterval)
	}
	for _, name := range c.Categories {
		if err := domain.RaceCategory(name).Valid(); err != nil {
			return fmt.Errorf("invalid categories: %w", err)
		}
	}
	return nil
}

// Filter returns the initial category filter described by Categories.
func (c Config) Filter() domain.CategoryFilter {
	cs := make([]domain.RaceCategory, 0, len(c.Categories))
	for _, name := range c.Categories {
		cs = append(cs, domain.RaceCategory(name))
	}
	return domain.NewCategoryFilter(cs...)
}
