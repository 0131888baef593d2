// Package config loads the pipeline configuration from a TOML file. The
// configuration is read once at startup and passed explicitly into the
// orchestrator and source constructors; there is no ambient global.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/mbergner/oberfranken-events/internal/source"
)

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
}

// AI contains the optional remote categorization provider settings.
type AI struct {
	Enabled        bool   `toml:"enabled"`
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// RateLimit contains pacing settings for AI-backed calls.
type RateLimit struct {
	MinDelayMS            int `toml:"min_delay_ms"`
	MaxDelayMS            int `toml:"max_delay_ms"`
	MaxRequestsPerSession int `toml:"max_requests_per_session"`
}

// Scrape contains shared transport settings for sources.
type Scrape struct {
	UserAgent       string `toml:"user_agent"`
	DefaultCategory string `toml:"default_category"`
}

// Config is the full pipeline configuration.
type Config struct {
	Paths     Paths           `toml:"paths"`
	AI        AI              `toml:"ai"`
	RateLimit RateLimit       `toml:"rate_limit"`
	Scrape    Scrape          `toml:"scrape"`
	Sources   []source.Config `toml:"sources"`
}

// Default returns the configuration defaults applied before the file is
// decoded over them.
func Default() *Config {
	return &Config{
		Paths: Paths{
			DataDir: "~/.local/share/oberfranken-events",
		},
		AI: AI{
			Enabled:        false,
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 30,
		},
		RateLimit: RateLimit{
			MinDelayMS:            1000,
			MaxDelayMS:            3000,
			MaxRequestsPerSession: 50,
		},
		Scrape: Scrape{
			UserAgent:       "oberfranken-events/1.0 (github.com/mbergner/oberfranken-events)",
			DefaultCategory: "Sonstiges",
		},
	}
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(expandHome(path))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Paths.DataDir = expandHome(cfg.Paths.DataDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded configuration for contradictions.
func (c *Config) Validate() error {
	if c.Paths.DataDir == "" {
		return fmt.Errorf("paths.data_dir must not be empty")
	}
	if c.RateLimit.MinDelayMS < 0 || c.RateLimit.MaxDelayMS < c.RateLimit.MinDelayMS {
		return fmt.Errorf("rate_limit: max_delay_ms must be >= min_delay_ms >= 0")
	}
	if c.AI.Enabled && c.AI.BaseURL == "" {
		return fmt.Errorf("ai.base_url is required when ai.enabled is true")
	}
	for i, s := range c.Sources {
		if s.Name == "" {
			return fmt.Errorf("sources[%d]: name must not be empty", i)
		}
		if s.Enabled && s.URL == "" {
			return fmt.Errorf("source %q: url is required for enabled sources", s.Name)
		}
		if s.Options.MaxDaysAhead > 0 && s.Options.MaxDaysAhead < s.Options.MinDaysAhead {
			return fmt.Errorf("source %q: max_days_ahead must be >= min_days_ahead", s.Name)
		}
	}
	return nil
}

// EnsureDataDir creates the data directory if needed.
func (c *Config) EnsureDataDir() error {
	if err := os.MkdirAll(c.Paths.DataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return nil
}

// VerifiedLocationsPath is the verified venue store file, written by
// editorial tooling and only read here.
func (c *Config) VerifiedLocationsPath() string {
	return filepath.Join(c.Paths.DataDir, "verified_locations.json")
}

// UnverifiedLocationsPath is the unresolved venue store file written at the
// end of each run.
func (c *Config) UnverifiedLocationsPath() string {
	return filepath.Join(c.Paths.DataDir, "unverified_locations.json")
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
