// Package config holds coreburn settings, loaded from ~/.coreburn/config.yaml
// with environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all coreburn configuration.
type Config struct {
	// Theme selects the color scheme: auto, light, or dark.
	Theme string `yaml:"theme"`

	// DefaultUnit is the unit preselected in the setup form: seconds or minutes.
	DefaultUnit string `yaml:"default_unit"`

	// DefaultCores preselects the core count in the setup form. 0 means one core.
	DefaultCores int `yaml:"default_cores"`

	// SampleInterval controls how often the chart and system panel sample,
	// as a duration string ("1s", "500ms").
	SampleInterval string `yaml:"sample_interval"`

	// HistoryEnabled controls whether finished runs are written to the
	// history database.
	HistoryEnabled bool `yaml:"history_enabled"`

	// LogLevel is the zap level for the file logger: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Theme:          "auto",
		DefaultUnit:    "seconds",
		DefaultCores:   1,
		SampleInterval: "1s",
		HistoryEnabled: true,
		LogLevel:       "info",
	}
}

// SampleIntervalDuration parses SampleInterval, clamping to a floor of 250ms.
func (c Config) SampleIntervalDuration() time.Duration {
	d, err := time.ParseDuration(c.SampleInterval)
	if err != nil {
		return time.Second
	}
	if d < 250*time.Millisecond {
		return 250 * time.Millisecond
	}
	return d
}

// Dir returns the coreburn state directory (~/.coreburn), falling back to the
// working directory when the home directory cannot be resolved.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".coreburn"
	}
	return filepath.Join(home, ".coreburn")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Load reads the config at path, applies defaults for missing fields, then
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config: %w", err)
	}
	cfg.normalize()
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the config to path, creating parent directories as needed.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func (c *Config) normalize() {
	switch c.Theme {
	case "auto", "light", "dark":
	default:
		c.Theme = "auto"
	}
	switch c.DefaultUnit {
	case "seconds", "minutes":
	default:
		c.DefaultUnit = "seconds"
	}
	if c.DefaultCores < 1 {
		c.DefaultCores = 1
	}
	if _, err := time.ParseDuration(c.SampleInterval); err != nil {
		c.SampleInterval = "1s"
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		c.LogLevel = "info"
	}
}

func applyEnvOverrides(c *Config) {
	if v := os.Getenv("COREBURN_THEME"); v == "light" || v == "dark" || v == "auto" {
		c.Theme = v
	}
	if v := os.Getenv("COREBURN_LOG_LEVEL"); v != "" {
		switch v {
		case "debug", "info", "warn", "error":
			c.LogLevel = v
		}
	}
}
