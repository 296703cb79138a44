// Package config provides Mewo's optional user configuration file: a place
// to set a persistent default shell and log format without repeating CLI
// flags on every invocation. CLI flags and the Mewofile's own
// #shell(name, global) directive both override it.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LogFormat selects the slog handler used for -d/--debug tracing.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Format LogFormat `toml:"format"`
}

// Config is Mewo's user configuration.
type Config struct {
	// DefaultShell seeds the interpreter's global shell slot, equivalent to
	// passing --shell on every invocation. A Mewofile's own
	// #shell(name, global) still takes precedence once it runs.
	DefaultShell string `toml:"default_shell"`

	Logging LoggingConfig `toml:"logging"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		DefaultShell: "",
		Logging: LoggingConfig{
			Format: LogFormatText,
		},
	}
}

// Load loads configuration from a file, merging with defaults. A missing
// file is not an error: Mewo works with no config file at all.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// LoadUser loads configuration from the standard per-user location,
// ~/.mewo/config.toml.
func LoadUser() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Default(), nil
	}
	return Load(filepath.Join(home, ".mewo", "config.toml"))
}

// Validate checks that the configuration is well-formed.
func (c *Config) Validate() error {
	switch c.Logging.Format {
	case LogFormatText, LogFormatJSON, "":
	default:
		return fmt.Errorf("logging.format must be %q or %q, got %q", LogFormatText, LogFormatJSON, c.Logging.Format)
	}
	return nil
}
