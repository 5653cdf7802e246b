package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"letclone/internal/rewrite"
	"letclone/internal/suggest"
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	header := true

	return &Config{
		Version:    "1",
		Extensions: []string{".rs"},
		Output: OutputConfig{
			Mode:   string(rewrite.ModeStdout),
			Suffix: ".gen.rs",
			Header: &header,
		},
		Watch: WatchConfig{
			DebounceMS: 500,
		},
	}
}

// LoadFile loads and parses a config file from the given path. A missing
// file yields the defaults rather than an error, so running without a
// project file just works.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}

		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a Config.
func Parse(data []byte) (*Config, error) {
	var c Config

	err := yaml.Unmarshal(data, &c)
	if err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(&c)

	if err := validate(&c); err != nil {
		return nil, err
	}

	return &c, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(c *Config) {
	d := Default()

	if c.Version == "" {
		c.Version = d.Version
	}

	if len(c.Extensions) == 0 {
		c.Extensions = d.Extensions
	}

	if c.Output.Mode == "" {
		c.Output.Mode = d.Output.Mode
	}

	if c.Output.Suffix == "" {
		c.Output.Suffix = d.Output.Suffix
	}

	if c.Output.Header == nil {
		c.Output.Header = d.Output.Header
	}

	if c.Watch.DebounceMS <= 0 {
		c.Watch.DebounceMS = d.Watch.DebounceMS
	}
}

// validate rejects values the rest of the pipeline cannot act on.
func validate(c *Config) error {
	if _, err := rewrite.ParseMode(c.Output.Mode); err != nil {
		if hint := suggest.Closest(c.Output.Mode, rewrite.ModeNames()); hint != "" {
			return fmt.Errorf("config output.mode: %w (did you mean %q?)", err, hint)
		}

		return fmt.Errorf("config output.mode: %w", err)
	}

	for _, e := range c.Extensions {
		if e == "" || e[0] != '.' {
			return fmt.Errorf("config extensions: %q must start with a dot", e)
		}
	}

	return nil
}

// Marshal serializes a Config to YAML.
func Marshal(c *Config) ([]byte, error) {
	return yaml.Marshal(c)
}

// WriteFile writes a Config to the given path.
func WriteFile(c *Config, path string) error {
	data, err := Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}

	return nil
}
