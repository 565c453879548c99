package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config captures workspace settings for building and running FSL commands.
type Config struct {
	Version    int         `yaml:"version"`
	OutputType string      `yaml:"output_type"`
	FSLDir     string      `yaml:"fsldir,omitempty"`
	LogLevel   string      `yaml:"log_level"`
	Tools      ToolsConfig `yaml:"tools"`
	Batch      BatchConfig `yaml:"batch"`
	Paths      PathsConfig `yaml:"paths"`

	// Defaults holds option values applied to every invocation of a tool
	// before explicit values, keyed by tool name.
	Defaults map[string]map[string]any `yaml:"defaults,omitempty"`
}

// ToolsConfig controls FSL detection.
type ToolsConfig struct {
	Minimums map[string]string `yaml:"minimums,omitempty"`
}

// BatchConfig controls batch runs.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// PathsConfig overrides workspace locations. Relative paths are resolved
// against the workspace root.
type PathsConfig struct {
	LogsDir   string `yaml:"logs_dir,omitempty"`
	StateFile string `yaml:"state_file,omitempty"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Version:    1,
		OutputType: "NIFTI_GZ",
		LogLevel:   "info",
		Batch: BatchConfig{
			Concurrency: 2,
		},
	}
}

// Load reads the YAML configuration from disk if it exists, otherwise returns
// the default configuration.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills fields the YAML left empty.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if c.Version == 0 {
		c.Version = defaults.Version
	}
	if c.OutputType == "" {
		c.OutputType = defaults.OutputType
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	if c.Batch.Concurrency <= 0 {
		c.Batch.Concurrency = defaults.Batch.Concurrency
	}
}

// ToolDefaults returns the configured option defaults for tool. Keys in the
// file may use any casing of the tool name.
func (c Config) ToolDefaults(tool string) map[string]any {
	if values, ok := c.Defaults[tool]; ok {
		return values
	}
	for name, values := range c.Defaults {
		if strings.EqualFold(name, tool) {
			return values
		}
	}
	return nil
}

// Marshal returns the YAML encoding of the configuration.
func (c Config) Marshal() ([]byte, error) {
	buf, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return buf, nil
}
