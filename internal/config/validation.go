package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"

	"fslcmd/internal/fsl"
)

// ValidationResult captures a single validation finding.
type ValidationResult struct {
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

// Validate checks the configuration against the tool catalog.
func (c Config) Validate() []ValidationResult {
	var results []ValidationResult
	results = append(results, c.validateOutputType()...)
	results = append(results, c.validateLogLevel()...)
	results = append(results, c.validateDefaults()...)
	return results
}

func (c Config) validateOutputType() []ValidationResult {
	if _, err := fsl.ParseOutputType(c.OutputType); err != nil {
		return []ValidationResult{{Level: "error", Message: err.Error()}}
	}
	return nil
}

func (c Config) validateLogLevel() []ValidationResult {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return []ValidationResult{{Level: "error", Message: fmt.Sprintf("log_level: %v", err)}}
	}
	return nil
}

// validateDefaults checks that every tool and option named under defaults
// exists and that each value is acceptable on its own.
func (c Config) validateDefaults() []ValidationResult {
	var results []ValidationResult
	tools := make([]string, 0, len(c.Defaults))
	for name := range c.Defaults {
		tools = append(tools, name)
	}
	sort.Strings(tools)

	for _, name := range tools {
		inv, err := fsl.New(name)
		if err != nil {
			results = append(results, ValidationResult{Level: "error", Message: fmt.Sprintf("defaults: %v", err)})
			continue
		}
		options := c.Defaults[name]
		keys := make([]string, 0, len(options))
		for key := range options {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if err := inv.Set(key, options[key]); err != nil {
				level := "error"
				var missing *fsl.InvalidInputPathError
				if errors.As(err, &missing) {
					level = "warning"
				}
				results = append(results, ValidationResult{Level: level, Message: fmt.Sprintf("defaults: %v", err)})
			}
		}
	}
	return results
}
