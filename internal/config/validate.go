package config

import (
	"fmt"
	"strings"

	"i18n-autocomplete/internal/dialect"

	"github.com/rs/zerolog"
)

// Validate checks the loaded configuration. Load calls it automatically.
func (c *Config) Validate() error {
	if c.JSONPath == "" {
		return fmt.Errorf("%w: no pubspec.yaml or package.json in %s and json_path is not set", ErrUnknownProject, c.Workspace)
	}
	if len(c.Languages) == 0 {
		return fmt.Errorf("languages must not be empty")
	}
	for _, code := range c.Languages {
		if strings.TrimSpace(code) == "" || strings.ContainsAny(code, `/\`) {
			return fmt.Errorf("invalid language code %q", code)
		}
	}
	if len(c.SourceDirs) == 0 {
		return fmt.Errorf("source_dirs must not be empty")
	}
	if c.ProjectLanguage != "" {
		if _, err := dialect.Parse(c.ProjectLanguage); err != nil {
			return fmt.Errorf("project_language: %w", err)
		}
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1 (got %d)", c.Workers)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// Level returns the configured log level, defaulting to info.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
