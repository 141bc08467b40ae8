package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Path returns the config file for a workspace: I18N_CONFIG when set,
// otherwise the default file in the workspace root.
func Path(workspace string) (string, bool) {
	if p := os.Getenv("I18N_CONFIG"); p != "" {
		return p, true
	}
	return filepath.Join(workspace, DefaultFileName), false
}

// Load reads configuration for a workspace from its YAML file and the
// environment. Priority: ENV > YAML > project-type defaults > env-default
// tags. A missing default config file is not an error.
func Load(workspace string) (*Config, error) {
	if workspace == "" {
		return nil, ErrNoWorkspace
	}
	abs, err := filepath.Abs(workspace)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoWorkspace, err)
	}
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNoWorkspace, abs)
	}

	if err := godotenv.Load(filepath.Join(abs, ".env")); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	var cfg Config
	path, explicit := Path(abs)
	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	cfg.Workspace = abs
	cfg.applyProjectDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyProjectDefaults() {
	c.ProjectType = DetectProject(c.Workspace)
	jsonPath, assetPath := DefaultPaths(c.ProjectType)
	if c.JSONPath == "" {
		c.JSONPath = jsonPath
	}
	if c.AssetPath == "" {
		c.AssetPath = assetPath
	}
}
