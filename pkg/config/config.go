package config

import (
	"encoding/json"
	"os"

	"github.com/ganboing/rpmfile/pkg/env"
	"github.com/ganboing/rpmfile/pkg/logger"
	"github.com/ganboing/rpmfile/pkg/paths"
)

// Config holds tool configuration
type Config struct {
	LogLevel  string `json:"log_level"`
	OutputDir string `json:"output_dir"`

	// Internal - where was this config loaded from?
	LoadedPath string `json:"-"`
}

// Load is intended for startup only. It loads configuration from config.json,
// applies environment variable overrides once, then returns the merged config.
// Priority: Environment variables (if not empty) > config.json > defaults
func Load() (*Config, error) {
	configPath := os.Getenv(env.ConfigPath)
	if configPath == "" {
		configPath = paths.ConfigPath()
	}

	cfg := &Config{
		// Set defaults
		LogLevel:  "INFO",
		OutputDir: ".",
	}

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
		cfg.LoadedPath = configPath
	case os.IsNotExist(err):
		logger.Debug("No config file found, using defaults", "path", configPath)
	default:
		return nil, err
	}

	overrides, keys := env.ReadConfigOverrides()
	if overrides.LogLevel != "" {
		cfg.LogLevel = overrides.LogLevel
	}
	if overrides.OutputDir != "" {
		cfg.OutputDir = overrides.OutputDir
	}
	if len(keys) > 0 {
		logger.Debug("Applied environment overrides", "keys", keys)
	}
	return cfg, nil
}
