// Package env consolidates all environment variable reading for the tool.
// Config overrides are applied only at startup (see config.Load).
package env

import (
	"os"
)

// Environment variable names (single source of truth)
const (
	LOGLevel   = "LOG_LEVEL"
	OutputDir  = "RPMFILE_OUTPUT_DIR"
	ConfigPath = "RPMFILE_CONFIG"
)

// Config JSON keys returned by overrides (for warnings)
const (
	KeyLogLevel  = "log_level"
	KeyOutputDir = "output_dir"
)

// LogLevel returns LOG_LEVEL with default "INFO" (for early logger init before config).
func LogLevel() string {
	return getEnv(LOGLevel, "INFO")
}

// ConfigOverrides holds all config values that can be set via environment variables.
type ConfigOverrides struct {
	LogLevel  string
	OutputDir string
}

// ReadConfigOverrides reads all relevant environment variables once and
// returns overrides to apply to config plus the list of config JSON keys
// that were set.
func ReadConfigOverrides() (ConfigOverrides, []string) {
	var o ConfigOverrides
	var keys []string

	if v := os.Getenv(LOGLevel); v != "" {
		o.LogLevel = v
		keys = append(keys, KeyLogLevel)
	}
	if v := os.Getenv(OutputDir); v != "" {
		o.OutputDir = v
		keys = append(keys, KeyOutputDir)
	}
	return o, keys
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
