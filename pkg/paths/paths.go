package paths

import (
	"os"
	"path/filepath"
)

// GetDataDir returns the directory for config and log output.
// If running in Docker (/.dockerenv exists), returns /app/data
// Otherwise returns the user config dir, falling back to the current directory.
func GetDataDir() string {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		// Running in Docker container
		return "/app/data"
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "rpmfile")
	}
	return "."
}

// ConfigPath returns the default config.json location.
func ConfigPath() string {
	return filepath.Join(GetDataDir(), "config.json")
}
