package config

import (
	"os"
	"path/filepath"
)

// GetRuntimePath resolves the runtime directory before any config is
// parsed; the installer needs it to write the .env the parsers read.
func GetRuntimePath() string {
	path := os.Getenv("SCOUTBOT_RUNTIME_PATH")
	if path == "" {
		path = ".scoutbot"
	}
	if filepath.IsAbs(path) {
		return path
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, path)
}
