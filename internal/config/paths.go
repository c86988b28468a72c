package config

import (
	"os"
	"path/filepath"
	"strings"
)

const appDirName = ".outline"

// DataDir returns the base data directory, honoring OUTLINE_DATA_DIR.
func DataDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv("OUTLINE_DATA_DIR")); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, appDirName), nil
}

// ConfigPath returns the settings file path, honoring OUTLINE_CONFIG.
func ConfigPath() (string, error) {
	if path := strings.TrimSpace(os.Getenv("OUTLINE_CONFIG")); path != "" {
		return path, nil
	}
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "config.toml"), nil
}

// ResultCachePath returns the path of the local result cache database.
func ResultCachePath() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "results.db"), nil
}

// UILogPath returns the log file the full-screen UI writes to.
func UILogPath() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "ui.log"), nil
}
