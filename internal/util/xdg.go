package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// AppName is the directory name used under XDG base directories.
const AppName = "expconv"

// GetXDGDataDir returns the XDG data directory for expconv.
// It respects XDG_DATA_HOME if set, otherwise falls back to ~/.local/share/expconv
func GetXDGDataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, AppName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".local", "share", AppName), nil
}
