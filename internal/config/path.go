// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Dir is the per-user configuration directory, ~/.config/tripledger.
// Falls back to a relative directory when the home dir is unknown.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tripledger"
	}
	return filepath.Join(home, ".config", "tripledger")
}

// TokenPath is where the cached Google OAuth token lives.
func TokenPath() string {
	return filepath.Join(Dir(), "token.json")
}

// ExpandPath resolves a leading ~ and any $VAR environment references in
// a user-supplied file path.
func ExpandPath(path string) string {
	switch {
	case path == "":
		return path
	case path == "~":
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	case strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return os.ExpandEnv(path)
}
