// Package config handles refcheck's global configuration and environment
// loading.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotenv loads a .env file from the current directory when one exists.
// Missing files are fine; a .env is a convenience, not a requirement.
func LoadDotenv() {
	_ = godotenv.Load()
}

// Mailto returns the contact address to send with CrossRef requests, in
// precedence order: REFCHECK_MAILTO, CROSSREF_MAILTO, then the global config
// file. Empty means anonymous (CrossRef's public pool).
func Mailto() string {
	if v := os.Getenv("REFCHECK_MAILTO"); v != "" {
		return v
	}
	if v := os.Getenv("CROSSREF_MAILTO"); v != "" {
		return v
	}
	cfg, err := LoadGlobalConfig()
	if err != nil {
		return ""
	}
	return cfg.Mailto
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
