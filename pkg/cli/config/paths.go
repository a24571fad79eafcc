package config

import (
	"os"
	"path/filepath"
)

const (
	defaultConfigDirName = "smtpmailer"
	defaultConfigFile    = "config.yaml"
	fallbackDirName      = ".smtpmailer"

	EnvConfig     = "SMTPMAILER_CONFIG"
	EnvProfileDir = "SMTPMAILER_PROFILE_DIR"
)

func DefaultConfigPath() string {
	if env := os.Getenv(EnvConfig); env != "" {
		return env
	}
	return filepath.Join(userDir(), defaultConfigFile)
}

// DefaultProfileDir is the per-user directory holding profile files.
func DefaultProfileDir() string {
	if env := os.Getenv(EnvProfileDir); env != "" {
		return env
	}
	return userDir()
}

func userDir() string {
	base, err := os.UserConfigDir()
	if err == nil {
		return filepath.Join(base, defaultConfigDirName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, fallbackDirName)
}
