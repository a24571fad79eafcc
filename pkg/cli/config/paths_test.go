package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfigPath(t *testing.T) {
	t.Run("uses SMTPMAILER_CONFIG env var when set", func(t *testing.T) {
		t.Setenv(EnvConfig, "/custom/path/config.yaml")
		assert.Equal(t, "/custom/path/config.yaml", DefaultConfigPath())
	})

	t.Run("uses user config dir when SMTPMAILER_CONFIG not set", func(t *testing.T) {
		t.Setenv(EnvConfig, "")
		result := DefaultConfigPath()
		assert.True(t, strings.HasSuffix(result, filepath.Join("smtpmailer", "config.yaml")) ||
			strings.HasSuffix(result, filepath.Join(".smtpmailer", "config.yaml")),
			"unexpected config path: %s", result)
	})
}

func TestDefaultProfileDir(t *testing.T) {
	t.Run("uses SMTPMAILER_PROFILE_DIR env var when set", func(t *testing.T) {
		t.Setenv(EnvProfileDir, "/srv/profiles")
		assert.Equal(t, "/srv/profiles", DefaultProfileDir())
	})

	t.Run("shares the config directory", func(t *testing.T) {
		t.Setenv(EnvProfileDir, "")
		t.Setenv(EnvConfig, "")
		assert.Equal(t, filepath.Dir(DefaultConfigPath()), DefaultProfileDir())
	})
}
