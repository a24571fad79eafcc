package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Settings.ProfileDir = "/srv/profiles"
	cfg.Settings.Protector = "keyring"
	cfg.Settings.DefaultBackgroundColor = "#1e1e1e"
	cfg.Settings.OutputFormat = "json"

	require.NoError(t, Save(path, &cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, *loaded)
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("settings:\n  profile-dir: /tmp/p\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, VersionV1, cfg.Version)
	assert.Equal(t, "/tmp/p", cfg.Settings.ProfileDir)
	assert.Equal(t, "black", cfg.Settings.DefaultBackgroundColor)
	assert.Equal(t, "table", cfg.Settings.OutputFormat)
	assert.Equal(t, "auto", cfg.Settings.Protector)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoadInvalid(t *testing.T) {
	t.Run("bad yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("settings: [unclosed"), 0o600))
		_, err := LoadOrDefault(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config")
	})

	t.Run("unknown version", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("version: v9\n"), 0o600))
		_, err := Load(path)
		require.Error(t, err)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := Load("")
		require.Error(t, err)
	})
}

func TestSaveNil(t *testing.T) {
	require.Error(t, Save(filepath.Join(t.TempDir(), "c.yaml"), nil))
}
