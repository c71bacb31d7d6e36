package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaultConfig(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	store := NewLocalStore(configPath)

	exists, err := store.Exists()
	require.NoError(t, err)
	assert.False(t, exists)

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "npm", cfg.PackageManager)
	assert.Empty(t, cfg.RegistryPath)

	exists, err = store.Exists()
	require.NoError(t, err)
	assert.True(t, exists, "load persists the default config")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	store := NewLocalStore(configPath)

	cfg := &Config{
		RegistryPath:   "/custom/registry.json",
		BackupDir:      "/custom/backups",
		PackageManager: "npm",
	}
	require.NoError(t, store.Save(cfg))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadInvalidYaml(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("registry_path: [not closed"), 0o600))

	_, err := NewLocalStore(configPath).Load()
	assert.Error(t, err)
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	store := NewLocalStore(configPath)

	err := store.Update(func(c *Config) {
		c.BackupDir = "/elsewhere/backups"
	})
	require.NoError(t, err)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "/elsewhere/backups", loaded.BackupDir)
	assert.Equal(t, "npm", loaded.PackageManager, "defaults survive an update")
}

func TestEffectiveBackupDir(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	assert.Equal(t, DefaultBackupDir(), cfg.EffectiveBackupDir())

	cfg.BackupDir = "/custom/backups"
	assert.Equal(t, "/custom/backups", cfg.EffectiveBackupDir())
}
