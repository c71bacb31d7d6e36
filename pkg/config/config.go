// Package config contains the definition of the mcporter application config
// structure and the logic required to load and update it. This is mcporter's
// own settings file, not the host application's registry.
package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Config represents the configuration of the application.
type Config struct {
	// RegistryPath overrides the host application's default registry file
	// location. Empty means use the per-platform default.
	RegistryPath string `yaml:"registry_path,omitempty"`

	// BackupDir overrides where registry snapshots are kept. Empty means
	// the per-user data directory.
	BackupDir string `yaml:"backup_dir,omitempty"`

	// PackageManager selects the external install capability. Only "npm"
	// is currently supported.
	PackageManager string `yaml:"package_manager,omitempty"`
}

// defaultPathGenerator generates the default config path using xdg
var defaultPathGenerator = func() (string, error) {
	return xdg.ConfigFile("mcporter/config.yaml")
}

// getConfigPath is the current path generator, can be replaced in tests
var getConfigPath = defaultPathGenerator

// createNewConfigWithDefaults creates a new config with default values
func createNewConfigWithDefaults() Config {
	return Config{
		PackageManager: "npm",
	}
}

// DefaultBackupDir returns the per-user backup directory used when the
// config does not override it.
func DefaultBackupDir() string {
	return filepath.Join(xdg.DataHome, "mcporter", "backups")
}

// EffectiveBackupDir returns the backup directory to use for this config.
func (c *Config) EffectiveBackupDir() string {
	if c.BackupDir != "" {
		return c.BackupDir
	}
	return DefaultBackupDir()
}

// LoadOrCreateConfig fetches the application configuration.
// If it does not already exist - it will create a new config file with default values.
func LoadOrCreateConfig() (*Config, error) {
	return NewLocalStore("").Load()
}

// UpdateConfig loads the config, applies changes, and saves it back under
// the config file lock.
func UpdateConfig(updateFn func(*Config)) error {
	return NewLocalStore("").Update(updateFn)
}
