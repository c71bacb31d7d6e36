package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"github.com/verdantlabs/mcporter/pkg/logger"
)

// lockTimeout is the maximum time to wait for a file lock
const lockTimeout = 1 * time.Second

// Store defines the interface for configuration storage operations
type Store interface {
	// Load loads the configuration from storage
	Load() (*Config, error)
	// Save saves the configuration to storage
	Save(config *Config) error
	// Exists checks if configuration exists in storage
	Exists() (bool, error)
	// Update performs a locked update operation on the configuration
	Update(updateFn func(*Config)) error
}

// LocalStore implements Store using the local file system
type LocalStore struct {
	configPath string
}

// NewLocalStore creates a new local file-based configuration store. An empty
// configPath means the default per-user location.
func NewLocalStore(configPath string) *LocalStore {
	return &LocalStore{
		configPath: configPath,
	}
}

func (s *LocalStore) resolvePath() (string, error) {
	if s.configPath != "" {
		return s.configPath, nil
	}
	configPath, err := getConfigPath()
	if err != nil {
		return "", fmt.Errorf("unable to fetch config path: %w", err)
	}
	return configPath, nil
}

// Load loads configuration from the local file
func (s *LocalStore) Load() (*Config, error) {
	configPath, err := s.resolvePath()
	if err != nil {
		return nil, err
	}

	// Check to see if the config file already exists.
	configPath = path.Clean(configPath)
	newConfig := false
	_, err = os.Stat(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			newConfig = true
		} else {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	var config Config
	if newConfig {
		// Create a new config with default values.
		config = createNewConfigWithDefaults()

		// Persist the new default to disk.
		logger.Debugf("initializing configuration file at %s", configPath)
		if err := s.saveToPath(configPath, &config); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
	} else {
		// Load the existing config and decode.
		// #nosec G304: path comes from the XDG config dir or tests
		configFile, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read config file %s: %w", configPath, err)
		}
		if err := yaml.Unmarshal(configFile, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file yaml: %w", err)
		}
	}

	return &config, nil
}

// Save saves configuration to the local file
func (s *LocalStore) Save(config *Config) error {
	configPath, err := s.resolvePath()
	if err != nil {
		return err
	}
	return s.saveToPath(configPath, config)
}

func (*LocalStore) saveToPath(configPath string, config *Config) error {
	configBytes, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error serializing config file: %w", err)
	}

	if err := os.WriteFile(configPath, configBytes, 0o600); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

// Exists checks if the local config file exists
func (s *LocalStore) Exists() (bool, error) {
	configPath, err := s.resolvePath()
	if err != nil {
		return false, err
	}

	_, err = os.Stat(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat config file: %w", err)
	}
	return true, nil
}

// Update performs a locked update operation on the configuration
func (s *LocalStore) Update(updateFn func(*Config)) error {
	configPath, err := s.resolvePath()
	if err != nil {
		return err
	}

	// Use a separate lock file for cross-platform compatibility
	lockPath := configPath + ".lock"
	fileLock := flock.New(lockPath)
	lockCtx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	// Try and acquire a file lock.
	locked, err := fileLock.TryLockContext(lockCtx, 100*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("failed to acquire lock: timeout after %v", lockTimeout)
	}
	defer fileLock.Unlock() //nolint:errcheck

	// Load the config after acquiring the lock to avoid race conditions
	config, err := s.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply changes to the config
	updateFn(config)

	// Save the updated config
	if err := s.Save(config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}
