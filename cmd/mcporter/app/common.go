package app

import (
	"fmt"
	"strings"

	"github.com/verdantlabs/mcporter/pkg/config"
	"github.com/verdantlabs/mcporter/pkg/engine"
	"github.com/verdantlabs/mcporter/pkg/errors"
	"github.com/verdantlabs/mcporter/pkg/host"
)

var (
	registryPathFlag string
	backupDirFlag    string
)

// resolvePaths determines the registry file and backup directory for this
// invocation. Flags win over the config file, which wins over the host
// application's per-platform default.
func resolvePaths() (registryPath, backupDir string, err error) {
	cfg, err := config.LoadOrCreateConfig()
	if err != nil {
		return "", "", fmt.Errorf("failed to load configuration: %w", err)
	}

	registryPath = registryPathFlag
	if registryPath == "" {
		registryPath = cfg.RegistryPath
	}
	if registryPath == "" {
		registryPath, err = host.ClaudeDesktop().RegistryPath()
		if err != nil {
			return "", "", err
		}
	}

	backupDir = backupDirFlag
	if backupDir == "" {
		backupDir = cfg.EffectiveBackupDir()
	}

	return registryPath, backupDir, nil
}

// newEditor builds the mutation engine for the resolved paths.
func newEditor() (*engine.Editor, error) {
	registryPath, backupDir, err := resolvePaths()
	if err != nil {
		return nil, err
	}
	return engine.NewEditor(registryPath, backupDir), nil
}

// parseEnvVars parses KEY=VALUE pairs from the --env flag.
func parseEnvVars(pairs []string) (map[string]string, error) {
	env := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, errors.NewInvalidArgumentError(
				fmt.Sprintf("invalid environment variable %q, expected KEY=VALUE", pair), nil)
		}
		env[key] = value
	}
	return env, nil
}
