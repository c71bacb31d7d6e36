// Package installer composes the external package installation capability
// with the registry mutation engine: install the package first, then
// register the server that launches it.
package installer

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/verdantlabs/mcporter/pkg/engine"
	"github.com/verdantlabs/mcporter/pkg/errors"
	"github.com/verdantlabs/mcporter/pkg/logger"
	"github.com/verdantlabs/mcporter/pkg/registry"
)

// PackageManager is the opaque external "install package" capability. It may
// take arbitrary time; callers bound it with the context and treat expiry as
// an install failure.
type PackageManager interface {
	// Install makes the identified package available on this machine.
	Install(ctx context.Context, identifier string) error
}

// NpmPackageManager installs packages globally through npm.
type NpmPackageManager struct{}

// Install runs npm install --global for the identified package.
func (*NpmPackageManager) Install(ctx context.Context, identifier string) error {
	// #nosec G204 -- identifier is the package the user asked to install
	cmd := exec.CommandContext(ctx, "npm", "install", "--global", identifier)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("npm install failed: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Installer orchestrates package installation followed by registration.
type Installer struct {
	Engine         *engine.Editor
	PackageManager PackageManager
}

// New returns an installer writing through the given editor.
func New(e *engine.Editor, pm PackageManager) *Installer {
	return &Installer{Engine: e, PackageManager: pm}
}

// DefaultLaunch returns the npx-style launch definition for a package:
// command "npx" with args ["-y", identifier].
func DefaultLaunch(identifier string) (string, []string) {
	return "npx", []string{"-y", identifier}
}

// InstallServer installs the identified package and registers a server entry
// that launches it.
//
// Failure semantics: if the package install fails, the registry is left
// untouched and the failure surfaces as package_install_failed. If
// registration fails after a successful install, the package remains
// installed but unregistered; that surfaces as the distinct
// register_after_install_failed so the operator can re-run registration
// without reinstalling.
func (i *Installer) InstallServer(ctx context.Context, name, packageIdentifier, command string, args []string) error {
	entry := registry.ServerEntry{
		Name:    name,
		Command: command,
		Args:    args,
		Env:     map[string]string{},
	}
	if err := entry.Validate(); err != nil {
		return err
	}
	if packageIdentifier == "" {
		return errors.NewInvalidArgumentError("package identifier must not be empty", nil)
	}

	logger.Infow("installing package", "package", packageIdentifier)
	if err := i.PackageManager.Install(ctx, packageIdentifier); err != nil {
		return errors.NewPackageInstallFailedError(
			fmt.Sprintf("failed to install package %s, registry unchanged", packageIdentifier), err)
	}

	if err := i.Engine.AddServer(ctx, entry); err != nil {
		return errors.NewRegisterAfterInstallFailedError(
			fmt.Sprintf("package %s installed but server %s not registered", packageIdentifier, name), err)
	}

	logger.Infow("registered tool server", "server", name, "command", command)
	return nil
}
