// Package main is the entry point for the mcporter CLI.
package main

import (
	"os"

	"github.com/verdantlabs/mcporter/cmd/mcporter/app"
	"github.com/verdantlabs/mcporter/pkg/errors"
	"github.com/verdantlabs/mcporter/pkg/logger"
)

func main() {
	// Initialize the logger
	logger.Initialize()

	if err := app.NewRootCmd().Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode maps the error taxonomy onto distinguishable exit codes so
// scripts can tell which step failed without parsing stderr.
func exitCode(err error) int {
	switch {
	case errors.IsCorruptConfig(err):
		return 10
	case errors.IsBackupFailed(err):
		return 11
	case errors.IsPackageInstallFailed(err):
		return 12
	case errors.IsRegisterAfterInstallFailed(err):
		return 13
	case errors.IsLockTimeout(err):
		return 14
	default:
		return 1
	}
}
