// Package app provides the entry point for the mcporter command-line
// application.
package app

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/verdantlabs/mcporter/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:               "mcporter",
	DisableAutoGenTag: true,
	Short:             "mcporter installs and manages MCP tool servers for Claude Desktop",
	Long: `mcporter installs, removes, and diagnoses MCP (Model Context Protocol) tool
servers in the Claude Desktop configuration file.

Every change to an existing configuration is preceded by a timestamped backup
snapshot, writes are atomic, and a file lock guards against concurrent edits,
so the configuration is never left half-written.`,
	PersistentPreRun: func(*cobra.Command, []string) {
		// Re-initialize after flag parsing so --debug takes effect.
		logger.Initialize()
	},
	Run: func(cmd *cobra.Command, _ []string) {
		// If no subcommand is provided, print help
		if err := cmd.Help(); err != nil {
			logger.Errorf("Error displaying help: %v", err)
		}
	},
}

// NewRootCmd creates a new root command for the mcporter CLI.
func NewRootCmd() *cobra.Command {
	// Add persistent flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")
	rootCmd.PersistentFlags().StringVar(&registryPathFlag, "registry", "",
		"Path to the registry file (default: the Claude Desktop config location)")
	rootCmd.PersistentFlags().StringVar(&backupDirFlag, "backup-dir", "",
		"Directory for registry snapshots (default: the per-user data directory)")

	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		logger.Errorf("Error binding debug flag: %v", err)
	}

	// Add subcommands
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(backupsCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(diagnoseCmd)
	rootCmd.AddCommand(launchCmd)
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
