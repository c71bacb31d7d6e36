package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verdantlabs/mcporter/pkg/host"
)

var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Launch the Claude Desktop application",
	Long: `Start Claude Desktop so that newly registered tool servers are picked up.
The application reads the registry file only at startup, so registrations
made while it runs take effect after a relaunch.`,
	Args: cobra.NoArgs,
	RunE: launchCmdFunc,
}

func launchCmdFunc(_ *cobra.Command, _ []string) error {
	app := host.ClaudeDesktop()
	if !app.IsInstalled() {
		return fmt.Errorf("Claude Desktop does not appear to be installed")
	}
	if err := app.Launch(); err != nil {
		return err
	}

	fmt.Println("Launched Claude Desktop")
	return nil
}
