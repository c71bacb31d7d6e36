package app

import (
	"github.com/spf13/cobra"

	"github.com/verdantlabs/mcporter/cmd/mcporter/app/ui"
	"github.com/verdantlabs/mcporter/pkg/diagnostics"
	"github.com/verdantlabs/mcporter/pkg/host"
	"github.com/verdantlabs/mcporter/pkg/logger"
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Report on the registry, backups, and host application",
	Long: `Build a read-only diagnostic report: registered tool servers, snapshot
history, whether Claude Desktop is installed and running, and whether the
package registry is reachable. Nothing is modified.`,
	Args: cobra.NoArgs,
	RunE: diagnoseCmdFunc,
}

func diagnoseCmdFunc(cmd *cobra.Command, _ []string) error {
	registryPath, backupDir, err := resolvePaths()
	if err != nil {
		return err
	}

	app := host.ClaudeDesktop()
	running, err := app.IsRunning()
	if err != nil {
		logger.Warnw("failed to probe host application process", "error", err)
	}
	reachable, latency := diagnostics.CheckReachability(cmd.Context(), diagnostics.DefaultProbeURL)

	report := diagnostics.BuildReport(registryPath, backupDir, diagnostics.Probes{
		HostInstalled:    app.IsInstalled(),
		HostRunning:      running,
		NetworkReachable: reachable,
		NetworkLatency:   latency,
	})

	return ui.RenderDiagnosticsReport(report)
}
