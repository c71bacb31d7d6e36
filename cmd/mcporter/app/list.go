package app

import (
	"github.com/spf13/cobra"

	"github.com/verdantlabs/mcporter/cmd/mcporter/app/ui"
	"github.com/verdantlabs/mcporter/pkg/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered tool servers",
	Long:  "Display the tool servers currently registered in the registry file.",
	Args:  cobra.NoArgs,
	RunE:  listCmdFunc,
}

func listCmdFunc(_ *cobra.Command, _ []string) error {
	registryPath, _, err := resolvePaths()
	if err != nil {
		return err
	}

	doc, err := registry.Load(registryPath)
	if err != nil {
		return err
	}
	servers, err := doc.Servers()
	if err != nil {
		return err
	}

	return ui.RenderServersTable(servers)
}
