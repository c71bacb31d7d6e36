package app

import (
	"github.com/spf13/cobra"

	"github.com/verdantlabs/mcporter/cmd/mcporter/app/ui"
	"github.com/verdantlabs/mcporter/pkg/backup"
)

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List registry snapshots",
	Long:  "Display the registry snapshots in the backup directory, most recent last.",
	Args:  cobra.NoArgs,
	RunE:  backupsCmdFunc,
}

func backupsCmdFunc(_ *cobra.Command, _ []string) error {
	_, backupDir, err := resolvePaths()
	if err != nil {
		return err
	}

	snapshots, err := backup.NewStore(backupDir).List()
	if err != nil {
		return err
	}

	return ui.RenderBackupsTable(snapshots)
}
