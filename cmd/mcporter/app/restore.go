package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verdantlabs/mcporter/pkg/backup"
)

var restoreCmd = &cobra.Command{
	Use:   "restore [timestamp|latest]",
	Short: "Restore the registry from a snapshot",
	Long: `Write a snapshot's exact content back to the registry file. Pass a snapshot
timestamp as shown by "mcporter backups", or "latest" for the most recent
one. The pre-restore state is itself snapshotted first, so a restore can
always be undone.`,
	Args: cobra.ExactArgs(1),
	RunE: restoreCmdFunc,
}

func restoreCmdFunc(cmd *cobra.Command, args []string) error {
	editor, err := newEditor()
	if err != nil {
		return err
	}

	var snap *backup.Snapshot
	if args[0] == "latest" {
		snap, err = editor.Backups.Latest()
		if err != nil {
			return err
		}
		if snap == nil {
			return fmt.Errorf("no snapshots to restore from")
		}
	} else {
		snap, err = editor.Backups.Find(args[0])
		if err != nil {
			return err
		}
	}

	if err := editor.Restore(cmd.Context(), snap); err != nil {
		return err
	}

	fmt.Printf("Restored registry from snapshot %s\n", backup.Stamp(snap.Timestamp))
	return nil
}
