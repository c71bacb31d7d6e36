package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove all tool servers from the registry",
	Long: `Replace the entire tool server mapping with an empty one. Other settings in
the registry file are untouched. The prior contents are snapshotted first and
can be brought back with "mcporter restore".`,
	Args: cobra.NoArgs,
	RunE: resetCmdFunc,
}

func resetCmdFunc(cmd *cobra.Command, _ []string) error {
	editor, err := newEditor()
	if err != nil {
		return err
	}

	if err := editor.ResetAll(cmd.Context()); err != nil {
		return err
	}

	fmt.Println("Removed all tool servers from the registry")
	return nil
}
