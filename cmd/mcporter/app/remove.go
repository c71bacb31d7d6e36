package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove [name]",
	Short: "Remove a tool server from the registry",
	Long: `Remove a tool server entry from the registry. Removing a name that is not
registered succeeds as a no-op. The installed package, if any, is not
uninstalled.`,
	Args: cobra.ExactArgs(1),
	RunE: removeCmdFunc,
}

func removeCmdFunc(cmd *cobra.Command, args []string) error {
	name := args[0]

	editor, err := newEditor()
	if err != nil {
		return err
	}

	if err := editor.RemoveServer(cmd.Context(), name); err != nil {
		return err
	}

	fmt.Printf("Removed tool server %q\n", name)
	return nil
}
