package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verdantlabs/mcporter/pkg/registry"
)

var (
	registerCommand string
	registerArgs    []string
	registerEnv     []string
)

var registerCmd = &cobra.Command{
	Use:   "register [name]",
	Short: "Register a tool server without installing anything",
	Long: `Register a tool server entry in the registry without running the package
manager. Useful to retry registration after an install succeeded but the
registration step failed, or to register an already-installed tool.

Registering an existing name replaces the whole entry.`,
	Args: cobra.ExactArgs(1),
	RunE: registerCmdFunc,
}

func init() {
	registerCmd.Flags().StringVar(&registerCommand, "command", "npx",
		"Launch command for the server")
	registerCmd.Flags().StringArrayVar(&registerArgs, "arg", nil,
		"Launch argument for the server, repeatable")
	registerCmd.Flags().StringArrayVar(&registerEnv, "env", nil,
		"Environment variable for the server as KEY=VALUE, repeatable")
}

func registerCmdFunc(cmd *cobra.Command, args []string) error {
	name := args[0]

	env, err := parseEnvVars(registerEnv)
	if err != nil {
		return err
	}

	editor, err := newEditor()
	if err != nil {
		return err
	}

	entry := registry.ServerEntry{
		Name:    name,
		Command: registerCommand,
		Args:    registerArgs,
		Env:     env,
	}
	if err := editor.AddServer(cmd.Context(), entry); err != nil {
		return err
	}

	fmt.Printf("Registered tool server %q\n", name)
	return nil
}
