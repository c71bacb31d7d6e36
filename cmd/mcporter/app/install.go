package app

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/verdantlabs/mcporter/pkg/installer"
)

var (
	installCommand string
	installArgs    []string
	installTimeout time.Duration
)

var installCmd = &cobra.Command{
	Use:   "install [name] [package]",
	Short: "Install a package and register it as a tool server",
	Long: `Install a package through the package manager and register a tool server
that launches it.

By default the server is registered with an npx-style launcher
(command "npx", args ["-y", "<package>"]); use --command and --arg to
override. If the package install fails, the registry is left untouched. If
registration fails after a successful install, the package stays installed
and "mcporter register" can be re-run without reinstalling.`,
	Args: cobra.ExactArgs(2),
	RunE: installCmdFunc,
}

func init() {
	installCmd.Flags().StringVar(&installCommand, "command", "",
		"Launch command for the server (default: npx)")
	installCmd.Flags().StringArrayVar(&installArgs, "arg", nil,
		"Launch argument for the server, repeatable (default: -y <package>)")
	installCmd.Flags().DurationVar(&installTimeout, "timeout", 5*time.Minute,
		"Maximum time to wait for the package install")
}

func installCmdFunc(cmd *cobra.Command, args []string) error {
	name, packageIdentifier := args[0], args[1]

	editor, err := newEditor()
	if err != nil {
		return err
	}

	command, launchArgs := installer.DefaultLaunch(packageIdentifier)
	if installCommand != "" {
		command = installCommand
	}
	if len(installArgs) > 0 {
		launchArgs = installArgs
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), installTimeout)
	defer cancel()

	inst := installer.New(editor, &installer.NpmPackageManager{})
	if err := inst.InstallServer(ctx, name, packageIdentifier, command, launchArgs); err != nil {
		return err
	}

	fmt.Printf("Installed %s and registered tool server %q\n", packageIdentifier, name)
	return nil
}
