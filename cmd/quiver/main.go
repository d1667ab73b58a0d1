package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/justyntemme/quiver/internal/app"
	"github.com/justyntemme/quiver/internal/commands"
)

func main() {
	root := commands.New()
	// Only the launcher window gives up the console; subcommands and
	// dialog mode write to it.
	root.PreRun = func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("debug")
		mode, _ := cmd.Flags().GetString("mode")
		manageConsole(verbose || mode == app.ModeDialog)
	}
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
