package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/justyntemme/quiver/internal/app"
)

func addModes(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "modes",
		Short: "List the candidate sources accepted by --mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bold := color.New(color.Bold)
			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.AddRow(bold.Sprint("MODE"), bold.Sprint("DESCRIPTION"))
			for _, m := range app.Modes {
				tbl.AddRow(m.Name, m.Description)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), tbl)
			return err
		},
	}
	topLevel.AddCommand(cmd)
}
