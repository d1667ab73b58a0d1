package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/justyntemme/quiver/internal/config"
)

func addConfig(topLevel *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or regenerate the config file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), config.NewManager(o.config).Path())
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "generate",
		Short: "Write a fresh default config, keeping a backup of the old one",
		Example: `
quiver config generate
quiver config generate --config ~/.config/quiver/config.yaml
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.NewManager(o.config).Path()
			backup, err := config.GenerateConfig(path)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if backup != "" {
				fmt.Fprintf(out, "backed up %s to %s\n", path, backup)
			}
			_, err = fmt.Fprintf(out, "wrote %s\n", path)
			return err
		},
	})

	topLevel.AddCommand(cmd)
}
