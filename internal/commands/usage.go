package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/justyntemme/quiver/internal/store"
	"github.com/justyntemme/quiver/internal/xdg"
)

func addUsage(topLevel *cobra.Command, o *rootOptions) {
	u := &Usage{}
	var reset bool

	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show or reset the launch counts used to rank candidates",
		Example: `
quiver usage
quiver usage --mode bins --limit 5
quiver usage --reset
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.setupLogging()
			u.Mode, u.Out = o.mode, cmd.OutOrStdout()
			db := store.NewDB()
			if err := db.Open(xdg.New().UsageDB()); err != nil {
				return err
			}
			defer db.Close()
			if reset {
				return u.Reset(db)
			}
			return u.Show(db)
		},
	}
	cmd.Flags().IntVarP(&u.Limit, "limit", "n", 20, "show at most this many entries (0 = all)")
	cmd.Flags().BoolVar(&reset, "reset", false, "forget every count recorded for the mode")

	topLevel.AddCommand(cmd)
}

// UsageStore is the part of store.DB the usage command needs.
type UsageStore interface {
	Top(mode string, limit int) ([]store.Usage, error)
	Reset(mode string) error
}

// Usage prints or clears the per-mode launch counts.
type Usage struct {
	Mode  string
	Limit int
	Out   io.Writer
}

func (u *Usage) Show(db UsageStore) error {
	rows, err := db.Top(u.Mode, u.Limit)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintf(u.Out, "no launches recorded for mode %q\n", u.Mode)
		return err
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("COUNT"), bold.Sprint("KEY"))
	for _, r := range rows {
		tbl.AddRow(r.Count, r.Key)
	}
	_, err = fmt.Fprintln(u.Out, tbl)
	return err
}

func (u *Usage) Reset(db UsageStore) error {
	if err := db.Reset(u.Mode); err != nil {
		return err
	}
	_, err := fmt.Fprintf(u.Out, "usage for mode %q cleared\n", u.Mode)
	return err
}
