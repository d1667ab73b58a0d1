package commands

import (
	"context"
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/justyntemme/quiver/internal/app"
	"github.com/justyntemme/quiver/internal/config"
	"github.com/justyntemme/quiver/internal/filter"
	"github.com/justyntemme/quiver/internal/input"
	"github.com/justyntemme/quiver/internal/store"
	"github.com/justyntemme/quiver/internal/xdg"
)

func addFilter(topLevel *cobra.Command, o *rootOptions) {
	f := &Filter{}

	cmd := &cobra.Command{
		Use:   "filter QUERY",
		Short: "Rank the candidates of a mode against a query and print them",
		Example: `
quiver filter fire
quiver filter --mode bins --limit 5 @top
ls /usr/share | quiver filter --mode dialog doc
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o.setupLogging()
			f.Mode, f.LinesFile = o.mode, o.linesFile
			f.Stdin, f.Out = cmd.InOrStdin(), cmd.OutOrStdout()
			if !cmd.Flags().Changed("algorithm") {
				m := config.NewManager(o.config)
				if err := m.Load(); err == nil {
					f.Algorithm = m.Get().Search.Algorithm
				}
			}
			query := ""
			if len(args) > 0 {
				query = args[0]
			}
			return f.Do(cmd.Context(), query)
		},
	}
	cmd.Flags().IntVarP(&f.Limit, "limit", "n", 20, "show at most this many rows (0 = all)")
	cmd.Flags().StringVarP(&f.Algorithm, "algorithm", "a", "fzf", "matching algorithm: fzf or simple")

	topLevel.AddCommand(cmd)
}

// Filter runs the launcher's matching without a window.
type Filter struct {
	Mode      string
	LinesFile string
	Algorithm string
	Limit     int
	Stdin     io.Reader
	Out       io.Writer
}

// Do loads the mode's candidates, ranks them against query and prints a
// table of rank, score and highlighted candidate text.
func (f *Filter) Do(ctx context.Context, query string) error {
	dirs := xdg.New()

	db := store.NewDB()
	if err := db.Open(dirs.UsageDB()); err != nil {
		log.Printf("Store: failed to open %s: %v", dirs.UsageDB(), err)
	}
	defer db.Close()

	launcher, explicit, err := app.NewLauncher("", nil)
	if err != nil {
		return err
	}
	src, err := app.NewSource(ctx, app.SourceOptions{
		Mode:           f.Mode,
		LinesFile:      f.LinesFile,
		Stdin:          f.Stdin,
		Dirs:           dirs,
		Usage:          db,
		Launcher:       launcher,
		BinsInTerminal: explicit,
	})
	if err != nil {
		return err
	}

	v := input.Parse(query)
	res := filter.Run(src, v.SearchString, filter.Options{
		Algorithm: filter.AlgorithmByName(f.Algorithm),
		Exact:     v.ExactPrefix,
	})
	return f.Print(src, res)
}

// Print writes res as a table.
func (f *Filter) Print(src filter.Source, res filter.Result) error {
	bold := color.New(color.Bold)
	hl := color.New(color.FgHiRed, color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("RANK"), bold.Sprint("SCORE"), bold.Sprint("CANDIDATE"))

	n := res.Len()
	if f.Limit > 0 {
		n = min(n, f.Limit)
	}
	for i := 0; i < n; i++ {
		idx, _ := res.Index(i)
		score := "-"
		var ranges []filter.Range
		if m, ok := res.Match(i); ok {
			score = strconv.Itoa(m.Score)
			ranges = m.Ranges()
		}
		tbl.AddRow(i+1, score, highlight(src.String(idx), ranges, hl))
	}

	if _, err := fmt.Fprintln(f.Out, tbl); err != nil {
		return err
	}
	if res.Len() > n {
		_, err := fmt.Fprintf(f.Out, "... %d more\n", res.Len()-n)
		return err
	}
	return nil
}

// highlight colors the matched rune ranges of s.
func highlight(s string, ranges []filter.Range, c *color.Color) string {
	if len(ranges) == 0 {
		return s
	}
	runes := []rune(s)
	out := make([]byte, 0, len(s)+len(ranges)*8)
	pos := 0
	for _, r := range ranges {
		start, end := max(r.Start, pos), min(r.End, len(runes))
		if start >= end {
			continue
		}
		out = append(out, string(runes[pos:start])...)
		out = append(out, c.Sprint(string(runes[start:end]))...)
		pos = end
	}
	out = append(out, string(runes[pos:])...)
	return string(out)
}
