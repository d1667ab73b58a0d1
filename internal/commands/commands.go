// Package commands defines the quiver command line.
package commands

import (
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/justyntemme/quiver/internal/app"
	"github.com/justyntemme/quiver/internal/debug"
)

type rootOptions struct {
	mode      string
	config    string
	linesFile string
	debug     bool
	debugCats []string
	noIcons   bool
	term      string
	width     float32
	height    float32
}

// New returns the root command. Without a subcommand it opens the launcher.
func New() *cobra.Command {
	return newRoot(&rootOptions{})
}

func newRoot(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiver",
		Short: "A keyboard driven application launcher.",
		Long: `Quiver opens a small window with a query box over a list of candidates:
desktop applications, executables on $PATH, lines piped on stdin or command
lines read from a file. Typing narrows the list with fuzzy matching.

The query accepts a few suffixes:
  @text        exact substring match instead of fuzzy
  text!!args   extra arguments for the launched command
  text#A=1 B=2 extra environment variables
  text~/dir    working directory`,
		Example: `
quiver
quiver --mode bins
ls | quiver --mode dialog
`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.setupLogging()
			app.Main(cmd.Context(), app.Options{
				Mode:       o.mode,
				ConfigPath: o.config,
				LinesFile:  o.linesFile,
				NoIcons:    o.noIcons,
				Stdin:      cmd.InOrStdin(),
				Stdout:     cmd.OutOrStdout(),
				Overrides:  o.overrides(cmd),
			})
			return nil
		},
	}

	f := cmd.PersistentFlags()
	f.StringVarP(&o.mode, "mode", "m", app.ModeApps, "candidate source: apps, bins, dialog or lines")
	f.StringVarP(&o.config, "config", "c", "", "config file (default $XDG_CONFIG_HOME/quiver/config.json)")
	f.StringVar(&o.linesFile, "lines-file", "", "file with one command line per line, for --mode lines")
	f.BoolVar(&o.debug, "debug", false, "enable verbose debug logging (builds with -tags debug)")
	f.StringSliceVar(&o.debugCats, "debug-categories", nil, "with --debug, log only these categories, e.g. filter,exec")

	lf := cmd.Flags()
	lf.BoolVar(&o.noIcons, "no-icons", false, "do not load application icons")
	lf.StringVar(&o.term, "term", "", "terminal command line, overrides the config")
	lf.Float32Var(&o.width, "width", 0, "window width in dp, overrides the config")
	lf.Float32Var(&o.height, "height", 0, "window height in dp, overrides the config")

	addCommands(cmd, o)
	return cmd
}

func addCommands(topLevel *cobra.Command, o *rootOptions) {
	addFilter(topLevel, o)
	addModes(topLevel)
	addUsage(topLevel, o)
	addConfig(topLevel, o)
	addVersion(topLevel)
}

// overrides collects the config keys set on the command line.
func (o *rootOptions) overrides(cmd *cobra.Command) map[string]any {
	out := make(map[string]any)
	if cmd.Flags().Changed("term") {
		out["term"] = o.term
	}
	if cmd.Flags().Changed("width") {
		out["width"] = o.width
	}
	if cmd.Flags().Changed("height") {
		out["height"] = o.height
	}
	return out
}

func (o *rootOptions) setupLogging() {
	if !o.debug {
		return
	}
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if cats := parseCategories(o.debugCats); len(cats) > 0 {
		debug.DisableAll()
		for _, cat := range cats {
			debug.Enable(cat)
		}
	} else {
		debug.EnableAll()
	}
	log.Printf("Starting quiver in DEBUG mode, categories: %v", debug.ListEnabled())
}

// parseCategories normalizes flag values into category names, dropping
// blanks and duplicates.
func parseCategories(values []string) []debug.Category {
	var out []debug.Category
	seen := make(map[debug.Category]bool)
	for _, v := range values {
		cat := debug.Category(strings.ToUpper(strings.TrimSpace(v)))
		if cat == "" || seen[cat] {
			continue
		}
		seen[cat] = true
		out = append(out, cat)
	}
	return out
}
