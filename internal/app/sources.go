package app

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"strings"

	"github.com/justyntemme/quiver/internal/desktop"
	qfs "github.com/justyntemme/quiver/internal/fs"
	"github.com/justyntemme/quiver/internal/launch"
	"github.com/justyntemme/quiver/internal/source"
	"github.com/justyntemme/quiver/internal/xdg"
)

// Mode names accepted by --mode.
const (
	ModeApps   = "apps"
	ModeBins   = "bins"
	ModeDialog = "dialog"
	ModeLines  = "lines"
)

// Modes lists the available modes with a one-line description.
var Modes = []struct {
	Name        string
	Description string
}{
	{ModeApps, "desktop applications from XDG data dirs"},
	{ModeBins, "executables on $PATH"},
	{ModeDialog, "lines from stdin; prints the choice"},
	{ModeLines, "command lines from --lines-file"},
}

// SourceOptions is everything a mode may need to build its candidates.
type SourceOptions struct {
	Mode      string
	LinesFile string
	Stdin     io.Reader
	Dirs      xdg.Dirs
	Usage     source.UsageStore
	Launcher  *launch.Launcher
	// Icons may be nil to disable icon lookup.
	Icons    source.IconProvider
	Fallback image.Image
	// BinsInTerminal runs every executable inside the terminal.
	BinsInTerminal bool
}

// NewSource builds the candidate source for opts.Mode.
func NewSource(ctx context.Context, opts SourceOptions) (source.Source, error) {
	switch opts.Mode {
	case ModeApps, "":
		files := qfs.FindDesktopFiles(ctx, opts.Dirs.ApplicationDirs())
		entries := desktop.Load(ctx, files, desktop.Options{
			Locale:   desktop.CurrentLocale(),
			Desktops: desktop.DesktopsFromEnv(os.Getenv("XDG_CURRENT_DESKTOP")),
		})
		return source.NewApps(entries, opts.Usage, opts.Launcher, opts.Icons, opts.Fallback), nil

	case ModeBins:
		bins := qfs.ListExecutables(ctx, qfs.PathDirs(os.Getenv("PATH")))
		return source.NewBins(bins, opts.Usage, opts.Launcher, opts.BinsInTerminal), nil

	case ModeDialog:
		stdin := opts.Stdin
		if stdin == nil {
			stdin = os.Stdin
		}
		return source.NewDialog(stdin)

	case ModeLines:
		if opts.LinesFile == "" {
			return nil, fmt.Errorf("mode %q needs --lines-file", ModeLines)
		}
		return source.NewTextLines(opts.LinesFile, opts.Launcher)
	}

	names := make([]string, len(Modes))
	for i, m := range Modes {
		names[i] = m.Name
	}
	return nil, fmt.Errorf("unknown mode %q (want one of %s)", opts.Mode, strings.Join(names, ", "))
}

// NewLauncher resolves the terminal prefix from the config value, then
// $TERMINAL, then the first installed terminal found on the system.
// explicit reports whether the user chose the terminal; only then are
// plain executables wrapped in it.
func NewLauncher(term string, detect func() []string) (l *launch.Launcher, explicit bool, err error) {
	prefix, err := launch.ResolveTerminal(term, os.Getenv("TERMINAL"))
	if err != nil {
		return nil, false, err
	}
	explicit = len(prefix) > 0
	if !explicit && detect != nil {
		prefix = detect()
	}
	return launch.New(prefix), explicit, nil
}
