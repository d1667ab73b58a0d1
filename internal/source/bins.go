package source

import (
	"context"

	"github.com/justyntemme/quiver/internal/debug"
	qfs "github.com/justyntemme/quiver/internal/fs"
	"github.com/justyntemme/quiver/internal/launch"
)

const binsMode = "bins"

// BinsMode lists the executables found in $PATH, most used first.
type BinsMode struct {
	bins     []qfs.Executable
	display  map[string]string // path -> "name (path)" for ambiguous names
	usage    UsageStore
	launcher Starter
	terminal bool
}

// NewBins ranks bins by usage, then by path. When terminal is set every
// binary runs inside the configured terminal.
func NewBins(bins []qfs.Executable, usage UsageStore, launcher Starter, terminal bool) *BinsMode {
	m := &BinsMode{
		bins:     bins,
		display:  make(map[string]string),
		usage:    usage,
		launcher: launcher,
		terminal: terminal,
	}
	counts := loadUsage(usage, binsMode)
	rankByUsage(len(bins), counts,
		func(i int) string { return m.bins[i].Path },
		func(i, j int) { m.bins[i], m.bins[j] = m.bins[j], m.bins[i] })

	names := make(map[string]int)
	for _, b := range bins {
		names[b.Name]++
	}
	for _, b := range bins {
		if names[b.Name] > 1 {
			m.display[b.Path] = b.Name + " (" + b.Path + ")"
		}
	}
	debug.Log(debug.SOURCE, "bins: %d executables, %d ambiguous", len(bins), len(m.display))
	return m
}

func (m *BinsMode) Name() string { return binsMode }

func (m *BinsMode) Len() int { return len(m.bins) }

func (m *BinsMode) String(i int) string { return m.bins[i].Name }

func (m *BinsMode) SubentryCount(int) int { return 0 }

func (m *BinsMode) Entry(i, _ int) Entry {
	b := m.bins[i]
	if name, ok := m.display[b.Path]; ok {
		return Entry{Name: name}
	}
	return Entry{Name: b.Name}
}

// Execute runs the selected binary, or the typed command line when nothing
// matched.
func (m *BinsMode) Execute(ctx context.Context, sel Selection, ec ExecContext) error {
	var argv []string
	var key string
	if sel.Valid {
		key = m.bins[sel.Index].Path
		argv = []string{key}
	} else {
		var err error
		argv, err = launch.SplitCommand(ec.Input.SearchString)
		if err != nil {
			return err
		}
		key = argv[0]
	}

	if err := m.launcher.Start(ctx, launch.Request{Argv: argv, Terminal: m.terminal, Input: ec.Input}); err != nil {
		return err
	}
	recordUsage(m.usage, binsMode, key)
	return nil
}
