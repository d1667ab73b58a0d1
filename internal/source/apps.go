package source

import (
	"context"
	"image"

	"github.com/justyntemme/quiver/internal/debug"
	"github.com/justyntemme/quiver/internal/desktop"
	"github.com/justyntemme/quiver/internal/launch"
)

const appsMode = "apps"

// AppsMode lists desktop applications, most used first. Each application's
// desktop actions are its subentries.
type AppsMode struct {
	entries  []*desktop.Entry
	usage    UsageStore
	launcher Starter
	icons    IconProvider
	fallback image.Image
}

// NewApps ranks entries by stored usage. usage and icons may be nil.
func NewApps(entries []*desktop.Entry, usage UsageStore, launcher Starter, icons IconProvider, fallback image.Image) *AppsMode {
	m := &AppsMode{
		entries:  entries,
		usage:    usage,
		launcher: launcher,
		icons:    icons,
		fallback: fallback,
	}
	counts := loadUsage(usage, appsMode)
	rankByUsage(len(entries), counts,
		func(i int) string { return m.entries[i].ID },
		func(i, j int) { m.entries[i], m.entries[j] = m.entries[j], m.entries[i] })
	debug.Log(debug.SOURCE, "apps: %d entries, %d with usage", len(entries), len(counts))
	return m
}

func (m *AppsMode) Name() string { return appsMode }

func (m *AppsMode) Len() int { return len(m.entries) }

func (m *AppsMode) String(i int) string { return m.entries[i].MatchText() }

func (m *AppsMode) SubentryCount(i int) int { return len(m.entries[i].Actions) }

func (m *AppsMode) Entry(i, sub int) Entry {
	e := m.entries[i]
	out := Entry{Name: e.Name}
	out.Subname, out.HasSubname = e.Subname(sub)
	if m.icons != nil {
		out.Icon = m.icons.Get(e.IconFor(sub))
	}
	if out.Icon == nil {
		out.Icon = m.fallback
	}
	return out
}

// Execute runs the entry's Exec line (or the chosen action's). With nothing
// selected the typed search string is run as a command line.
func (m *AppsMode) Execute(ctx context.Context, sel Selection, ec ExecContext) error {
	if !sel.Valid {
		argv, err := launch.SplitCommand(ec.Input.SearchString)
		if err != nil {
			return err
		}
		return m.launcher.Start(ctx, launch.Request{Argv: argv, Input: ec.Input})
	}

	e := m.entries[sel.Index]
	argv, err := e.ExecArgv(sel.Sub)
	if err != nil {
		return err
	}
	if len(argv) == 0 {
		return launch.ErrEmptyCommand
	}

	err = m.launcher.Start(ctx, launch.Request{
		Argv:     argv,
		Terminal: e.Terminal,
		Input:    ec.Input,
		Dir:      e.WorkDir,
	})
	if err != nil {
		return err
	}
	recordUsage(m.usage, appsMode, e.ID)
	return nil
}

// Entries exposes the ranked entries.
func (m *AppsMode) Entries() []*desktop.Entry { return m.entries }
