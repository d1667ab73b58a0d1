// Package app wires configuration, candidate sources, the usage store and
// the renderer into the launcher window and runs its event loop.
package app

import (
	"context"
	"errors"
	"image"
	"io"
	"log"
	"os"
	"sync/atomic"
	"time"

	"gioui.org/app"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"

	"github.com/justyntemme/quiver/internal/config"
	"github.com/justyntemme/quiver/internal/debug"
	"github.com/justyntemme/quiver/internal/filter"
	"github.com/justyntemme/quiver/internal/icon"
	"github.com/justyntemme/quiver/internal/launch"
	qlayout "github.com/justyntemme/quiver/internal/layout"
	"github.com/justyntemme/quiver/internal/selection"
	"github.com/justyntemme/quiver/internal/source"
	"github.com/justyntemme/quiver/internal/store"
	"github.com/justyntemme/quiver/internal/ui"
	"github.com/justyntemme/quiver/internal/xdg"
)

// ErrCanceled is returned by Run when the user closed the launcher without
// activating anything.
var ErrCanceled = errors.New("canceled")

// iconCacheSize bounds the decoded icons kept in memory.
const iconCacheSize = 512

type Options struct {
	Mode       string
	ConfigPath string
	LinesFile  string
	NoIcons    bool
	Stdin      io.Reader
	Stdout     io.Writer
	// Overrides are applied on top of the config file, keyed by config key.
	Overrides map[string]any
}

type Orchestrator struct {
	window *app.Window
	config *config.Manager
	store  *store.DB
	icons  *icon.Cache
	ui     *ui.Renderer
	state  *selection.State
	cfg    config.Config
	opts   Options

	watcher *FileWatcher
	reload  atomic.Bool // set by the watcher, consumed by the next frame

	height int   // last window height requested for shrink_to_fit, in dp
	result error // returned once the window is destroyed
}

func NewOrchestrator(opts Options) *Orchestrator {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	return &Orchestrator{
		window: new(app.Window),
		config: config.NewManager(opts.ConfigPath),
		store:  store.NewDB(),
		opts:   opts,
	}
}

// Run loads everything, opens the window and blocks until it is closed.
func (o *Orchestrator) Run(ctx context.Context) error {
	dirs := xdg.New()

	for k, v := range o.opts.Overrides {
		o.config.Set(k, v)
	}
	if err := o.config.Load(); err != nil {
		log.Printf("Config: using defaults: %v", err)
	}
	o.cfg = o.config.Get()

	if err := o.store.Open(dirs.UsageDB()); err != nil {
		log.Printf("Store: failed to open %s: %v", dirs.UsageDB(), err)
	}
	defer o.store.Close()

	launcher, explicit, err := NewLauncher(o.cfg.Term, config.DefaultTerminal)
	if err != nil {
		log.Printf("Config: %v", err)
		launcher, explicit = launch.New(config.DefaultTerminal()), false
	}

	var icons source.IconProvider
	var fallback image.Image
	if o.cfg.Icon.Enabled && !o.opts.NoIcons && (o.opts.Mode == ModeApps || o.opts.Mode == "") {
		// Decode at twice the dp size so icons stay sharp on HiDPI outputs.
		size := o.cfg.Icon.Size * 2
		finder := icon.NewFinder(dirs.IconDirs(), dirs.PixmapDirs(), o.cfg.Icon.Theme, o.cfg.Icon.Size)
		o.icons = icon.NewCache(finder, size, iconCacheSize, o.window.Invalidate)
		defer o.icons.Stop()
		icons = o.icons
		if p := o.cfg.Icon.FallbackIconPath; p != "" {
			if fallback, err = icon.LoadFile(p, size); err != nil {
				log.Printf("Config: fallback icon %s: %v", p, err)
			}
		}
	} else {
		o.cfg.Icon.Enabled = false
	}

	src, err := NewSource(ctx, SourceOptions{
		Mode:           o.opts.Mode,
		LinesFile:      o.opts.LinesFile,
		Stdin:          o.opts.Stdin,
		Dirs:           dirs,
		Usage:          o.store,
		Launcher:       launcher,
		Icons:          icons,
		Fallback:       fallback,
		BinsInTerminal: explicit,
	})
	if err != nil {
		return err
	}
	debug.Log(debug.APP, "mode=%s candidates=%d", src.Name(), src.Len())

	o.state = selection.New(src, filter.AlgorithmByName(o.cfg.Search.Algorithm))
	o.applyConfig()
	o.watchConfig()
	if o.watcher != nil {
		defer o.watcher.Close()
	}

	o.window.Option(
		app.Title(xdg.AppName),
		app.Size(unit.Dp(o.cfg.Width), unit.Dp(o.cfg.Height)),
		app.Decorated(false),
	)

	var ops op.Ops
	for {
		switch e := o.window.Event().(type) {
		case app.DestroyEvent:
			if e.Err != nil {
				return e.Err
			}
			return o.result
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			o.frame(ctx, gtx)
			e.Frame(gtx.Ops)
			o.resize()
		}
	}
}

// applyConfig rebuilds everything derived from o.cfg.
func (o *Orchestrator) applyConfig() {
	palette, err := o.cfg.Palette()
	if err != nil {
		palette, _ = config.DefaultConfig().Palette()
	}
	o.ui = ui.NewRenderer(o.cfg, palette, config.NewHotkeyMatcher(o.cfg.Hotkeys))
	if perr := o.config.ParseError(); perr != nil {
		o.ui.ShowError("config: " + perr.Error())
	}
}

// watchConfig reloads the config file whenever it changes on disk.
func (o *Orchestrator) watchConfig() {
	w, err := NewFileWatcher(200 * time.Millisecond)
	if err != nil {
		log.Printf("Config: cannot watch for changes: %v", err)
		return
	}
	if err := w.Watch(o.config.Path()); err != nil {
		log.Printf("Config: cannot watch %s: %v", o.config.Path(), err)
		w.Close()
		return
	}
	o.watcher = w
	go func() {
		for range w.Notify() {
			o.reload.Store(true)
			o.window.Invalidate()
		}
	}()
}

// reloadConfig re-reads the config file. Icon loading is fixed at startup,
// so a reload cannot turn icons on.
func (o *Orchestrator) reloadConfig() {
	if err := o.config.Load(); err != nil {
		log.Printf("Config: reload failed: %v", err)
		return
	}
	iconsOn := o.cfg.Icon.Enabled
	o.cfg = o.config.Get()
	o.cfg.Icon.Enabled = o.cfg.Icon.Enabled && iconsOn
	o.state.SetAlgorithm(filter.AlgorithmByName(o.cfg.Search.Algorithm))
	o.applyConfig()
	o.height = 0
	if !o.cfg.ListItems.ShrinkToFit {
		o.window.Option(app.Size(unit.Dp(o.cfg.Width), unit.Dp(o.cfg.Height)))
	}
	if o.config.ParseError() == nil {
		o.ui.ShowInfo("config reloaded")
	}
	log.Printf("Config: reloaded from %s", o.config.Path())
}

// frame runs one input/filter/layout pass.
func (o *Orchestrator) frame(ctx context.Context, gtx layout.Context) {
	if o.reload.Swap(false) {
		o.reloadConfig()
	}
	evt := o.ui.ProcessInput(gtx, o.state)
	if evt.Action != ui.ActionNone {
		debug.Log(debug.APP, "action %s", evt.Action)
	}
	o.handleUIEvent(ctx, evt)

	o.state.RecomputeFilter()
	slot := qlayout.NewSkipSlot(o.state.SkipOffset())
	o.ui.Layout(gtx, o.state, slot)
	if skip, ok := slot.Take(); ok {
		o.state.SetSkipOffset(skip)
	}
}

func (o *Orchestrator) handleUIEvent(ctx context.Context, evt ui.UIEvent) {
	switch evt.Action {
	case ui.ActionExit:
		o.close(ErrCanceled)
	case ui.ActionActivate, ui.ActionActivateFork:
		fork := evt.Action == ui.ActionActivateFork
		if err := o.state.ResolveAndExecute(ctx, fork, o.opts.Stdout); err != nil {
			log.Printf("Exec: %v", err)
			o.ui.ShowError(err.Error())
			return
		}
		if !fork {
			o.close(nil)
		}
	}
}

func (o *Orchestrator) close(result error) {
	o.result = result
	o.window.Perform(system.ActionClose)
}

// resize follows the list height when shrink_to_fit is on.
func (o *Orchestrator) resize() {
	if !o.cfg.ListItems.ShrinkToFit {
		return
	}
	h := o.ui.DesiredHeight()
	if h <= 0 || h == o.height {
		return
	}
	o.height = h
	o.window.Option(app.Size(unit.Dp(o.cfg.Width), unit.Dp(float32(h))))
}

// Main runs the launcher and exits the process with its status: 0 after a
// launch, 1 when a dialog was canceled or anything failed.
func Main(ctx context.Context, opts Options) {
	go func() {
		o := NewOrchestrator(opts)
		err := o.Run(ctx)
		switch {
		case err == nil:
			os.Exit(0)
		case errors.Is(err, ErrCanceled):
			if opts.Mode == ModeDialog {
				os.Exit(1)
			}
			os.Exit(0)
		default:
			log.Printf("quiver: %v", err)
			os.Exit(1)
		}
	}()
	app.Main()
}
