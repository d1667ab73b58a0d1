// Package ui draws the launcher window and turns raw Gio input into edits
// of the selection state.
package ui

import (
	"image"
	"time"

	"gioui.org/op/paint"
	"gioui.org/widget/material"

	"github.com/justyntemme/quiver/internal/config"
	qlayout "github.com/justyntemme/quiver/internal/layout"
)

// UIAction is an input outcome the orchestrator has to act on. Plain
// edits and navigation are applied to the state directly.
type UIAction int

const (
	ActionNone UIAction = iota
	ActionExit
	ActionActivate
	ActionActivateFork
)

func (a UIAction) String() string {
	switch a {
	case ActionExit:
		return "exit"
	case ActionActivate:
		return "activate"
	case ActionActivateFork:
		return "activate-fork"
	}
	return "none"
}

type UIEvent struct {
	Action UIAction
}

// Renderer owns the widget state that survives between frames.
type Renderer struct {
	Theme *material.Theme

	cfg     config.Config
	palette config.Palette
	hotkeys *config.HotkeyMatcher

	keyTag  struct{}
	listTag struct{}
	focused bool

	// Last list layout, used to map pointer positions back to rows.
	window  qlayout.Window
	metrics qlayout.Metrics
	hasSub  bool
	shown   int

	desiredHeight int

	// Image ops drawn this frame and the one before; older ones are dropped
	// so icons evicted from the icon cache do not pile up here.
	images     map[image.Image]paint.ImageOp
	prevImages map[image.Image]paint.ImageOp

	toast Toast
	now   func() time.Time
}

// NewRenderer builds a renderer for cfg. The palette must already be
// validated.
func NewRenderer(cfg config.Config, palette config.Palette, hotkeys *config.HotkeyMatcher) *Renderer {
	th := material.NewTheme()
	th.Palette.Bg = palette.Background
	th.Palette.Fg = palette.ItemFont
	return &Renderer{
		Theme:   th,
		cfg:     cfg,
		palette: palette,
		hotkeys: hotkeys,
		images:  make(map[image.Image]paint.ImageOp),
		now:     time.Now,
	}
}

// imageOp caches one paint.ImageOp per decoded icon so the GPU texture is
// uploaded once.
func (r *Renderer) imageOp(img image.Image) paint.ImageOp {
	if op, ok := r.images[img]; ok {
		return op
	}
	op, ok := r.prevImages[img]
	if !ok {
		op = paint.NewImageOp(img)
	}
	r.images[img] = op
	return op
}

// rotateImages starts a new frame generation of image ops.
func (r *Renderer) rotateImages() {
	r.prevImages, r.images = r.images, make(map[image.Image]paint.ImageOp, len(r.images))
}

// DesiredHeight is the window height in dp that fits the current list when
// shrink_to_fit is on. It is 0 until the first frame.
func (r *Renderer) DesiredHeight() int { return r.desiredHeight }
