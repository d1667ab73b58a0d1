package ui

import (
	"math"

	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"

	"github.com/justyntemme/quiver/internal/config"
	"github.com/justyntemme/quiver/internal/debug"
	qlayout "github.com/justyntemme/quiver/internal/layout"
	"github.com/justyntemme/quiver/internal/selection"
)

// Keyboard and mouse input handling

// ProcessInput drains this frame's input and applies it to st. It returns
// early with the first exit or activation so nothing typed after Return
// changes what gets launched.
func (r *Renderer) ProcessInput(gtx layout.Context, st *selection.State) UIEvent {
	filters := append([]event.Filter{key.FocusFilter{Target: &r.keyTag}}, r.hotkeys.Filters(&r.keyTag)...)
	for {
		e, ok := gtx.Event(filters...)
		if !ok {
			break
		}
		switch e := e.(type) {
		case key.FocusEvent:
			r.focused = e.Focus
		case key.EditEvent:
			st.InsertText(e.Text)
			r.dismissToast()
		case key.Event:
			if e.State != key.Press {
				continue
			}
			action, ok := r.hotkeys.Match(e)
			if !ok {
				debug.Log(debug.HOTKEY, "unbound key name=%q mods=0x%x", e.Name, e.Modifiers)
				continue
			}
			if out := r.apply(action, st); out.Action != ActionNone {
				return out
			}
		}
	}

	for {
		e, ok := gtx.Event(pointer.Filter{
			Target:  &r.listTag,
			Kinds:   pointer.Press | pointer.Scroll,
			ScrollY: pointer.ScrollRange{Min: math.MinInt32, Max: math.MaxInt32},
		})
		if !ok {
			break
		}
		pe, ok := e.(pointer.Event)
		if !ok {
			continue
		}
		switch pe.Kind {
		case pointer.Scroll:
			switch {
			case pe.Scroll.Y > 0:
				st.NextItem()
			case pe.Scroll.Y < 0:
				st.PrevItem()
			}
		case pointer.Press:
			if !pe.Buttons.Contain(pointer.ButtonPrimary) {
				continue
			}
			item, ok := rowAt(pe.Position.Y, r.window, r.metrics, r.hasSub, r.shown)
			if !ok {
				continue
			}
			debug.Log(debug.UI, "click y=%.1f -> item %d (selected %d)", pe.Position.Y, item, st.SelectedItem())
			if item == st.SelectedItem() {
				return UIEvent{Action: ActionActivate}
			}
			st.Select(item)
		}
	}
	return UIEvent{}
}

func (r *Renderer) apply(a config.Action, st *selection.State) UIEvent {
	switch a {
	case config.ActionExit:
		return UIEvent{Action: ActionExit}
	case config.ActionActivate:
		return UIEvent{Action: ActionActivate}
	case config.ActionActivateFork:
		return UIEvent{Action: ActionActivateFork}
	case config.ActionPrev:
		st.PrevItem()
	case config.ActionNext:
		st.NextItem()
	case config.ActionPrevAction:
		st.PrevSubitem()
	case config.ActionNextAction:
		st.NextSubitem()
	case config.ActionPageUp:
		st.PageUp(r.pageSize())
	case config.ActionPageDown:
		st.PageDown(r.pageSize())
	case config.ActionClearInput:
		st.Clear()
	case config.ActionDeleteWord:
		st.RemoveLastWord()
	case config.ActionDeleteChar:
		st.RemoveLastChar()
	}
	return UIEvent{}
}

// pageSize is the displayed row count of the last frame.
func (r *Renderer) pageSize() int {
	return max(r.window.Count, 1)
}

// rowAt maps a y coordinate inside the list panel to a filtered index.
// The action line under the selected row belongs to that row.
func rowAt(y float32, w qlayout.Window, m qlayout.Metrics, hasSub bool, shown int) (int, bool) {
	stride := m.RowStride()
	y -= m.Margin.Top
	if stride <= 0 || y < 0 {
		return 0, false
	}
	slot := int(y / stride)
	if hasSub {
		switch {
		case slot == w.SelectedRow+1:
			slot = w.SelectedRow
		case slot > w.SelectedRow+1:
			slot--
		}
	}
	if slot >= shown {
		return 0, false
	}
	return w.Skip + slot, true
}
