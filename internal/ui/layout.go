package ui

import (
	"image"
	"image/color"
	"math"

	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/justyntemme/quiver/internal/config"
	"github.com/justyntemme/quiver/internal/debug"
	"github.com/justyntemme/quiver/internal/filter"
	qlayout "github.com/justyntemme/quiver/internal/layout"
	"github.com/justyntemme/quiver/internal/selection"
)

// Layout draws one frame: background, input box, list and toast. The
// corrected scroll offset is written to slot.
func (r *Renderer) Layout(gtx layout.Context, st *selection.State, slot *qlayout.SkipSlot) layout.Dimensions {
	defer clip.Rect{Max: gtx.Constraints.Max}.Push(gtx.Ops).Pop()
	paint.Fill(gtx.Ops, r.palette.Background)
	r.rotateImages()

	// ===== KEYBOARD FOCUS =====
	event.Op(gtx.Ops, &r.keyTag)
	if !r.focused {
		gtx.Execute(key.FocusCmd{Tag: &r.keyTag})
		r.focused = true
	}

	var inputHeight int
	layout.Stack{}.Layout(gtx,
		layout.Stacked(func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					dims := r.layoutInput(gtx, st)
					inputHeight = dims.Size.Y
					return dims
				}),
				layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
					return r.layoutList(gtx, st, slot, inputHeight)
				}),
			)
		}),
		layout.Stacked(r.layoutToast),
	)

	return layout.Dimensions{Size: gtx.Constraints.Max}
}

func inset(m qlayout.Margin) layout.Inset {
	return layout.Inset{Top: unit.Dp(m.Top), Right: unit.Dp(m.Right), Bottom: unit.Dp(m.Bottom), Left: unit.Dp(m.Left)}
}

func (r *Renderer) label(gtx layout.Context, sizePx float32, txt string, col color.NRGBA) material.LabelStyle {
	sp := unit.Sp(sizePx / gtx.Metric.PxPerSp)
	lbl := material.Label(r.Theme, sp, txt)
	lbl.Color = col
	lbl.MaxLines = 1
	lbl.LineHeight = sp
	return lbl
}

// layoutInput draws the raw query in a rounded box.
func (r *Renderer) layoutInput(gtx layout.Context, st *selection.State) layout.Dimensions {
	return inset(r.cfg.InputMargin()).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		macro := op.Record(gtx.Ops)
		dims := inset(r.cfg.InputPadding()).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			size := float32(gtx.Dp(unit.Dp(r.cfg.InputFontSize())))
			gtx.Constraints.Min.X = gtx.Constraints.Max.X
			gtx.Constraints.Min.Y = int(size)
			return r.label(gtx, size, st.RawInput(), r.palette.InputFont).Layout(gtx)
		})
		call := macro.Stop()

		rr := gtx.Dp(unit.Dp(4))
		paint.FillShape(gtx.Ops, r.palette.InputBg, clip.UniformRRect(image.Rectangle{Max: dims.Size}, rr).Op(gtx.Ops))
		call.Add(gtx.Ops)
		return dims
	})
}

// layoutList fits the visible window, records it for pointer hit tests and
// draws its rows.
func (r *Renderer) layoutList(gtx layout.Context, st *selection.State, slot *qlayout.SkipSlot, inputHeight int) layout.Dimensions {
	scale := gtx.Metric.PxPerDp
	m := config.Metrics(r.cfg, scale)
	hasSub := st.HasSubnameRow(r.cfg.ListItems.HideActions)
	height := float32(gtx.Constraints.Max.Y)

	if r.cfg.ListItems.ShrinkToFit {
		maxList := r.cfg.Height*scale - float32(inputHeight)
		capacity := qlayout.DisplayedCount(maxList, m, hasSub)
		want := qlayout.SpaceFor(min(st.FilteredLen(), capacity), m, hasSub)
		height = min(height, want)
		r.desiredHeight = int(math.Ceil(float64((float32(inputHeight) + want) / scale)))
	}

	space := qlayout.Space{Width: float32(gtx.Constraints.Max.X), Height: height}
	w := qlayout.Fit(space, m, st.FilteredLen(), st.SelectedItem(), st.SkipOffset(), hasSub)
	slot.Put(w.Skip)

	rows := st.Rows(w)
	r.window, r.metrics, r.hasSub, r.shown = w, m, hasSub, len(rows)

	size := image.Pt(gtx.Constraints.Max.X, int(height))
	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	event.Op(gtx.Ops, &r.listTag)

	y := m.Margin.Top
	for _, row := range rows {
		r.layoutRow(gtx, row, m, y, size.X)
		y += m.RowStride()
		if row.Selected && hasSub {
			r.layoutSubname(gtx, row, m, y, size.X)
			y += m.RowStride()
		}
	}

	debug.Log(debug.UI, "list: h=%d rows=%d skip=%d sub=%v", size.Y, len(rows), w.Skip, hasSub)
	return layout.Dimensions{Size: size}
}

func (r *Renderer) layoutRow(gtx layout.Context, row selection.RowDescriptor, m qlayout.Metrics, y float32, width int) {
	defer op.Offset(image.Pt(int(m.Margin.Left), int(y))).Push(gtx.Ops).Pop()
	rowH := int(m.EntryHeight())

	x := 0
	if m.IconSize > 0 {
		iconPx := int(m.IconSize)
		if row.Icon != nil {
			gtx := gtx
			gtx.Constraints = layout.Exact(image.Pt(iconPx, iconPx))
			off := op.Offset(image.Pt(0, (rowH-iconPx)/2)).Push(gtx.Ops)
			widget.Image{Src: r.imageOp(row.Icon), Fit: widget.Contain}.Layout(gtx)
			off.Pop()
		}
		x = iconPx + int(m.IconSpacing)
	}

	base := r.palette.ItemFont
	if row.Selected {
		base = r.palette.SelectedFont
	}

	gtx.Constraints = layout.Constraints{Max: image.Pt(max(width-x-int(m.Margin.Left+m.Margin.Right), 0), rowH)}
	defer op.Offset(image.Pt(x, (rowH-int(m.FontSize))/2)).Push(gtx.Ops).Pop()
	r.layoutSpans(gtx, row.Name, row.Ranges, m.FontSize, base)
}

func (r *Renderer) layoutSubname(gtx layout.Context, row selection.RowDescriptor, m qlayout.Metrics, y float32, width int) {
	x := int(m.Margin.Left + m.SubnameMarginLeft)
	defer op.Offset(image.Pt(x, int(y))).Push(gtx.Ops).Pop()
	gtx.Constraints = layout.Constraints{Max: image.Pt(max(width-x-int(m.Margin.Right), 0), int(m.EntryHeight()))}
	r.label(gtx, m.FontSize, row.Subname, r.palette.ItemFont).Layout(gtx)
}

// layoutSpans draws text with matched spans in the match color.
func (r *Renderer) layoutSpans(gtx layout.Context, text string, ranges []filter.Range, sizePx float32, base color.NRGBA) layout.Dimensions {
	segs := segments(text, ranges)
	children := make([]layout.FlexChild, 0, len(segs))
	for _, s := range segs {
		col := base
		if s.match {
			col = r.palette.Match
		}
		lbl := r.label(gtx, sizePx, s.text, col)
		children = append(children, layout.Rigid(lbl.Layout))
	}
	return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Baseline}.Layout(gtx, children...)
}

type segment struct {
	text  string
	match bool
}

// segments splits text at the match boundaries. Ranges are rune indices of
// the matchable text and may run past text when keywords matched; those
// parts are dropped.
func segments(text string, ranges []filter.Range) []segment {
	runes := []rune(text)
	var out []segment
	pos := 0
	for _, rg := range ranges {
		start, end := max(rg.Start, pos), min(rg.End, len(runes))
		if start >= end {
			continue
		}
		if start > pos {
			out = append(out, segment{text: string(runes[pos:start])})
		}
		out = append(out, segment{text: string(runes[start:end]), match: true})
		pos = end
	}
	if pos < len(runes) {
		out = append(out, segment{text: string(runes[pos:])})
	}
	return out
}
