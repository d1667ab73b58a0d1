// Package layout decides how many list rows fit into the available space and
// which contiguous window of the filtered list is visible.
//
// Everything here is pure arithmetic over pixel metrics. The functions are
// safe to call from the redraw path without synchronization.
package layout

import (
	"math"

	"github.com/justyntemme/quiver/internal/debug"
)

// Margin is a box of paddings in pixels.
type Margin struct {
	Top    float32
	Right  float32
	Bottom float32
	Left   float32
}

// Scale multiplies every side by s.
func (m Margin) Scale(s float32) Margin {
	return Margin{Top: m.Top * s, Right: m.Right * s, Bottom: m.Bottom * s, Left: m.Left * s}
}

// Vertical returns Top+Bottom.
func (m Margin) Vertical() float32 { return m.Top + m.Bottom }

// Metrics are the per-row inputs to the layout.
type Metrics struct {
	FontSize    float32
	IconSize    float32
	Margin      Margin
	ItemSpacing float32
	IconSpacing float32
	// SubnameMarginLeft indents the sub-action row under the selected entry.
	SubnameMarginLeft float32
}

// Scaled returns m with every length multiplied by scale (the output's
// pixels-per-dp factor).
func (m Metrics) Scaled(scale float32) Metrics {
	return Metrics{
		FontSize:          m.FontSize * scale,
		IconSize:          m.IconSize * scale,
		Margin:            m.Margin.Scale(scale),
		ItemSpacing:       m.ItemSpacing * scale,
		IconSpacing:       m.IconSpacing * scale,
		SubnameMarginLeft: m.SubnameMarginLeft * scale,
	}
}

// EntryHeight is the height of one row: the taller of the text and the icon.
func (m Metrics) EntryHeight() float32 {
	if m.IconSize > m.FontSize {
		return m.IconSize
	}
	return m.FontSize
}

// RowStride is the distance between the tops of two consecutive rows.
func (m Metrics) RowStride() float32 {
	return m.EntryHeight() + m.ItemSpacing
}

// Space is an available drawing area in pixels.
type Space struct {
	Width  float32
	Height float32
}

// Window is the per-frame layout result.
type Window struct {
	// Count is the number of rows that fit. It may exceed the number of
	// items left to show.
	Count int
	// Skip is the corrected scroll offset: the filtered index of the first
	// visible row.
	Skip int
	// SelectedRow is the position of the selection within the window.
	SelectedRow int
}

// End returns the exclusive upper bound of the visible items for a list of
// itemCount entries.
func (w Window) End(itemCount int) int {
	end := w.Skip + w.Count
	if end > itemCount {
		end = itemCount
	}
	if end < w.Skip {
		return w.Skip
	}
	return end
}

// eps absorbs float rounding so an exact fit is never floored down a row.
const eps = 1e-4

// DisplayedCount returns how many rows fit into height. A shown sub-action
// row costs one row.
func DisplayedCount(height float32, m Metrics, hasSubname bool) int {
	stride := float64(m.RowStride())
	if stride <= 0 {
		return 0
	}
	avail := float64(height) - float64(m.Margin.Vertical()) + float64(m.ItemSpacing)
	n := int(math.Floor(avail/stride + eps))
	if hasSubname {
		n--
	}
	if n < 0 {
		return 0
	}
	return n
}

// SpaceFor returns the height count rows occupy, including margins and the
// spacing between rows. It is the inverse of DisplayedCount.
func SpaceFor(count int, m Metrics, hasSubname bool) float32 {
	rows := count
	if hasSubname {
		rows++
	}
	if rows <= 0 {
		return m.Margin.Vertical()
	}
	return m.Margin.Vertical() + float32(rows)*m.RowStride() - m.ItemSpacing
}

// Fit computes the visible window for the current selection.
//
// The window moves only as far as needed to keep selected visible: when the
// selection is above the window it becomes the first row, when it is below
// it becomes the last row, otherwise the prior offset is kept.
//
// selected must be a valid index into a list of itemCount entries (or 0 for
// an empty list). Violations are logged, never corrected.
func Fit(space Space, m Metrics, itemCount, selected, priorSkip int, hasSubname bool) Window {
	if selected < 0 || (itemCount > 0 && selected >= itemCount) {
		debug.Log(debug.LAYOUT, "Fit: selected=%d out of range for %d items", selected, itemCount)
	}

	displayed := DisplayedCount(space.Height, m, hasSubname)
	if displayed == 0 {
		skip := priorSkip
		if selected < skip {
			skip = selected
		}
		return Window{Count: 0, Skip: max(skip, 0), SelectedRow: 0}
	}

	var w Window
	w.Count = displayed
	switch last := priorSkip + displayed; {
	case selected < priorSkip:
		w.Skip = selected
		w.SelectedRow = 0
	case selected >= last:
		w.Skip = priorSkip + (selected - last) + 1
		w.SelectedRow = displayed - 1
	default:
		w.Skip = priorSkip
		w.SelectedRow = selected - priorSkip
	}

	debug.Log(debug.LAYOUT, "Fit: h=%.1f items=%d sel=%d prior=%d -> count=%d skip=%d row=%d",
		space.Height, itemCount, selected, priorSkip, w.Count, w.Skip, w.SelectedRow)
	return w
}

// SkipSlot carries the corrected scroll offset from the draw pass back to
// the selection state. It is pre-filled with the prior offset, so a draw
// that never reaches the list still reports "no change".
type SkipSlot struct {
	value int
	set   bool
}

// NewSkipSlot returns a slot holding prior.
func NewSkipSlot(prior int) *SkipSlot {
	return &SkipSlot{value: prior}
}

// Put records the offset computed during drawing.
func (s *SkipSlot) Put(skip int) {
	s.value = skip
	s.set = true
}

// Take returns the offset and whether the draw pass wrote it.
func (s *SkipSlot) Take() (skip int, written bool) {
	return s.value, s.set
}
