// Package selection owns the launcher's interactive state: the typed input,
// the current filtered view and the selected row.
//
// State is not safe for concurrent use. It is owned by the event loop, which
// mutates it in response to one input event at a time and calls
// RecomputeFilter once per frame before laying out the list.
package selection

import (
	"context"
	"image"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/justyntemme/quiver/internal/debug"
	"github.com/justyntemme/quiver/internal/filter"
	"github.com/justyntemme/quiver/internal/input"
	"github.com/justyntemme/quiver/internal/layout"
	"github.com/justyntemme/quiver/internal/source"
)

// RowDescriptor is one visible list row, in display order.
type RowDescriptor struct {
	// Index is the row's position in the filtered view.
	Index      int
	Name       string
	Subname    string
	HasSubname bool
	Icon       image.Image
	// Ranges are matched rune spans of the candidate's matchable text.
	// They may extend past Name when keywords matched.
	Ranges   []filter.Range
	Selected bool
}

// State is the selection state machine.
type State struct {
	src       source.Source
	algorithm filter.Algorithm

	raw    string
	parsed input.Value

	selectedItem    int
	selectedSubitem int
	skipOffset      int

	filtered filter.Result
	dirty    bool
}

// New returns a State over src with an empty query.
func New(src source.Source, algorithm filter.Algorithm) *State {
	return &State{
		src:       src,
		algorithm: algorithm,
		filtered:  filter.Unfiltered(src.Len()),
	}
}

// Source returns the candidate source.
func (s *State) Source() source.Source { return s.src }

// RawInput returns the text typed so far.
func (s *State) RawInput() string { return s.raw }

// Parsed returns the parsed form of RawInput.
func (s *State) Parsed() input.Value { return s.parsed }

func (s *State) SelectedItem() int    { return s.selectedItem }
func (s *State) SelectedSubitem() int { return s.selectedSubitem }
func (s *State) SkipOffset() int      { return s.skipOffset }

// FilteredLen is the number of rows in the current filtered view.
func (s *State) FilteredLen() int { return s.filtered.Len() }

// Filtered returns the current filter result.
func (s *State) Filtered() filter.Result { return s.filtered }

// SetSkipOffset stores the offset the layout pass settled on.
func (s *State) SetSkipOffset(skip int) {
	if skip < 0 {
		skip = 0
	}
	s.skipOffset = skip
}

func (s *State) updateInput(raw string) {
	if raw == s.raw {
		return
	}
	parsed := input.Parse(raw)
	if parsed.SearchString != s.parsed.SearchString || parsed.ExactPrefix != s.parsed.ExactPrefix {
		s.dirty = true
	}
	s.raw = raw
	s.parsed = parsed
	debug.Log(debug.STATE, "input: %q search=%q exact=%v", raw, s.parsed.SearchString, s.parsed.ExactPrefix)
}

// InsertText appends text to the input.
func (s *State) InsertText(text string) {
	if text == "" {
		return
	}
	s.updateInput(s.raw + text)
}

// SetInput replaces the whole input.
func (s *State) SetInput(text string) {
	s.updateInput(text)
}

// RemoveLastChar deletes the final rune of the input.
func (s *State) RemoveLastChar() {
	if s.raw == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(s.raw)
	s.updateInput(s.raw[:len(s.raw)-size])
}

// RemoveLastWord deletes any trailing separators and the word before them.
func (s *State) RemoveLastWord() {
	trimmed := strings.TrimRightFunc(s.raw, func(r rune) bool { return !isWordRune(r) })
	trimmed = strings.TrimRightFunc(trimmed, isWordRune)
	s.updateInput(trimmed)
}

// Clear empties the input.
func (s *State) Clear() {
	s.updateInput("")
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// NextItem moves the selection down one row, saturating at the last row.
func (s *State) NextItem() {
	s.moveTo(s.selectedItem + 1)
}

// PrevItem moves the selection up one row, saturating at the first row.
func (s *State) PrevItem() {
	s.moveTo(s.selectedItem - 1)
}

// PageDown moves the selection down by n rows.
func (s *State) PageDown(n int) {
	s.moveTo(s.selectedItem + max(n, 1))
}

// PageUp moves the selection up by n rows.
func (s *State) PageUp(n int) {
	s.moveTo(s.selectedItem - max(n, 1))
}

// Select jumps to row i of the filtered view. Out-of-range rows are ignored.
func (s *State) Select(i int) bool {
	if i < 0 || i >= s.filtered.Len() {
		return false
	}
	s.moveTo(i)
	return true
}

// moveTo clamps i into the filtered view. The sub-action resets on every
// vertical move, even a saturated one.
func (s *State) moveTo(i int) {
	last := s.filtered.Len() - 1
	if i > last {
		i = last
	}
	if i < 0 {
		i = 0
	}
	s.selectedItem = i
	s.selectedSubitem = 0
}

// NextSubitem selects the next secondary action of the selected candidate.
func (s *State) NextSubitem() {
	idx, ok := s.filtered.Index(s.selectedItem)
	if !ok {
		return
	}
	if n := s.src.SubentryCount(idx); s.selectedSubitem < n {
		s.selectedSubitem++
	}
}

// PrevSubitem moves back towards the primary action.
func (s *State) PrevSubitem() {
	if s.selectedSubitem > 0 {
		s.selectedSubitem--
	}
}

// SetAlgorithm switches the scorer; the next RecomputeFilter re-ranks.
func (s *State) SetAlgorithm(a filter.Algorithm) {
	if a == s.algorithm {
		return
	}
	s.algorithm = a
	s.dirty = s.parsed.SearchString != ""
}

// RecomputeFilter re-runs the filter if the search part of the input
// changed since the last call, then clamps the selection and the scroll
// offset into the new view. Editing only args, env or workdir keeps the view.
func (s *State) RecomputeFilter() {
	if s.dirty {
		s.filtered = filter.Run(s.src, s.parsed.SearchString, filter.Options{
			Algorithm: s.algorithm,
			Exact:     s.parsed.ExactPrefix,
		})
		s.dirty = false
	}

	if last := s.filtered.Len() - 1; s.selectedItem > last {
		s.selectedItem = max(last, 0)
		s.selectedSubitem = 0
	}
	if idx, ok := s.filtered.Index(s.selectedItem); ok {
		s.selectedSubitem = min(s.selectedSubitem, s.src.SubentryCount(idx))
	} else {
		s.selectedSubitem = 0
	}
	if s.skipOffset > s.selectedItem {
		s.skipOffset = s.selectedItem
	}
}

// HasSubnameRow reports whether the selected row shows its action label on
// an extra line.
func (s *State) HasSubnameRow(hideActions bool) bool {
	if hideActions {
		return false
	}
	idx, ok := s.filtered.Index(s.selectedItem)
	if !ok {
		return false
	}
	return s.src.Entry(idx, s.selectedSubitem).HasSubname
}

// Rows returns the descriptors for the rows inside w.
func (s *State) Rows(w layout.Window) []RowDescriptor {
	end := w.End(s.filtered.Len())
	if end <= w.Skip {
		return nil
	}
	rows := make([]RowDescriptor, 0, end-w.Skip)
	for i := w.Skip; i < end; i++ {
		idx, _ := s.filtered.Index(i)
		selected := i == s.selectedItem
		sub := 0
		if selected {
			sub = s.selectedSubitem
		}
		e := s.src.Entry(idx, sub)
		row := RowDescriptor{
			Index:      i,
			Name:       e.Name,
			Subname:    e.Subname,
			HasSubname: e.HasSubname,
			Icon:       e.Icon,
			Selected:   selected,
		}
		if m, ok := s.filtered.Match(i); ok {
			row.Ranges = m.Ranges()
		}
		rows = append(rows, row)
	}
	return rows
}

// ResolveAndExecute maps the selection back to a candidate and runs it. An
// empty view runs the typed text instead. The state is left untouched
// whether or not the launch succeeds.
func (s *State) ResolveAndExecute(ctx context.Context, fork bool, stdout io.Writer) error {
	if s.dirty {
		s.RecomputeFilter()
	}
	if stdout == nil {
		stdout = os.Stdout
	}

	idx, ok := s.filtered.Index(s.selectedItem)
	sel := source.Selection{Index: idx, Valid: ok}
	if ok {
		sel.Sub = s.selectedSubitem
	}

	debug.Log(debug.STATE, "execute: mode=%s item=%d idx=%d valid=%v sub=%d fork=%v",
		s.src.Name(), s.selectedItem, idx, ok, sel.Sub, fork)

	return s.src.Execute(ctx, sel, source.ExecContext{
		Input:  s.parsed,
		Fork:   fork,
		Stdout: stdout,
	})
}
