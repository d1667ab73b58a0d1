package selection

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/justyntemme/quiver/internal/filter"
	"github.com/justyntemme/quiver/internal/layout"
	"github.com/justyntemme/quiver/internal/source"
)

type fakeSource struct {
	names   []string
	actions map[int][]string
	execErr error

	executed []source.Selection
	contexts []source.ExecContext
}

func (f *fakeSource) Name() string            { return "fake" }
func (f *fakeSource) Len() int                { return len(f.names) }
func (f *fakeSource) String(i int) string     { return f.names[i] }
func (f *fakeSource) SubentryCount(i int) int { return len(f.actions[i]) }

func (f *fakeSource) Entry(i, sub int) source.Entry {
	e := source.Entry{Name: f.names[i]}
	if sub > 0 {
		e.Subname = f.actions[i][sub-1]
		e.HasSubname = true
	}
	return e
}

func (f *fakeSource) Execute(_ context.Context, sel source.Selection, ec source.ExecContext) error {
	f.executed = append(f.executed, sel)
	f.contexts = append(f.contexts, ec)
	return f.execErr
}

func newState(names ...string) (*State, *fakeSource) {
	src := &fakeSource{names: names, actions: map[int][]string{}}
	return New(src, filter.AlgorithmFZF), src
}

// frame runs one redraw the way the event loop does.
func frame(s *State, rows int) []RowDescriptor {
	m := layout.Metrics{FontSize: 20, ItemSpacing: 4}
	s.RecomputeFilter()
	space := layout.Space{Height: layout.SpaceFor(rows, m, false)}
	w := layout.Fit(space, m, s.FilteredLen(), s.SelectedItem(), s.SkipOffset(), false)
	s.SetSkipOffset(w.Skip)
	return s.Rows(w)
}

func rowNames(rows []RowDescriptor) []string {
	var out []string
	for _, r := range rows {
		out = append(out, r.Name)
	}
	return out
}

func TestEmptyInputShowsAll(t *testing.T) {
	s, _ := newState("Firefox", "Chromium", "Terminal")
	rows := frame(s, 10)

	if got, want := rowNames(rows), []string{"Firefox", "Chromium", "Terminal"}; !reflect.DeepEqual(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}
	if s.SkipOffset() != 0 {
		t.Errorf("SkipOffset() = %d, want 0", s.SkipOffset())
	}
	if !rows[0].Selected || rows[1].Selected {
		t.Error("expected only the first row selected")
	}
	for _, r := range rows {
		if r.Ranges != nil {
			t.Errorf("%q: unfiltered row has ranges %v", r.Name, r.Ranges)
		}
	}
}

func TestNarrowThenWiden(t *testing.T) {
	s, _ := newState("Firefox", "Chromium", "Terminal")
	s.NextItem()
	s.NextItem()
	frame(s, 10)
	if s.SelectedItem() != 2 {
		t.Fatalf("SelectedItem() = %d, want 2", s.SelectedItem())
	}

	s.InsertText("fi")
	rows := frame(s, 10)
	if got := rowNames(rows); !reflect.DeepEqual(got, []string{"Firefox"}) {
		t.Fatalf("rows after \"fi\" = %v", got)
	}
	if s.SelectedItem() != 0 {
		t.Errorf("SelectedItem() = %d, want 0 after narrowing", s.SelectedItem())
	}
	if want := []filter.Range{{Start: 0, End: 2}}; !reflect.DeepEqual(rows[0].Ranges, want) {
		t.Errorf("Ranges = %v, want %v", rows[0].Ranges, want)
	}

	s.Clear()
	rows = frame(s, 10)
	if got, want := rowNames(rows), []string{"Firefox", "Chromium", "Terminal"}; !reflect.DeepEqual(got, want) {
		t.Errorf("rows after clear = %v, want %v", got, want)
	}
	if s.SelectedItem() != 0 {
		t.Errorf("SelectedItem() = %d, want 0", s.SelectedItem())
	}
}

func TestSelectionClamp(t *testing.T) {
	tests := []struct {
		name  string
		query string
		moves int
	}{
		{"no matches", "zzz", 5},
		{"one match", "term", 5},
		{"unfiltered", "", 50},
		{"exact", "@fox", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newState("Firefox", "Chromium", "Terminal", "Files")
			for i := 0; i < tt.moves; i++ {
				s.NextItem()
			}
			s.InsertText(tt.query)
			s.RecomputeFilter()

			n := s.FilteredLen()
			if s.SelectedItem() >= max(1, n) {
				t.Errorf("SelectedItem() = %d with %d rows", s.SelectedItem(), n)
			}
			if s.SkipOffset() > s.SelectedItem() {
				t.Errorf("SkipOffset() = %d > SelectedItem() = %d", s.SkipOffset(), s.SelectedItem())
			}
		})
	}
}

func TestNavigationSaturates(t *testing.T) {
	s, _ := newState("a", "b", "c")
	s.PrevItem()
	if s.SelectedItem() != 0 {
		t.Errorf("PrevItem at top: %d", s.SelectedItem())
	}
	for i := 0; i < 10; i++ {
		s.NextItem()
	}
	if s.SelectedItem() != 2 {
		t.Errorf("NextItem past end: %d", s.SelectedItem())
	}
	s.PageUp(10)
	if s.SelectedItem() != 0 {
		t.Errorf("PageUp: %d", s.SelectedItem())
	}
	s.PageDown(2)
	if s.SelectedItem() != 2 {
		t.Errorf("PageDown: %d", s.SelectedItem())
	}

	empty, _ := newState()
	empty.NextItem()
	empty.PrevItem()
	empty.RecomputeFilter()
	if empty.SelectedItem() != 0 {
		t.Errorf("empty list: SelectedItem() = %d", empty.SelectedItem())
	}
}

func TestNavigationPastWindowEdge(t *testing.T) {
	s, _ := newState("a", "b", "c", "d", "e")
	skips := []int{}
	frame(s, 2)
	skips = append(skips, s.SkipOffset())
	for i := 0; i < 4; i++ {
		s.NextItem()
		frame(s, 2)
		skips = append(skips, s.SkipOffset())
	}
	if want := []int{0, 0, 1, 2, 3}; !reflect.DeepEqual(skips, want) {
		t.Errorf("skip offsets = %v, want %v", skips, want)
	}
}

func TestSubitemNavigation(t *testing.T) {
	s, src := newState("Firefox", "Files")
	src.actions[0] = []string{"New Window", "New Private Window"}

	s.PrevSubitem()
	if s.SelectedSubitem() != 0 {
		t.Fatalf("PrevSubitem at 0: %d", s.SelectedSubitem())
	}
	for i := 0; i < 5; i++ {
		s.NextSubitem()
	}
	if s.SelectedSubitem() != 2 {
		t.Errorf("NextSubitem clamp: %d, want 2", s.SelectedSubitem())
	}
	if !s.HasSubnameRow(false) {
		t.Error("HasSubnameRow(false) = false with an action selected")
	}
	if s.HasSubnameRow(true) {
		t.Error("HasSubnameRow(true) must be false when actions are hidden")
	}

	rows := frame(s, 10)
	if rows[0].Subname != "New Private Window" {
		t.Errorf("selected row subname = %q", rows[0].Subname)
	}

	s.NextItem()
	if s.SelectedSubitem() != 0 {
		t.Errorf("vertical move kept subitem %d", s.SelectedSubitem())
	}
	s.NextSubitem()
	if s.SelectedSubitem() != 0 {
		t.Errorf("candidate without actions: subitem %d", s.SelectedSubitem())
	}
}

func TestSelect(t *testing.T) {
	s, _ := newState("a", "b", "c")
	if !s.Select(2) || s.SelectedItem() != 2 {
		t.Errorf("Select(2): SelectedItem() = %d", s.SelectedItem())
	}
	if s.Select(3) {
		t.Error("Select(3) should fail")
	}
	if s.SelectedItem() != 2 {
		t.Errorf("failed Select moved selection to %d", s.SelectedItem())
	}
}

func TestRemoveLastWord(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"firefox", ""},
		{"foo bar", "foo "},
		{"foo bar  ", "foo "},
		{"foo-bar!!", "foo-"},
		{"   ", ""},
		{"héllo wörld", "héllo "},
	}
	for _, tt := range tests {
		s, _ := newState()
		s.SetInput(tt.in)
		s.RemoveLastWord()
		if got := s.RawInput(); got != tt.want {
			t.Errorf("RemoveLastWord(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRemoveLastChar(t *testing.T) {
	s, _ := newState()
	s.InsertText("añ")
	s.RemoveLastChar()
	if s.RawInput() != "a" {
		t.Errorf("RemoveLastChar = %q, want %q", s.RawInput(), "a")
	}
	s.RemoveLastChar()
	s.RemoveLastChar()
	if s.RawInput() != "" {
		t.Errorf("RemoveLastChar on empty = %q", s.RawInput())
	}
}

func TestInputIsReparsed(t *testing.T) {
	s, _ := newState("Firefox")
	s.InsertText("@fire!!--private")
	p := s.Parsed()
	if !p.ExactPrefix || p.SearchString != "fire" || p.Args != "--private" {
		t.Errorf("Parsed() = %+v", p)
	}
	s.RecomputeFilter()
	if s.FilteredLen() != 1 {
		t.Errorf("FilteredLen() = %d, want 1", s.FilteredLen())
	}
}

func TestResolveAndExecute(t *testing.T) {
	s, src := newState("Firefox", "Chromium", "Terminal")
	s.InsertText("term!!-e htop")
	s.RecomputeFilter()

	if err := s.ResolveAndExecute(context.Background(), false, nil); err != nil {
		t.Fatalf("ResolveAndExecute: %v", err)
	}
	got := src.executed[0]
	if !got.Valid || got.Index != 2 || got.Sub != 0 {
		t.Errorf("Selection = %+v, want Terminal", got)
	}
	if ec := src.contexts[0]; ec.Input.Args != "-e htop" || ec.Fork {
		t.Errorf("ExecContext = %+v", ec)
	}
}

func TestResolveAndExecuteFallsBackToText(t *testing.T) {
	s, src := newState("Firefox")
	s.InsertText("xterm")
	s.RecomputeFilter()

	if err := s.ResolveAndExecute(context.Background(), true, &strings.Builder{}); err != nil {
		t.Fatalf("ResolveAndExecute: %v", err)
	}
	if src.executed[0].Valid {
		t.Error("expected an invalid selection for an empty view")
	}
	if ec := src.contexts[0]; ec.Input.SearchString != "xterm" || !ec.Fork {
		t.Errorf("ExecContext = %+v", ec)
	}
}

func TestFailedExecuteKeepsState(t *testing.T) {
	s, src := newState("Firefox", "Chromium", "Terminal")
	src.actions[1] = []string{"Incognito"}
	src.execErr = errors.New("exec: not found")

	s.InsertText("i")
	s.RecomputeFilter()
	s.NextItem()
	s.NextSubitem()
	frame(s, 10)

	before := struct {
		raw                 string
		item, sub, skip, fl int
	}{s.RawInput(), s.SelectedItem(), s.SelectedSubitem(), s.SkipOffset(), s.FilteredLen()}

	if err := s.ResolveAndExecute(context.Background(), false, nil); err == nil {
		t.Fatal("expected error")
	}

	after := struct {
		raw                 string
		item, sub, skip, fl int
	}{s.RawInput(), s.SelectedItem(), s.SelectedSubitem(), s.SkipOffset(), s.FilteredLen()}
	if before != after {
		t.Errorf("state changed by failed execute: %+v -> %+v", before, after)
	}
}

func TestSetAlgorithm(t *testing.T) {
	s, _ := newState("Firefox", "Chromium", "Terminal")
	s.SetAlgorithm(filter.AlgorithmSimple)
	if s.dirty {
		t.Error("SetAlgorithm with empty input: expected no re-filter")
	}

	s.InsertText("fi")
	frame(s, 10)
	s.SetAlgorithm(filter.AlgorithmFZF)
	if !s.dirty {
		t.Error("SetAlgorithm with a query: expected re-filter")
	}
	rows := frame(s, 10)
	if got := rowNames(rows); !reflect.DeepEqual(got, []string{"Firefox"}) {
		t.Errorf("rows after SetAlgorithm = %v", got)
	}
}

func TestArgsEditKeepsView(t *testing.T) {
	names := make([]string, 20)
	for i := range names {
		names[i] = "app" + string(rune('a'+i))
	}
	s, _ := newState(names...)
	for i := 0; i < 8; i++ {
		s.NextItem()
	}
	frame(s, 3)
	if s.SkipOffset() != 6 {
		t.Fatalf("SkipOffset() = %d, want 6", s.SkipOffset())
	}

	s.InsertText("!!")
	if s.dirty {
		t.Fatal(`InsertText("!!"): args separator marked the filter dirty`)
	}
	for _, r := range "--verbose #A=1 ~/tmp" {
		s.InsertText(string(r))
		if s.dirty {
			t.Fatalf("InsertText(%q): args edit marked the filter dirty", r)
		}
		frame(s, 3)
		if s.SkipOffset() != 6 || s.SelectedItem() != 8 {
			t.Fatalf("after %q: skip=%d selected=%d, want 6 and 8", s.RawInput(), s.SkipOffset(), s.SelectedItem())
		}
	}
	if p := s.Parsed(); p.Args != "--verbose " {
		t.Errorf("Parsed().Args = %q", p.Args)
	}
}

func TestQueryChangeKeepsValidSkip(t *testing.T) {
	names := make([]string, 20)
	for i := range names {
		names[i] = "app" + string(rune('a'+i))
	}
	s, _ := newState(names...)
	for i := 0; i < 8; i++ {
		s.NextItem()
	}
	frame(s, 3)

	// Every candidate still matches, so the selection and offset stay put.
	s.InsertText("app")
	frame(s, 3)
	if s.FilteredLen() != 20 {
		t.Fatalf("FilteredLen() = %d, want 20", s.FilteredLen())
	}
	if s.SkipOffset() != 6 || s.SelectedItem() != 8 {
		t.Errorf("after query: skip=%d selected=%d, want 6 and 8", s.SkipOffset(), s.SelectedItem())
	}

	// A narrower view clamps both.
	s.SetInput("appb")
	frame(s, 3)
	if s.SelectedItem() != 0 || s.SkipOffset() != 0 {
		t.Errorf("after narrowing: skip=%d selected=%d, want 0 and 0", s.SkipOffset(), s.SelectedItem())
	}
}
