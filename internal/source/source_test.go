package source

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/justyntemme/quiver/internal/desktop"
	qfs "github.com/justyntemme/quiver/internal/fs"
	"github.com/justyntemme/quiver/internal/input"
	"github.com/justyntemme/quiver/internal/launch"
)

type fakeStarter struct {
	reqs []launch.Request
	err  error
}

func (f *fakeStarter) Start(_ context.Context, req launch.Request) error {
	f.reqs = append(f.reqs, req)
	return f.err
}

type fakeUsage struct {
	counts map[string]map[string]int
}

func newFakeUsage() *fakeUsage {
	return &fakeUsage{counts: map[string]map[string]int{}}
}

func (f *fakeUsage) UsageCounts(mode string) (map[string]int, error) {
	return f.counts[mode], nil
}

func (f *fakeUsage) IncrementUsage(mode, key string) error {
	if f.counts[mode] == nil {
		f.counts[mode] = map[string]int{}
	}
	f.counts[mode][key]++
	return nil
}

type fakeIcons map[string]image.Image

func (f fakeIcons) Get(name string) image.Image { return f[name] }

func testEntries() []*desktop.Entry {
	return []*desktop.Entry{
		{ID: "chromium.desktop", Name: "Chromium", Exec: "chromium %U", Icon: "chromium"},
		{ID: "firefox.desktop", Name: "Firefox", Exec: "firefox %u", Icon: "firefox",
			Keywords: []string{"browser"},
			Actions:  []desktop.Action{{Name: "New Window", Exec: "firefox --new-window", Icon: "firefox-nw"}}},
		{ID: "htop.desktop", Name: "Htop", Exec: "htop", Terminal: true, WorkDir: "/tmp"},
	}
}

func names(src Source) []string {
	var out []string
	for i := 0; i < src.Len(); i++ {
		out = append(out, src.Entry(i, 0).Name)
	}
	return out
}

func TestAppsRankedByUsage(t *testing.T) {
	usage := newFakeUsage()
	usage.counts["apps"] = map[string]int{"htop.desktop": 5, "firefox.desktop": 2}

	m := NewApps(testEntries(), usage, &fakeStarter{}, nil, nil)
	if got, want := names(m), []string{"Htop", "Firefox", "Chromium"}; !reflect.DeepEqual(got, want) {
		t.Errorf("order: expected %v, got %v", want, got)
	}
}

func TestAppsEntry(t *testing.T) {
	fallback := image.NewRGBA(image.Rect(0, 0, 1, 1))
	firefox := image.NewRGBA(image.Rect(0, 0, 2, 2))
	nw := image.NewRGBA(image.Rect(0, 0, 3, 3))
	m := NewApps(testEntries(), nil, &fakeStarter{}, fakeIcons{"firefox": firefox, "firefox-nw": nw}, fallback)

	if got := m.String(1); got != "Firefox browser" {
		t.Errorf("String(1): got %q", got)
	}
	if m.SubentryCount(1) != 1 || m.SubentryCount(0) != 0 {
		t.Errorf("SubentryCount: got %d, %d", m.SubentryCount(1), m.SubentryCount(0))
	}

	e := m.Entry(1, 0)
	if e.HasSubname || e.Icon != firefox {
		t.Errorf("Entry(1, 0) = %+v", e)
	}
	e = m.Entry(1, 1)
	if !e.HasSubname || e.Subname != "New Window" || e.Icon != nw {
		t.Errorf("Entry(1, 1) = %+v", e)
	}
	if e := m.Entry(0, 0); e.Icon != fallback {
		t.Errorf("Entry without loaded icon should use the fallback")
	}
}

func TestAppsExecute(t *testing.T) {
	usage := newFakeUsage()
	starter := &fakeStarter{}
	m := NewApps(testEntries(), usage, starter, nil, nil)

	in := input.Parse("fire!!--private")
	if err := m.Execute(context.Background(), Selection{Index: 1, Valid: true, Sub: 1}, ExecContext{Input: in}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	req := starter.reqs[0]
	if want := []string{"firefox", "--new-window"}; !reflect.DeepEqual(req.Argv, want) {
		t.Errorf("Argv: expected %q, got %q", want, req.Argv)
	}
	if req.Input.Args != "--private" {
		t.Errorf("Input not forwarded: %+v", req.Input)
	}
	if usage.counts["apps"]["firefox.desktop"] != 1 {
		t.Errorf("usage not recorded: %v", usage.counts)
	}

	if err := m.Execute(context.Background(), Selection{Index: 2, Valid: true}, ExecContext{}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if req := starter.reqs[1]; !req.Terminal || req.Dir != "/tmp" {
		t.Errorf("terminal entry request = %+v", req)
	}
}

func TestAppsExecuteFailureNotCounted(t *testing.T) {
	usage := newFakeUsage()
	starter := &fakeStarter{err: errors.New("boom")}
	m := NewApps(testEntries(), usage, starter, nil, nil)

	if err := m.Execute(context.Background(), Selection{Index: 0, Valid: true}, ExecContext{}); err == nil {
		t.Fatal("expected error")
	}
	if len(usage.counts["apps"]) != 0 {
		t.Errorf("failed launch recorded usage: %v", usage.counts)
	}
}

func TestAppsExecuteFreeText(t *testing.T) {
	starter := &fakeStarter{}
	m := NewApps(testEntries(), nil, starter, nil, nil)

	err := m.Execute(context.Background(), Selection{}, ExecContext{Input: input.Parse(`notify-send "hi there"`)})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if want := []string{"notify-send", "hi there"}; !reflect.DeepEqual(starter.reqs[0].Argv, want) {
		t.Errorf("Argv: expected %q, got %q", want, starter.reqs[0].Argv)
	}

	err = m.Execute(context.Background(), Selection{}, ExecContext{})
	if !errors.Is(err, launch.ErrEmptyCommand) {
		t.Errorf("empty free text: expected ErrEmptyCommand, got %v", err)
	}
}

func TestBins(t *testing.T) {
	usage := newFakeUsage()
	usage.counts["bins"] = map[string]int{"/bin/zsh": 3}
	starter := &fakeStarter{}

	m := NewBins([]qfs.Executable{
		{Name: "bash", Path: "/usr/bin/bash"},
		{Name: "bash", Path: "/bin/bash"},
		{Name: "zsh", Path: "/bin/zsh"},
	}, usage, starter, true)

	expected := []string{"zsh", "bash (/usr/bin/bash)", "bash (/bin/bash)"}
	if got := names(m); !reflect.DeepEqual(got, expected) {
		t.Errorf("names: expected %v, got %v", expected, got)
	}
	if m.String(1) != "bash" {
		t.Errorf("String(1): got %q", m.String(1))
	}

	if err := m.Execute(context.Background(), Selection{Index: 2, Valid: true}, ExecContext{}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if req := starter.reqs[0]; !reflect.DeepEqual(req.Argv, []string{"/bin/bash"}) || !req.Terminal {
		t.Errorf("request = %+v", req)
	}
	if usage.counts["bins"]["/bin/bash"] != 1 {
		t.Errorf("usage: %v", usage.counts)
	}

	if err := m.Execute(context.Background(), Selection{}, ExecContext{Input: input.Parse("ls -la")}); err != nil {
		t.Fatalf("Execute free text: %v", err)
	}
	if got := starter.reqs[1].Argv; !reflect.DeepEqual(got, []string{"ls", "-la"}) {
		t.Errorf("free text argv: got %q", got)
	}
}

func TestDialog(t *testing.T) {
	m, err := NewDialog(strings.NewReader("one\r\ntwo\nthree"))
	if err != nil {
		t.Fatalf("NewDialog: %v", err)
	}
	if got := names(m); !reflect.DeepEqual(got, []string{"one", "two", "three"}) {
		t.Errorf("lines: got %v", got)
	}

	var out strings.Builder
	if err := m.Execute(context.Background(), Selection{Index: 1, Valid: true}, ExecContext{Stdout: &out}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if err := m.Execute(context.Background(), Selection{}, ExecContext{Input: input.Parse("raw!!text"), Stdout: &out}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := out.String(); got != "two\nraw!!text\n" {
		t.Errorf("output: got %q", got)
	}
}

func TestTextLines(t *testing.T) {
	p := filepath.Join(t.TempDir(), "cmds")
	if err := os.WriteFile(p, []byte("# comment\nsystemctl suspend\n\n  loginctl lock-session  \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	starter := &fakeStarter{}
	m, err := NewTextLines(p, starter)
	if err != nil {
		t.Fatalf("NewTextLines: %v", err)
	}
	if got := names(m); !reflect.DeepEqual(got, []string{"systemctl suspend", "loginctl lock-session"}) {
		t.Errorf("lines: got %v", got)
	}

	if err := m.Execute(context.Background(), Selection{Index: 0, Valid: true}, ExecContext{}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := starter.reqs[0].Argv; !reflect.DeepEqual(got, []string{"systemctl", "suspend"}) {
		t.Errorf("argv: got %q", got)
	}

	if _, err := NewTextLines(filepath.Join(t.TempDir(), "missing"), starter); err == nil {
		t.Error("NewTextLines(missing): expected error")
	}
}
