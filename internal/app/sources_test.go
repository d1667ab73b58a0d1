package app

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/justyntemme/quiver/internal/launch"
	"github.com/justyntemme/quiver/internal/xdg"
)

func mkfile(t *testing.T, path, data string, perm os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(data), perm); err != nil {
		t.Fatal(err)
	}
}

func names(t *testing.T, n int, at func(int) string) []string {
	t.Helper()
	out := make([]string, n)
	for i := range out {
		out[i] = at(i)
	}
	return out
}

func TestNewSourceApps(t *testing.T) {
	data := t.TempDir()
	mkfile(t, filepath.Join(data, "applications", "foot.desktop"),
		"[Desktop Entry]\nType=Application\nName=Foot\nExec=foot\n", 0o644)
	mkfile(t, filepath.Join(data, "applications", "hidden.desktop"),
		"[Desktop Entry]\nType=Application\nName=Hidden\nExec=x\nNoDisplay=true\n", 0o644)
	mkfile(t, filepath.Join(data, "applications", "kde", "editor.desktop"),
		"[Desktop Entry]\nType=Application\nName=Editor\nKeywords=text;code;\nExec=kate %U\n", 0o644)

	src, err := NewSource(context.Background(), SourceOptions{
		Mode:     ModeApps,
		Dirs:     xdg.Dirs{DataHome: data},
		Launcher: launch.New(nil),
	})
	if err != nil {
		t.Fatalf("NewSource(apps): %v", err)
	}
	got := names(t, src.Len(), func(i int) string { return src.Entry(i, 0).Name })
	if want := []string{"Editor", "Foot"}; !reflect.DeepEqual(got, want) {
		t.Errorf("NewSource(apps): expected %v, got %v", want, got)
	}
	if s := src.String(0); !strings.Contains(s, "code") {
		t.Errorf("String(0): expected keywords in matchable text, got %q", s)
	}
}

func TestNewSourceBins(t *testing.T) {
	dir := t.TempDir()
	mkfile(t, filepath.Join(dir, "htop"), "#!/bin/sh\n", 0o755)
	mkfile(t, filepath.Join(dir, "README"), "not executable", 0o644)
	t.Setenv("PATH", dir)

	src, err := NewSource(context.Background(), SourceOptions{Mode: ModeBins, Launcher: launch.New(nil)})
	if err != nil {
		t.Fatalf("NewSource(bins): %v", err)
	}
	got := names(t, src.Len(), src.String)
	if want := []string{"htop"}; !reflect.DeepEqual(got, want) {
		t.Errorf("NewSource(bins): expected %v, got %v", want, got)
	}
}

func TestNewSourceDialogAndLines(t *testing.T) {
	src, err := NewSource(context.Background(), SourceOptions{
		Mode:  ModeDialog,
		Stdin: strings.NewReader("one\ntwo\n"),
	})
	if err != nil {
		t.Fatalf("NewSource(dialog): %v", err)
	}
	if got := names(t, src.Len(), src.String); !reflect.DeepEqual(got, []string{"one", "two"}) {
		t.Errorf("NewSource(dialog): expected [one two], got %v", got)
	}

	path := filepath.Join(t.TempDir(), "cmds")
	mkfile(t, path, "# comment\nfoot -e htop\n\nfirefox\n", 0o644)
	src, err = NewSource(context.Background(), SourceOptions{Mode: ModeLines, LinesFile: path, Launcher: launch.New(nil)})
	if err != nil {
		t.Fatalf("NewSource(lines): %v", err)
	}
	if got := names(t, src.Len(), src.String); !reflect.DeepEqual(got, []string{"foot -e htop", "firefox"}) {
		t.Errorf("NewSource(lines): expected two commands, got %v", got)
	}
}

func TestNewSourceErrors(t *testing.T) {
	tests := []SourceOptions{
		{Mode: "nope"},
		{Mode: ModeLines},
		{Mode: ModeLines, LinesFile: filepath.Join(t.TempDir(), "missing")},
	}
	for _, opts := range tests {
		if _, err := NewSource(context.Background(), opts); err == nil {
			t.Errorf("NewSource(%+v): expected error", opts)
		}
	}
}

func TestNewLauncher(t *testing.T) {
	t.Setenv("TERMINAL", "")
	detect := func() []string { return []string{"xterm", "-e"} }

	tests := []struct {
		term     string
		env      string
		want     []string
		explicit bool
	}{
		{"foot", "", []string{"foot"}, true},
		{"alacritty -e", "kitty", []string{"alacritty", "-e"}, true},
		{"", "kitty", []string{"kitty", "-e"}, true},
		{"", "", []string{"xterm", "-e"}, false},
	}
	for _, tt := range tests {
		t.Setenv("TERMINAL", tt.env)
		l, explicit, err := NewLauncher(tt.term, detect)
		if err != nil {
			t.Fatalf("NewLauncher(%q): %v", tt.term, err)
		}
		if !reflect.DeepEqual(l.Terminal(), tt.want) || explicit != tt.explicit {
			t.Errorf("NewLauncher(%q) with TERMINAL=%q: expected %v/%v, got %v/%v",
				tt.term, tt.env, tt.want, tt.explicit, l.Terminal(), explicit)
		}
	}

	if _, _, err := NewLauncher(`"unterminated`, detect); err == nil {
		t.Errorf("NewLauncher with bad quoting: expected error")
	}
}
