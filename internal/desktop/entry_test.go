package desktop

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	qfs "github.com/justyntemme/quiver/internal/fs"
)

const firefoxEntry = `[Desktop Entry]
Version=1.0
Type=Application
Name=Firefox
Name[de]=Firefox Webbrowser
Keywords=Internet;WWW;Browser;
Exec=/usr/lib/firefox/firefox %u
Icon=firefox
Terminal=false
Actions=new-window;new-private-window;

# comment line
[Desktop Action new-private-window]
Name=New Private Window
Exec=/usr/lib/firefox/firefox --private-window %u

[Desktop Action new-window]
Name=New Window
Name[de]=Neues Fenster
Exec=/usr/lib/firefox/firefox --new-window %u
`

func TestParse(t *testing.T) {
	e, err := Parse([]byte(firefoxEntry), "firefox.desktop", Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if e.Name != "Firefox" || e.Icon != "firefox" || e.Terminal {
		t.Errorf("Parse: unexpected entry %+v", e)
	}
	if want := []string{"Internet", "WWW", "Browser"}; !reflect.DeepEqual(e.Keywords, want) {
		t.Errorf("Keywords: expected %v, got %v", want, e.Keywords)
	}
	if got := e.MatchText(); got != "Firefox Internet WWW Browser" {
		t.Errorf("MatchText: got %q", got)
	}

	var names []string
	for _, a := range e.Actions {
		names = append(names, a.Name)
	}
	if want := []string{"New Window", "New Private Window"}; !reflect.DeepEqual(names, want) {
		t.Errorf("Actions: expected %v, got %v", want, names)
	}

	if _, ok := e.Subname(0); ok {
		t.Error("Subname(0) should not exist")
	}
	if s, ok := e.Subname(2); !ok || s != "New Private Window" {
		t.Errorf("Subname(2) = %q, %v", s, ok)
	}
	if _, ok := e.Subname(3); ok {
		t.Error("Subname(3) should not exist")
	}
}

func TestParseLocalized(t *testing.T) {
	e, err := Parse([]byte(firefoxEntry), "firefox.desktop", Options{Locale: Locale{Lang: "de", Country: "DE"}})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if e.Name != "Firefox Webbrowser" {
		t.Errorf("Name: got %q", e.Name)
	}
	if s, _ := e.Subname(1); s != "Neues Fenster" {
		t.Errorf("Subname(1): got %q", s)
	}
	if s, _ := e.Subname(2); s != "New Private Window" {
		t.Errorf("Subname(2) without translation: got %q", s)
	}
}

func TestParseHidden(t *testing.T) {
	testCases := []struct {
		name     string
		data     string
		desktops []string
		expected error
	}{
		{"no display", "[Desktop Entry]\nName=a\nExec=a\nNoDisplay=true\n", nil, ErrHidden},
		{"hidden", "[Desktop Entry]\nName=a\nExec=a\nHidden=true\n", nil, ErrHidden},
		{"link type", "[Desktop Entry]\nType=Link\nName=a\nURL=http://x\n", nil, ErrHidden},
		{"only show in other", "[Desktop Entry]\nName=a\nExec=a\nOnlyShowIn=KDE;\n", []string{"GNOME"}, ErrHidden},
		{"only show in match", "[Desktop Entry]\nName=a\nExec=a\nOnlyShowIn=KDE;\n", []string{"KDE"}, nil},
		{"not show in", "[Desktop Entry]\nName=a\nExec=a\nNotShowIn=sway;\n", []string{"sway"}, ErrHidden},
		{"missing exec", "[Desktop Entry]\nName=a\n", nil, ErrIncomplete},
		{"no main section", "[Other]\nName=a\n", nil, ErrIncomplete},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data), "x.desktop", Options{Desktops: tc.desktops})
			if !errors.Is(err, tc.expected) {
				t.Errorf("Parse: expected %v, got %v", tc.expected, err)
			}
		})
	}
}

func TestExecArgv(t *testing.T) {
	e := &Entry{
		Name: "Viewer",
		Path: "/usr/share/applications/viewer.desktop",
		Icon: "viewer",
		Exec: `viewer --title=%c %i "a b" 100%% %F --cfg=%k`,
		Actions: []Action{
			{Name: "Edit", Exec: "viewer --edit %U"},
		},
	}

	got, err := e.ExecArgv(0)
	if err != nil {
		t.Fatalf("ExecArgv: %v", err)
	}
	expected := []string{
		"viewer", "--title=Viewer", "--icon", "viewer", "a b", "100%",
		"--cfg=/usr/share/applications/viewer.desktop",
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("ExecArgv(0): expected %q, got %q", expected, got)
	}

	got, _ = e.ExecArgv(1)
	if want := []string{"viewer", "--edit"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ExecArgv(1): expected %q, got %q", want, got)
	}

	e.Exec = `broken "quote`
	if _, err := e.ExecArgv(0); err == nil {
		t.Error("ExecArgv with unbalanced quote: expected error")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b.desktop":      "[Desktop Entry]\nName=Beta\nExec=beta\n",
		"a.desktop":      "[Desktop Entry]\nName=Alpha\nExec=alpha\n",
		"a2.desktop":     "[Desktop Entry]\nName=Alpha\nExec=alpha2\n",
		"hidden.desktop": "[Desktop Entry]\nName=Hidden\nExec=h\nNoDisplay=true\n",
		"broken.desktop": "[Desktop Entry]\nName=Broken\n",
	}
	var dfs []qfs.DesktopFile
	for _, id := range []string{"a.desktop", "a2.desktop", "b.desktop", "broken.desktop", "hidden.desktop"} {
		p := filepath.Join(dir, id)
		if err := os.WriteFile(p, []byte(files[id]), 0o644); err != nil {
			t.Fatal(err)
		}
		dfs = append(dfs, qfs.DesktopFile{ID: id, Path: p})
	}

	entries := Load(context.Background(), dfs, Options{})

	var got []string
	for _, e := range entries {
		got = append(got, e.ID)
	}
	if want := []string{"a.desktop", "b.desktop"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Load: expected %v, got %v", want, got)
	}
}

func TestSplitList(t *testing.T) {
	testCases := []struct {
		in       string
		expected []string
	}{
		{"", nil},
		{"a;b;", []string{"a", "b"}},
		{`a\;b;c`, []string{"a;b", "c"}},
		{";;a", []string{"a"}},
	}
	for _, tc := range testCases {
		if got := splitList(tc.in); !reflect.DeepEqual(got, tc.expected) {
			t.Errorf("splitList(%q): expected %v, got %v", tc.in, tc.expected, got)
		}
	}
}
