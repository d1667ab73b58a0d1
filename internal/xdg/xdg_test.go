package xdg

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestNewReadsEnvironment(t *testing.T) {
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("XDG_DATA_DIRS", "/opt/share:/usr/share")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))

	d := New()

	wantApps := []string{
		filepath.Join(root, "data", "applications"),
		"/opt/share/applications",
		"/usr/share/applications",
	}
	if got := d.ApplicationDirs(); !reflect.DeepEqual(got, wantApps) {
		t.Errorf("ApplicationDirs() = %v, want %v", got, wantApps)
	}
	if got, want := d.ConfigFile(), filepath.Join(root, "config", "quiver", "config.json"); got != want {
		t.Errorf("ConfigFile() = %q, want %q", got, want)
	}
	if got, want := d.UsageDB(), filepath.Join(root, "cache", "quiver", "usage.db"); got != want {
		t.Errorf("UsageDB() = %q, want %q", got, want)
	}
}

func TestIconDirsOrder(t *testing.T) {
	d := Dirs{Home: "/home/u", DataHome: "/home/u/.local/share", DataDirs: []string{"/usr/share"}}
	want := []string{"/home/u/.local/share/icons", "/home/u/.icons", "/usr/share/icons"}
	if got := d.IconDirs(); !reflect.DeepEqual(got, want) {
		t.Errorf("IconDirs() = %v, want %v", got, want)
	}
	if got := d.PixmapDirs(); !reflect.DeepEqual(got, []string{"/usr/share/pixmaps"}) {
		t.Errorf("PixmapDirs() = %v", got)
	}
}
