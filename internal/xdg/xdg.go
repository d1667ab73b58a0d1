// Package xdg resolves the XDG base directories once and hands them out as a
// value, so the components that touch the filesystem receive their search
// paths explicitly.
package xdg

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppName names the per-application subdirectories.
const AppName = "quiver"

// Dirs is a snapshot of the XDG base directories.
type Dirs struct {
	Home       string
	DataHome   string
	DataDirs   []string
	ConfigHome string
	CacheHome  string
}

// New reads the base directories from the environment.
func New() Dirs {
	xdg.Reload()
	return Dirs{
		Home:       xdg.Home,
		DataHome:   xdg.DataHome,
		DataDirs:   append([]string(nil), xdg.DataDirs...),
		ConfigHome: xdg.ConfigHome,
		CacheHome:  xdg.CacheHome,
	}
}

// DataSearchPath is DataHome followed by DataDirs, in priority order.
func (d Dirs) DataSearchPath() []string {
	out := make([]string, 0, len(d.DataDirs)+1)
	if d.DataHome != "" {
		out = append(out, d.DataHome)
	}
	return append(out, d.DataDirs...)
}

// ApplicationDirs lists the directories holding .desktop files.
func (d Dirs) ApplicationDirs() []string {
	var out []string
	for _, dir := range d.DataSearchPath() {
		out = append(out, filepath.Join(dir, "applications"))
	}
	return out
}

// IconDirs lists icon theme roots, most specific first.
func (d Dirs) IconDirs() []string {
	var out []string
	if d.DataHome != "" {
		out = append(out, filepath.Join(d.DataHome, "icons"))
	}
	if d.Home != "" {
		out = append(out, filepath.Join(d.Home, ".icons"))
	}
	for _, dir := range d.DataDirs {
		out = append(out, filepath.Join(dir, "icons"))
	}
	return out
}

// PixmapDirs lists the legacy unthemed icon directories.
func (d Dirs) PixmapDirs() []string {
	var out []string
	for _, dir := range d.DataDirs {
		out = append(out, filepath.Join(dir, "pixmaps"))
	}
	return out
}

// ConfigFile returns the default config path.
func (d Dirs) ConfigFile() string {
	return filepath.Join(d.ConfigHome, AppName, "config.json")
}

// UsageDB returns the path of the usage database.
func (d Dirs) UsageDB() string {
	return filepath.Join(d.CacheHome, AppName, "usage.db")
}
