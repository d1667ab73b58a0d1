// Package icon resolves freedesktop icon names to image files and loads
// them, scaled to the list's icon size, in the background.
package icon

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/justyntemme/quiver/internal/debug"
)

const (
	fallbackTheme = "hicolor"
	maxInherit    = 8
)

// extensions are tried in order. SVG is not decodable here.
var extensions = []string{".png", ".webp", ".bmp"}

// Finder maps icon names to files.
type Finder struct {
	roots   []string
	pixmaps []string
	themes  []string
	size    int

	exists func(string) bool
}

// NewFinder builds a Finder over the given icon theme roots (e.g.
// ~/.local/share/icons, /usr/share/icons) and pixmap dirs. theme may be
// empty for hicolor only.
func NewFinder(roots, pixmaps []string, theme string, size int) *Finder {
	f := &Finder{
		roots:   roots,
		pixmaps: pixmaps,
		size:    size,
		exists:  fileExists,
	}
	f.themes = f.themeChain(theme)
	debug.Log(debug.ICON, "Finder: themes=%v size=%d roots=%v", f.themes, size, roots)
	return f
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// themeChain follows Inherits= in index.theme, ending with hicolor.
func (f *Finder) themeChain(theme string) []string {
	var chain []string
	seen := map[string]bool{}
	queue := []string{}
	if theme != "" {
		queue = append(queue, theme)
	}
	for len(queue) > 0 && len(chain) < maxInherit {
		t := queue[0]
		queue = queue[1:]
		if seen[t] {
			continue
		}
		seen[t] = true
		chain = append(chain, t)
		queue = append(queue, f.inherits(t)...)
	}
	if !seen[fallbackTheme] {
		chain = append(chain, fallbackTheme)
	}
	return chain
}

func (f *Finder) inherits(theme string) []string {
	for _, root := range f.roots {
		p := filepath.Join(root, theme, "index.theme")
		if !fileExists(p) {
			continue
		}
		cfg, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true, SkipUnrecognizableLines: true}, p)
		if err != nil {
			debug.Log(debug.ICON, "index.theme %s: %v", p, err)
			return nil
		}
		v := cfg.Section("Icon Theme").Key("Inherits").String()
		var out []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// sizes returns the directory sizes to try, best first.
func (f *Finder) sizes() []int {
	out := []int{f.size, f.size + 8, f.size + 16, 512}
	if f.size > 8 {
		out = append(out, f.size-8)
	}
	return out
}

// Lookup returns the file for name. Absolute names are used as is.
func (f *Finder) Lookup(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	if filepath.IsAbs(name) {
		return name, f.exists(name)
	}
	if p, ok := f.lookupThemed(name, f.sizes()); ok {
		return p, true
	}
	if p, ok := f.lookupThemed(name+"-symbolic", []int{f.size}); ok {
		return p, true
	}
	for _, dir := range f.pixmaps {
		for _, ext := range extensions {
			if p := filepath.Join(dir, name+ext); f.exists(p) {
				return p, true
			}
		}
	}
	debug.Log(debug.ICON, "Lookup %q: not found", name)
	return "", false
}

func (f *Finder) lookupThemed(name string, sizes []int) (string, bool) {
	for _, size := range sizes {
		dir := strconv.Itoa(size) + "x" + strconv.Itoa(size)
		for _, theme := range f.themes {
			for _, root := range f.roots {
				for _, ext := range extensions {
					p := filepath.Join(root, theme, dir, "apps", name+ext)
					if f.exists(p) {
						return p, true
					}
				}
			}
		}
	}
	return "", false
}
