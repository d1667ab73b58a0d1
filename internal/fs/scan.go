// Package fs scans the filesystem for launchable things: executables in the
// PATH directories and .desktop files under the XDG application dirs.
package fs

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"

	"github.com/justyntemme/quiver/internal/debug"
)

// DefaultPath is used when $PATH is unset.
const DefaultPath = "/usr/bin"

// Executable is a regular file with an execute bit set.
type Executable struct {
	Name string
	Path string
}

// DesktopFile is a .desktop file found under an applications directory.
type DesktopFile struct {
	// ID is the desktop file ID: the path relative to the applications
	// directory with "/" replaced by "-".
	ID   string
	Path string
	// Priority is the index of the search directory it came from. Lower
	// wins when two directories provide the same ID.
	Priority int
}

// PathDirs splits a $PATH-style value, falling back to DefaultPath.
func PathDirs(pathEnv string) []string {
	var dirs []string
	for _, d := range filepath.SplitList(pathEnv) {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	if len(dirs) == 0 {
		return []string{DefaultPath}
	}
	return dirs
}

// ListExecutables returns the executables directly inside dirs, in
// directory order and by name within a directory. Paths seen twice are
// reported once.
func ListExecutables(ctx context.Context, dirs []string) []Executable {
	var out []Executable
	seen := make(map[string]bool)

	for _, dir := range dirs {
		if ctx.Err() != nil {
			break
		}
		found := listExecutablesIn(ctx, dir)
		for _, e := range found {
			if seen[e.Path] {
				continue
			}
			seen[e.Path] = true
			out = append(out, e)
		}
	}
	debug.Log(debug.SOURCE, "ListExecutables: %d dirs, %d executables", len(dirs), len(out))
	return out
}

func listExecutablesIn(ctx context.Context, dir string) []Executable {
	dir = filepath.Clean(dir)

	var result []Executable
	var mu sync.Mutex

	conf := &fastwalk.Config{
		Follow: true, // PATH dirs are full of symlinks
	}

	err := fastwalk.Walk(conf, dir, func(fullPath string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			debug.Log(debug.SOURCE, "listExecutables: walk error at %q: %v", fullPath, err)
			return nil
		}
		if fullPath == dir {
			return nil
		}
		// Only direct children; followed directory links are not descended.
		if filepath.Dir(fullPath) != dir || d.IsDir() {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		info, err := fastwalk.StatDirEntry(fullPath, d)
		if err != nil {
			return nil // dangling symlink
		}
		if !info.Mode().IsRegular() || info.Mode().Perm()&0o111 == 0 {
			return nil
		}

		mu.Lock()
		result = append(result, Executable{Name: d.Name(), Path: fullPath})
		mu.Unlock()
		return nil
	})
	if err != nil && ctx.Err() == nil && !os.IsNotExist(err) {
		debug.Log(debug.SOURCE, "listExecutables: %s: %v", dir, err)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// FindDesktopFiles walks every applications directory recursively. When
// several directories provide the same ID only the highest priority one is
// returned. The result is sorted by ID.
func FindDesktopFiles(ctx context.Context, dirs []string) []DesktopFile {
	byID := make(map[string]DesktopFile)

	for prio, dir := range dirs {
		if ctx.Err() != nil {
			break
		}
		for _, f := range findDesktopFilesIn(ctx, dir, prio) {
			if _, ok := byID[f.ID]; !ok {
				byID[f.ID] = f
			}
		}
	}

	out := make([]DesktopFile, 0, len(byID))
	for _, f := range byID {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	debug.Log(debug.DESKTOP, "FindDesktopFiles: %d dirs, %d files", len(dirs), len(out))
	return out
}

func findDesktopFilesIn(ctx context.Context, dir string, prio int) []DesktopFile {
	dir = filepath.Clean(dir)
	if _, err := os.Stat(dir); err != nil {
		return nil
	}

	var result []DesktopFile
	var mu sync.Mutex

	// Symlinked subtrees could loop back on themselves.
	conf := &fastwalk.Config{Follow: false}

	err := fastwalk.Walk(conf, dir, func(fullPath string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".desktop") {
			return nil
		}

		rel, err := filepath.Rel(dir, fullPath)
		if err != nil {
			return nil
		}

		mu.Lock()
		result = append(result, DesktopFile{
			ID:       strings.ReplaceAll(filepath.ToSlash(rel), "/", "-"),
			Path:     fullPath,
			Priority: prio,
		})
		mu.Unlock()
		return nil
	})
	if err != nil && ctx.Err() == nil {
		debug.Log(debug.DESKTOP, "findDesktopFiles: %s: %v", dir, err)
	}
	return result
}
