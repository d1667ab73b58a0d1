package app

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/justyntemme/quiver/internal/debug"
)

// FileWatcher reports debounced changes to individual files. It watches the
// parent directory so files replaced by rename (as most editors save) keep
// being tracked.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	files    map[string]bool // watched file paths
	dirs     map[string]int  // parent dir -> number of watched files in it
	notify   chan string
	done     chan struct{}
	debounce time.Duration
}

// NewFileWatcher starts a watcher. debounce <= 0 selects 200ms.
func NewFileWatcher(debounce time.Duration) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}

	fw := &FileWatcher{
		watcher:  w,
		files:    make(map[string]bool),
		dirs:     make(map[string]int),
		notify:   make(chan string, 4),
		done:     make(chan struct{}),
		debounce: debounce,
	}
	go fw.run()
	return fw, nil
}

// run is the only sender on notify and closes it on exit so receivers
// ranging over Notify stop after Close.
func (fw *FileWatcher) run() {
	defer close(fw.notify)

	lastEvent := make(map[string]time.Time)
	ticker := time.NewTicker(fw.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-fw.done:
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			path := filepath.Clean(event.Name)
			fw.mu.Lock()
			if fw.files[path] {
				lastEvent[path] = time.Now()
				debug.Log(debug.APP, "FSNotify event: %s on %s", event.Op, path)
			}
			fw.mu.Unlock()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			debug.Log(debug.APP, "FSNotify error: %v", err)

		case <-ticker.C:
			now := time.Now()
			for path, t := range lastEvent {
				if now.Sub(t) < fw.debounce {
					continue
				}
				select {
				case fw.notify <- path:
					debug.Log(debug.APP, "File change notification: %s", path)
				default:
				}
				delete(lastEvent, path)
			}
		}
	}
}

// Watch starts reporting changes to path. The file itself need not exist
// yet; its directory must.
func (fw *FileWatcher) Watch(path string) error {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.files[path] {
		return nil
	}
	if fw.dirs[dir] == 0 {
		if err := fw.watcher.Add(dir); err != nil {
			return err
		}
	}
	fw.dirs[dir]++
	fw.files[path] = true
	debug.Log(debug.APP, "Now watching file: %s", path)
	return nil
}

// Unwatch stops reporting changes to path.
func (fw *FileWatcher) Unwatch(path string) {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if !fw.files[path] {
		return
	}
	delete(fw.files, path)
	fw.dirs[dir]--
	if fw.dirs[dir] <= 0 {
		delete(fw.dirs, dir)
		if err := fw.watcher.Remove(dir); err != nil {
			debug.Log(debug.APP, "Error unwatching %s: %v", dir, err)
		}
	}
}

// Notify receives the path of each changed file once per burst of events.
// The channel is closed once the watcher is closed.
func (fw *FileWatcher) Notify() <-chan string {
	return fw.notify
}

func (fw *FileWatcher) Close() error {
	close(fw.done)
	return fw.watcher.Close()
}
