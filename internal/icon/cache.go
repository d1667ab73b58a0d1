package icon

import (
	"container/list"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"sync"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/justyntemme/quiver/internal/debug"
)

// Cache provides an LRU cache of icons keyed by icon name. Icons are
// resolved and decoded on a background goroutine; Get never blocks on disk.
type Cache struct {
	finder *Finder
	size   int

	mu      sync.RWMutex
	cache   map[string]*cacheEntry // name -> entry
	lru     *list.List             // front = most recent
	maxSize int

	pendingMu sync.Mutex
	pending   map[string]bool
	loadChan  chan string
	stopChan  chan struct{}
	stopOnce  sync.Once

	onLoad func()
}

type cacheEntry struct {
	name    string
	img     image.Image // nil when the icon could not be loaded
	element *list.Element
}

// NewCache starts the background loader. onLoad, if set, is called after
// each icon is stored so the window can redraw.
func NewCache(finder *Finder, size, maxEntries int, onLoad func()) *Cache {
	c := &Cache{
		finder:   finder,
		size:     size,
		cache:    make(map[string]*cacheEntry),
		lru:      list.New(),
		maxSize:  maxEntries,
		pending:  make(map[string]bool),
		loadChan: make(chan string, 256),
		stopChan: make(chan struct{}),
		onLoad:   onLoad,
	}
	go c.backgroundLoader()
	return c
}

// Get returns the icon for name, or nil while it is loading or missing.
func (c *Cache) Get(name string) image.Image {
	if name == "" {
		return nil
	}
	c.mu.Lock()
	entry, ok := c.cache[name]
	if ok {
		c.lru.MoveToFront(entry.element)
	}
	c.mu.Unlock()

	if !ok {
		c.RequestLoad(name)
		return nil
	}
	return entry.img
}

// RequestLoad queues name for background loading. Does nothing if the name
// is already cached or being loaded.
func (c *Cache) RequestLoad(name string) {
	c.mu.RLock()
	_, cached := c.cache[name]
	c.mu.RUnlock()
	if cached {
		return
	}

	c.pendingMu.Lock()
	if c.pending[name] {
		c.pendingMu.Unlock()
		return
	}
	c.pending[name] = true
	c.pendingMu.Unlock()

	select {
	case c.loadChan <- name:
	default:
		// Channel full, drop this request; the next frame asks again
		c.pendingMu.Lock()
		delete(c.pending, name)
		c.pendingMu.Unlock()
	}
}

// Stop shuts down the background loader.
func (c *Cache) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
}

// Len returns the number of cached names, including failed lookups.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

func (c *Cache) backgroundLoader() {
	for {
		select {
		case <-c.stopChan:
			return
		case name := <-c.loadChan:
			c.load(name)
		}
	}
}

func (c *Cache) load(name string) {
	defer func() {
		c.pendingMu.Lock()
		delete(c.pending, name)
		c.pendingMu.Unlock()
	}()

	var img image.Image
	if path, ok := c.finder.Lookup(name); ok {
		var err error
		img, err = LoadFile(path, c.size)
		if err != nil {
			debug.Log(debug.ICON, "Cache: %v", err)
		}
	}
	c.put(name, img)

	if img != nil && c.onLoad != nil {
		c.onLoad()
	}
}

func (c *Cache) put(name string, img image.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.cache[name]; ok {
		entry.img = img
		c.lru.MoveToFront(entry.element)
		return
	}

	for c.maxSize > 0 && c.lru.Len() >= c.maxSize {
		oldest := c.lru.Back()
		if oldest == nil {
			break
		}
		old := oldest.Value.(*cacheEntry)
		delete(c.cache, old.name)
		c.lru.Remove(oldest)
	}

	entry := &cacheEntry{name: name, img: img}
	entry.element = c.lru.PushFront(entry)
	c.cache[name] = entry
}

// LoadFile decodes an image file and scales it to size x size.
func LoadFile(path string, size int) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open icon %s: %w", path, err)
	}
	defer file.Close()

	src, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode icon %s: %w", path, err)
	}
	return Scale(src, size), nil
}

// Scale returns src resized to a size x size RGBA image. Images already at
// that size are converted but not resampled.
func Scale(src image.Image, size int) *image.RGBA {
	if size <= 0 {
		size = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	b := src.Bounds()
	if b.Dx() == size && b.Dy() == size {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}
