package source

import (
	"context"
	"image"
	"log"
	"sort"

	"github.com/justyntemme/quiver/internal/launch"
)

// UsageStore persists how often each candidate was launched.
type UsageStore interface {
	UsageCounts(mode string) (map[string]int, error)
	IncrementUsage(mode, key string) error
}

// Starter spawns a launch request. *launch.Launcher implements it.
type Starter interface {
	Start(ctx context.Context, req launch.Request) error
}

// IconProvider returns a decoded icon by name, or nil if it is not (yet)
// available. *icon.Cache implements it.
type IconProvider interface {
	Get(name string) image.Image
}

// loadUsage reads the counts for mode. Failures leave the list unranked.
func loadUsage(store UsageStore, mode string) map[string]int {
	if store == nil {
		return nil
	}
	counts, err := store.UsageCounts(mode)
	if err != nil {
		log.Printf("Store: loading %s usage: %v", mode, err)
		return nil
	}
	return counts
}

// rankByUsage stably sorts n items by descending count of key(i).
func rankByUsage(n int, counts map[string]int, key func(i int) string, swap func(i, j int)) {
	if len(counts) == 0 {
		return
	}
	sort.Stable(usageSorter{n: n, counts: counts, key: key, swap: swap})
}

type usageSorter struct {
	n      int
	counts map[string]int
	key    func(int) string
	swap   func(i, j int)
}

func (s usageSorter) Len() int           { return s.n }
func (s usageSorter) Less(i, j int) bool { return s.counts[s.key(i)] > s.counts[s.key(j)] }
func (s usageSorter) Swap(i, j int)      { s.swap(i, j) }

func recordUsage(store UsageStore, mode, key string) {
	if store == nil || key == "" {
		return
	}
	if err := store.IncrementUsage(mode, key); err != nil {
		log.Printf("Store: recording %s usage of %q: %v", mode, key, err)
	}
}
