package layout

import (
	"sync"

	"github.com/klokku/calgrid/pkg/event"
	log "github.com/sirupsen/logrus"
)

type cacheEntry struct {
	version uint64
	layouts []EventLayout
}

// Cache memoizes Compute per day, keyed on the store version the events were
// read from. Only the newest version of each day is kept and an entry is
// only served for the exact version it was computed at.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Get returns the layouts for date at version, computing them from events on
// a miss. events must be the timed events of that day at that version and
// must not be modified afterwards.
func (c *Cache) Get(date string, version uint64, events []event.Event) []EventLayout {
	c.mu.Lock()
	entry, ok := c.entries[date]
	c.mu.Unlock()
	if ok && entry.version == version {
		log.Tracef("layout cache hit for %s@%d", date, version)
		return entry.layouts
	}

	layouts := Compute(events)

	c.mu.Lock()
	if current, ok := c.entries[date]; !ok || current.version <= version {
		c.entries[date] = cacheEntry{version: version, layouts: layouts}
	}
	c.mu.Unlock()
	return layouts
}

func (c *Cache) Invalidate(date string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, date)
}

func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
