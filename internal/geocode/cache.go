package geocode

import (
	"strings"
	"sync"

	"github.com/pfrederiksen/mtg-events/internal/event"
)

// QueryCache remembers lookup answers for the lifetime of a run, misses
// included, so each distinct query reaches the service at most once
type QueryCache struct {
	mu      sync.Mutex
	entries map[string]*event.Coordinates // nil value = known miss
}

// NewQueryCache creates an empty cache
func NewQueryCache() *QueryCache {
	return &QueryCache{
		entries: make(map[string]*event.Coordinates),
	}
}

// Get returns the cached answer for query. found is false when query has
// not been looked up yet; coords is nil for a cached miss.
func (c *QueryCache) Get(query string) (coords *event.Coordinates, found bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	coords, found = c.entries[cacheKey(query)]
	if coords != nil {
		cp := *coords
		coords = &cp
	}
	return coords, found
}

// Set stores an answer; a nil coords records a miss
func (c *QueryCache) Set(query string, coords *event.Coordinates) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if coords != nil {
		cp := *coords
		coords = &cp
	}
	c.entries[cacheKey(query)] = coords
}

// Size returns the number of cached queries
func (c *QueryCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// cacheKey folds case and whitespace so trivially different spellings share an entry
func cacheKey(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}
