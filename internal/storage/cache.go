package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/pfrederiksen/mtg-events/internal/event"
	"github.com/pfrederiksen/mtg-events/internal/logger"
)

// Cache remembers resolved enrichment values across runs so the same venue or
// event is not researched twice. It is not authoritative: losing it only
// causes repeated lookups.
type Cache struct {
	Addresses   map[event.VenueKey]string            `json:"addresses"`
	Websites    map[event.VenueKey]string            `json:"websites"`
	Links       map[string]string                    `json:"links"` // keyed by event id
	Coordinates map[event.VenueKey]event.Coordinates `json:"coordinates"`
}

// NewCache creates an empty cache
func NewCache() *Cache {
	c := &Cache{}
	c.init()
	return c
}

func (c *Cache) init() {
	if c.Addresses == nil {
		c.Addresses = make(map[event.VenueKey]string)
	}
	if c.Websites == nil {
		c.Websites = make(map[event.VenueKey]string)
	}
	if c.Links == nil {
		c.Links = make(map[string]string)
	}
	if c.Coordinates == nil {
		c.Coordinates = make(map[event.VenueKey]event.Coordinates)
	}
}

// Len returns the number of cached values
func (c *Cache) Len() int {
	return len(c.Addresses) + len(c.Websites) + len(c.Links) + len(c.Coordinates)
}

// LoadCache reads the enrichment cache. A missing, unreadable or corrupt
// file yields an empty cache.
func (s *Storage) LoadCache() *Cache {
	if s.paths.Cache == "" {
		return NewCache()
	}
	var c Cache
	if err := readJSON(s.paths.Cache, &c); err != nil {
		logWarnReset("cache", s.paths.Cache, err)
		return NewCache()
	}
	c.init()
	return &c
}

// SaveCache writes the enrichment cache to disk
func (s *Storage) SaveCache(c *Cache) error {
	if s.paths.Cache == "" {
		return nil
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}
	if err := writeFileAtomic(s.paths.Cache, data); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	return nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// logWarnReset reports a side file that could not be used. A missing file is
// the normal first-run case and only logged at debug level.
func logWarnReset(kind, path string, err error) {
	fields := logger.Fields{"file": kind, "path": path}
	if errors.Is(err, os.ErrNotExist) {
		logger.Debug("Side file not found, starting empty", fields)
		return
	}
	logger.Warn("Side file unusable, starting empty", logger.Fields{"file": kind, "path": path, "error": err.Error()})
}
