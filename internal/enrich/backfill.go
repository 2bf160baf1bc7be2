package enrich

import (
	"github.com/pfrederiksen/mtg-events/internal/event"
	"github.com/pfrederiksen/mtg-events/internal/storage"
)

// venueFields are shared by every event at a venue; event links are not
var venueFields = []event.Field{event.FieldAddress, event.FieldWebsite, event.FieldCoordinates}

// BackfillStats counts fields filled by Backfill, per event
type BackfillStats struct {
	FromCache    int `json:"from_cache"`
	FromSiblings int `json:"from_siblings"`
}

// Total returns the number of fields filled
func (s *BackfillStats) Total() int {
	return s.FromCache + s.FromSiblings
}

// Backfill fills empty enrichment fields from the cache and then from the
// first event at the same venue that has the field, in document order.
// Fields that are already set are never touched. cache may be nil.
func Backfill(events []*event.Event, cache *storage.Cache) *BackfillStats {
	stats := &BackfillStats{}

	if cache != nil {
		for _, evt := range events {
			stats.FromCache += fillFromCache(evt, cache)
		}
	}

	known := make(map[event.VenueKey]map[event.Field]event.Value)
	for _, evt := range events {
		key := evt.VenueKey()
		for _, field := range venueFields {
			v, ok := evt.Get(field)
			if !ok {
				continue
			}
			if known[key] == nil {
				known[key] = make(map[event.Field]event.Value)
			}
			if _, seen := known[key][field]; !seen {
				known[key][field] = v
			}
		}
	}

	for _, evt := range events {
		values := known[evt.VenueKey()]
		for _, field := range venueFields {
			v, ok := values[field]
			if !ok || evt.Has(field) {
				continue
			}
			if evt.ApplyIfAbsent(field, v) == event.Applied {
				stats.FromSiblings++
			}
		}
	}

	return stats
}

func fillFromCache(evt *event.Event, cache *storage.Cache) int {
	key := evt.VenueKey()
	filled := 0
	apply := func(field event.Field, v event.Value) {
		if !evt.Has(field) && evt.ApplyIfAbsent(field, v) == event.Applied {
			filled++
		}
	}

	if s, ok := cache.Addresses[key]; ok {
		apply(event.FieldAddress, event.TextValue(s))
	}
	if s, ok := cache.Websites[key]; ok {
		apply(event.FieldWebsite, event.TextValue(s))
	}
	if c, ok := cache.Coordinates[key]; ok {
		apply(event.FieldCoordinates, event.CoordinatesValue(&c))
	}
	if s, ok := cache.Links[evt.ID]; ok {
		apply(event.FieldEventLink, event.TextValue(s))
	}
	return filled
}
