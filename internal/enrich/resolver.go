package enrich

import (
	"github.com/pfrederiksen/mtg-events/internal/event"
	"github.com/pfrederiksen/mtg-events/internal/logger"
	"github.com/pfrederiksen/mtg-events/internal/storage"
)

// ApplyStats counts what a batch changed. Field counts are per event.
type ApplyStats struct {
	Results       int `json:"results"`
	Malformed     int `json:"malformed"`
	Unmatched     int `json:"unmatched"`
	Addresses     int `json:"addresses"`
	Websites      int `json:"websites"`
	Coordinates   int `json:"coordinates"`
	Links         int `json:"links"`
	FallbackLinks int `json:"fallback_links"`
	Conflicts     int `json:"conflicts"`
}

// Updated returns the total number of fields written
func (s *ApplyStats) Updated() int {
	return s.Addresses + s.Websites + s.Coordinates + s.Links + s.FallbackLinks
}

func (s *ApplyStats) count(field event.Field) {
	switch field {
	case event.FieldAddress:
		s.Addresses++
	case event.FieldWebsite:
		s.Websites++
	case event.FieldCoordinates:
		s.Coordinates++
	case event.FieldEventLink:
		s.Links++
	}
}

// Resolver applies results batches to documents and records what it learned
// in the cache and progress state
type Resolver struct {
	cache    *storage.Cache
	progress *storage.Progress
}

// NewResolver creates a resolver. Nil arguments are replaced by empty state.
func NewResolver(cache *storage.Cache, progress *storage.Progress) *Resolver {
	if cache == nil {
		cache = storage.NewCache()
	}
	if progress == nil {
		progress = storage.NewProgress()
	}
	return &Resolver{cache: cache, progress: progress}
}

// Cache returns the cache the resolver writes to
func (r *Resolver) Cache() *storage.Cache {
	return r.cache
}

// Progress returns the progress state the resolver writes to
func (r *Resolver) Progress() *storage.Progress {
	return r.progress
}

// Apply writes every result of batch to the matching events, then gives
// events without a link their store website as link. Address results match
// every event whose venue, city and state equal the venue key exactly; link
// results match the event with that id. Existing values are never replaced.
func (r *Resolver) Apply(events []*event.Event, batch *Batch) *ApplyStats {
	stats := &ApplyStats{
		Results:   len(batch.Results),
		Malformed: batch.Malformed,
	}

	byVenue := make(map[event.VenueKey][]*event.Event)
	byID := make(map[string]*event.Event, len(events))
	for _, evt := range events {
		key := evt.VenueKey()
		byVenue[key] = append(byVenue[key], evt)
		if _, exists := byID[evt.ID]; !exists {
			byID[evt.ID] = evt
		}
	}

	for _, res := range batch.Results {
		switch res.Type {
		case TypeAddress:
			r.applyVenue(byVenue[res.VenueKey], res, stats)
		case TypeLink:
			r.applyLink(byID[res.EventID], res, stats)
		}
	}

	stats.FallbackLinks = ApplyFallbackLinks(events)

	logger.AddCounter("enrich.fields_updated", int64(stats.Updated()))
	logger.AddCounter("enrich.conflicts", int64(stats.Conflicts))
	return stats
}

func (r *Resolver) applyVenue(matches []*event.Event, res Result, stats *ApplyStats) {
	r.progress.MarkVenue(res.VenueKey)

	if len(matches) == 0 {
		stats.Unmatched++
		logger.Warn("No events match venue key", logger.Fields{"venue_key": string(res.VenueKey)})
		return
	}

	if res.Address != "" && r.applyAll(matches, event.FieldAddress, event.TextValue(res.Address), stats) {
		setIfAbsent(r.cache.Addresses, res.VenueKey, res.Address)
	}
	if res.Website != "" && r.applyAll(matches, event.FieldWebsite, event.TextValue(res.Website), stats) {
		setIfAbsent(r.cache.Websites, res.VenueKey, res.Website)
	}
	if res.Coordinates != nil && r.applyAll(matches, event.FieldCoordinates, event.CoordinatesValue(res.Coordinates), stats) {
		if _, exists := r.cache.Coordinates[res.VenueKey]; !exists {
			r.cache.Coordinates[res.VenueKey] = *res.Coordinates
		}
	}
}

func (r *Resolver) applyLink(evt *event.Event, res Result, stats *ApplyStats) {
	r.progress.MarkEvent(res.EventID)

	if evt == nil {
		stats.Unmatched++
		logger.Warn("No event matches event id", logger.Fields{"event_id": res.EventID})
		return
	}
	if res.Link == "" {
		return
	}
	if r.applyAll([]*event.Event{evt}, event.FieldEventLink, event.TextValue(res.Link), stats) {
		setIfAbsent(r.cache.Links, res.EventID, res.Link)
	}
}

// applyAll offers v to every event and reports whether at least one of them
// now holds exactly v
func (r *Resolver) applyAll(events []*event.Event, field event.Field, v event.Value, stats *ApplyStats) bool {
	held := false
	for _, evt := range events {
		switch evt.ApplyIfAbsent(field, v) {
		case event.Applied:
			stats.count(field)
			held = true
		case event.Unchanged:
			held = true
		case event.Conflict:
			stats.Conflicts++
			current, _ := evt.Get(field)
			logger.Warn("Keeping existing value", logger.Fields{
				"event_id": evt.ID,
				"field":    string(field),
				"current":  describe(current),
				"incoming": describe(v),
			})
		}
	}
	return held
}

// ApplyFallbackLinks sets eventLink to the store website on every event that
// has a website but no link. It returns the number of events changed.
func ApplyFallbackLinks(events []*event.Event) int {
	n := 0
	for _, evt := range events {
		if evt.EventLink != nil || evt.Website == nil {
			continue
		}
		if evt.ApplyIfAbsent(event.FieldEventLink, event.TextValue(*evt.Website)) == event.Applied {
			n++
		}
	}
	return n
}

func setIfAbsent[K comparable](m map[K]string, key K, value string) {
	if _, exists := m[key]; !exists {
		m[key] = value
	}
}

func describe(v event.Value) interface{} {
	if v.Coordinates != nil {
		return *v.Coordinates
	}
	return v.Text
}
