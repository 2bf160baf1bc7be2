package geocode

import (
	"context"

	"github.com/pfrederiksen/mtg-events/internal/event"
	"github.com/pfrederiksen/mtg-events/internal/logger"
	"github.com/pfrederiksen/mtg-events/internal/storage"
)

// PassOptions controls a geocoding pass over a document
type PassOptions struct {
	// Limit caps the number of records resolved through lookups; 0 means all
	Limit int
	// BatchSize is the number of records between two calls to Save
	BatchSize int
	// Cache supplies and collects venue coordinates; may be nil
	Cache *storage.Cache
	// Save persists progress; called after every batch and at the end
	Save func() error
	// OnResult is called for every record the pass resolved or gave up on
	OnResult func(evt *event.Event, res *Result, fromCache bool)
}

// PassStats summarizes a geocoding pass
type PassStats struct {
	Pending   int            `json:"pending"`
	Resolved  int            `json:"resolved"`
	FromCache int            `json:"from_cache"`
	Failed    int            `json:"failed"`
	Remaining int            `json:"remaining"`
	Batches   int            `json:"batches"`
	ByMethod  map[Method]int `json:"by_method"`
}

// NeedsCoordinates reports whether evt has an address but no coordinates
func NeedsCoordinates(evt *event.Event) bool {
	return evt.Address != nil && *evt.Address != "" && evt.Coordinates == nil
}

// Pending returns the records a pass would visit, in document order
func Pending(events []*event.Event) []*event.Event {
	var pending []*event.Event
	for _, evt := range events {
		if NeedsCoordinates(evt) {
			pending = append(pending, evt)
		}
	}
	return pending
}

// Run geocodes every record with an address and no coordinates, one at a
// time. Venue coordinates already in the cache are applied without a lookup.
// The document is saved after every BatchSize resolved-or-failed records so
// an interrupted pass loses at most one batch. Records that already have
// coordinates are never touched.
func (g *Geocoder) Run(ctx context.Context, events []*event.Event, opts PassOptions) (*PassStats, error) {
	pending := Pending(events)
	stats := &PassStats{
		Pending:  len(pending),
		ByMethod: make(map[Method]int),
	}
	logger.SetGauge("geocode.pending", float64(len(pending)))

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = 10
	}

	inBatch := 0
	flush := func() error {
		if inBatch == 0 || opts.Save == nil {
			inBatch = 0
			return nil
		}
		inBatch = 0
		stats.Batches++
		return opts.Save()
	}

	attempted := 0
	for _, evt := range pending {
		// an earlier record at the same venue may have filled this one
		if !NeedsCoordinates(evt) {
			continue
		}
		if ctx.Err() != nil {
			break
		}

		key := evt.VenueKey()
		if opts.Cache != nil {
			if coords, ok := opts.Cache.Coordinates[key]; ok {
				c := coords
				evt.ApplyIfAbsent(event.FieldCoordinates, event.CoordinatesValue(&c))
				stats.FromCache++
				inBatch++
				if opts.OnResult != nil {
					opts.OnResult(evt, &Result{Coordinates: c}, true)
				}
				if inBatch >= batchSize {
					if err := flush(); err != nil {
						return stats, err
					}
				}
				continue
			}
		}

		if opts.Limit > 0 && attempted >= opts.Limit {
			break
		}
		attempted++

		res := g.Resolve(ctx, evt)
		if ctx.Err() != nil {
			// the answer may be missing only because of the interruption
			if res == nil {
				break
			}
		}
		if opts.OnResult != nil {
			opts.OnResult(evt, res, false)
		}

		if res == nil {
			stats.Failed++
			logger.Warn("Could not geocode event", logger.Fields{
				"event_id": evt.ID,
				"address":  *evt.Address,
			})
		} else {
			coords := res.Coordinates
			if outcome := evt.ApplyIfAbsent(event.FieldCoordinates, event.CoordinatesValue(&coords)); outcome == event.Applied {
				stats.Resolved++
				stats.ByMethod[res.Method]++
			}
			if opts.Cache != nil {
				if _, exists := opts.Cache.Coordinates[key]; !exists {
					opts.Cache.Coordinates[key] = coords
				}
			}
			logger.Debug("Geocoded event", logger.Fields{
				"event_id": evt.ID,
				"method":   string(res.Method),
				"query":    res.Query,
			})
		}

		inBatch++
		if inBatch >= batchSize {
			if err := flush(); err != nil {
				return stats, err
			}
		}
	}

	if err := flush(); err != nil {
		return stats, err
	}

	stats.Remaining = len(Pending(events))
	logger.SetGauge("geocode.pending", float64(stats.Remaining))
	return stats, ctx.Err()
}
