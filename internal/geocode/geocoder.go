package geocode

import (
	"context"
	"time"

	"github.com/pfrederiksen/mtg-events/internal/event"
	"github.com/pfrederiksen/mtg-events/internal/logger"
)

// MinInterval is the smallest gap allowed between two lookups
const MinInterval = 1100 * time.Millisecond

// Method names the strategy that produced a result
type Method string

const (
	MethodAddress    Method = "address"
	MethodSimplified Method = "simplified address"
	MethodCity       Method = "city"
)

// Lookuper performs a single geocoding query. A nil result with a nil error
// means the service found nothing.
type Lookuper interface {
	Lookup(ctx context.Context, query string) (*event.Coordinates, error)
}

// Throttle blocks until the next outbound request may be sent. Done is
// called when a request has finished, successful or not.
type Throttle interface {
	Wait(ctx context.Context) error
	Done()
}

// Result is a resolved location
type Result struct {
	Coordinates event.Coordinates
	Method      Method
	Query       string
}

// Geocoder runs the fallback strategies for one record at a time
type Geocoder struct {
	lookup   Lookuper
	throttle Throttle
	cache    *QueryCache
}

// New creates a Geocoder. A nil throttle uses NewLimiter(MinInterval).
func New(lookup Lookuper, throttle Throttle) *Geocoder {
	if throttle == nil {
		throttle = NewLimiter(MinInterval)
	}
	return &Geocoder{
		lookup:   lookup,
		throttle: throttle,
		cache:    NewQueryCache(),
	}
}

// Cache returns the in-run query cache
func (g *Geocoder) Cache() *QueryCache {
	return g.cache
}

// Resolve finds coordinates for evt from its address, falling back to a
// simplified address and then to the city center. It returns nil when every
// strategy fails or evt has no address.
func (g *Geocoder) Resolve(ctx context.Context, evt *event.Event) *Result {
	if evt.Address == nil || *evt.Address == "" {
		return nil
	}
	return g.ResolveAddress(ctx, *evt.Address, evt.City, evt.State)
}

// ResolveAddress runs the strategies for an address and its city and state
func (g *Geocoder) ResolveAddress(ctx context.Context, address, city, state string) *Result {
	if address != "" {
		if coords := g.query(ctx, address); coords != nil {
			return &Result{Coordinates: *coords, Method: MethodAddress, Query: address}
		}

		simplified := SimplifyAddress(address)
		if simplified != "" && cacheKey(simplified) != cacheKey(address) {
			if coords := g.query(ctx, simplified); coords != nil {
				return &Result{Coordinates: *coords, Method: MethodSimplified, Query: simplified}
			}
		}
	}

	if city != "" && state != "" {
		cityQuery := city + ", " + state
		if coords := g.query(ctx, cityQuery); coords != nil {
			return &Result{Coordinates: *coords, Method: MethodCity, Query: cityQuery}
		}
	}

	return nil
}

// query answers from the run cache or sends one throttled lookup.
// Errors are logged and treated as no result.
func (g *Geocoder) query(ctx context.Context, q string) *event.Coordinates {
	if coords, found := g.cache.Get(q); found {
		logger.IncrCounter("geocode.cache_hits")
		return coords
	}

	if err := g.throttle.Wait(ctx); err != nil {
		// cancelled; not cached so a later run retries the query
		logger.Debug("Geocode throttle wait aborted", logger.Fields{"query": q, "error": err.Error()})
		return nil
	}

	start := time.Now()
	coords, err := g.lookup.Lookup(ctx, q)
	g.throttle.Done()
	logger.RecordTiming("geocode.lookup", time.Since(start))
	logger.IncrCounter("geocode.lookups")

	if err != nil {
		logger.IncrCounter("geocode.errors")
		logger.Debug("Geocode lookup failed", logger.Fields{"query": q, "error": err.Error()})
		if ctx.Err() != nil {
			return nil
		}
		coords = nil
	}
	if coords == nil {
		logger.IncrCounter("geocode.misses")
	}

	g.cache.Set(q, coords)
	return coords
}
