package enrich

import (
	"fmt"

	"github.com/pfrederiksen/mtg-events/internal/event"
	"github.com/pfrederiksen/mtg-events/internal/storage"
)

// DefaultLimit caps each list of a Plan when no limit is given
const DefaultLimit = 10

// VenueQuery is a venue whose address still has to be researched
type VenueQuery struct {
	Key             event.VenueKey `json:"venueKey"`
	Venue           string         `json:"venue"`
	City            string         `json:"city"`
	State           string         `json:"state"`
	EventCount      int            `json:"eventCount"`
	AddressQuestion string         `json:"addressQuestion"`
	WebsiteQuestion string         `json:"websiteQuestion"`
}

// LinkQuery is an event whose registration page still has to be researched
type LinkQuery struct {
	EventID  string     `json:"eventId"`
	Type     event.Type `json:"type"`
	Date     string     `json:"date"`
	Venue    string     `json:"venue"`
	City     string     `json:"city"`
	State    string     `json:"state"`
	Format   string     `json:"format"`
	Question string     `json:"question"`
}

// Plan lists the research still to be done. The Total fields count every
// open item; the slices hold at most the requested limit.
type Plan struct {
	Venues      []VenueQuery `json:"venues"`
	Links       []LinkQuery  `json:"links"`
	TotalVenues int          `json:"totalVenues"`
	TotalLinks  int          `json:"totalLinks"`
}

// Empty reports whether nothing is left to research
func (p *Plan) Empty() bool {
	return p.TotalVenues == 0 && p.TotalLinks == 0
}

// Prepare lists venues without an address and events without a link, in
// document order. Items answered in cache or marked in progress are left
// out. limit <= 0 uses DefaultLimit. cache and progress may be nil.
func Prepare(events []*event.Event, cache *storage.Cache, progress *storage.Progress, limit int) *Plan {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if cache == nil {
		cache = storage.NewCache()
	}
	if progress == nil {
		progress = storage.NewProgress()
	}

	counts := make(map[event.VenueKey]int)
	addressed := make(map[event.VenueKey]bool)
	for _, evt := range events {
		counts[evt.VenueKey()]++
		if evt.Address != nil {
			addressed[evt.VenueKey()] = true
		}
	}

	plan := &Plan{
		Venues: make([]VenueQuery, 0),
		Links:  make([]LinkQuery, 0),
	}
	seen := make(map[event.VenueKey]bool)

	for _, evt := range events {
		key := evt.VenueKey()
		if addressed[key] || seen[key] {
			continue
		}
		seen[key] = true
		if _, cached := cache.Addresses[key]; cached || progress.HasVenue(key) {
			continue
		}
		plan.TotalVenues++
		if len(plan.Venues) < limit {
			plan.Venues = append(plan.Venues, VenueQuery{
				Key:             key,
				Venue:           evt.Venue,
				City:            evt.City,
				State:           evt.State,
				EventCount:      counts[key],
				AddressQuestion: fmt.Sprintf("What is the full street address of %s in %s, %s?", evt.Venue, evt.City, evt.State),
				WebsiteQuestion: fmt.Sprintf("What is the website for %s %s %s MTG?", evt.Venue, evt.City, evt.State),
			})
		}
	}

	for _, evt := range events {
		if evt.EventLink != nil {
			continue
		}
		if _, cached := cache.Links[evt.ID]; cached || progress.HasEvent(evt.ID) {
			continue
		}
		plan.TotalLinks++
		if len(plan.Links) < limit {
			plan.Links = append(plan.Links, LinkQuery{
				EventID: evt.ID,
				Type:    evt.Type,
				Date:    evt.Date,
				Venue:   evt.Venue,
				City:    evt.City,
				State:   evt.State,
				Format:  evt.Format,
				Question: fmt.Sprintf("Find registration or event page for %s at %s %s %s %s Magic: The Gathering",
					evt.Type, evt.Venue, evt.City, evt.State, evt.Date),
			})
		}
	}

	return plan
}

// Template returns an unanswered results batch for plan, ready to be filled in
func Template(plan *Plan) []Result {
	results := make([]Result, 0, len(plan.Venues)+len(plan.Links))
	for _, v := range plan.Venues {
		results = append(results, Result{Type: TypeAddress, VenueKey: v.Key})
	}
	for _, l := range plan.Links {
		results = append(results, Result{Type: TypeLink, EventID: l.EventID})
	}
	return results
}
