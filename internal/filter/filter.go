// Package filter narrows a list of events by location, type, and date.
//
// Filters are built from command-line flags and used by the status and ics
// commands. Every active criterion must match; within one criterion any of the
// listed values may match.
//
// Example usage:
//
//	f := filter.NewFilter()
//	f.States = []string{"OH", "IN"}
//	f.Types = []event.Type{event.TypeRCQ}
//	from, to, _ := filter.ParseDateRange("Mar 1-15", 2026)
//	f.DateFrom, f.DateTo = from, to
//
//	selected := f.Apply(events)
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/mtg-events/internal/event"
)

// Filter represents event selection criteria
type Filter struct {
	// Date range filtering, inclusive on both ends
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`

	// Weekend-only filtering (Saturday/Sunday)
	WeekendsOnly bool `json:"weekends_only,omitempty"`

	// State codes, matched exactly (case-insensitive)
	States []string `json:"states,omitempty"`

	// Event types, matched exactly (case-insensitive)
	Types []event.Type `json:"types,omitempty"`

	// City and venue filtering (case-insensitive substring match)
	Cities []string `json:"cities,omitempty"`
	Venues []string `json:"venues,omitempty"`

	// Format filtering (case-insensitive substring match), e.g. "modern"
	Formats []string `json:"formats,omitempty"`
}

// NewFilter creates a new empty filter with no active criteria.
// The filter will match all events until criteria are added.
func NewFilter() *Filter {
	return &Filter{}
}

// IsEmpty checks if the filter has any active criteria.
func (f *Filter) IsEmpty() bool {
	return f.DateFrom == nil &&
		f.DateTo == nil &&
		!f.WeekendsOnly &&
		len(f.States) == 0 &&
		len(f.Types) == 0 &&
		len(f.Cities) == 0 &&
		len(f.Venues) == 0 &&
		len(f.Formats) == 0
}

// Matches checks if an event matches all active filter criteria.
// An empty filter matches all events. Date criteria never match an event
// whose date cannot be parsed.
func (f *Filter) Matches(evt *event.Event) bool {
	if f.IsEmpty() {
		return true
	}

	if f.DateFrom != nil || f.DateTo != nil || f.WeekendsOnly {
		date := event.ParseDate(evt.Date)
		if date.IsZero() {
			return false
		}
		if f.DateFrom != nil && date.Before(truncateDay(*f.DateFrom)) {
			return false
		}
		if f.DateTo != nil && date.After(*f.DateTo) {
			return false
		}
		if f.WeekendsOnly {
			if wd := date.Weekday(); wd != time.Saturday && wd != time.Sunday {
				return false
			}
		}
	}

	if len(f.States) > 0 && !anyEqual(evt.State, f.States) {
		return false
	}

	if len(f.Types) > 0 {
		matched := false
		for _, typ := range f.Types {
			if strings.EqualFold(string(evt.Type), string(typ)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(f.Cities) > 0 && !anyContains(evt.City, f.Cities) {
		return false
	}
	if len(f.Venues) > 0 && !anyContains(evt.Venue, f.Venues) {
		return false
	}
	if len(f.Formats) > 0 && !anyContains(evt.Format, f.Formats) {
		return false
	}

	return true
}

// Apply returns the events matching f, in their original order.
// If the filter is empty, returns the original list unchanged.
func (f *Filter) Apply(events []*event.Event) []*event.Event {
	if f.IsEmpty() {
		return events
	}

	filtered := make([]*event.Event, 0, len(events))
	for _, evt := range events {
		if f.Matches(evt) {
			filtered = append(filtered, evt)
		}
	}
	return filtered
}

// String returns a human-readable description of the active filter criteria.
// Format: "From: Jan 2, 2026 | To: Jan 15, 2026 | States: OH | Weekends only"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string
	if f.DateFrom != nil {
		parts = append(parts, fmt.Sprintf("From: %s", f.DateFrom.Format("Jan 2, 2006")))
	}
	if f.DateTo != nil {
		parts = append(parts, fmt.Sprintf("To: %s", f.DateTo.Format("Jan 2, 2006")))
	}
	if f.WeekendsOnly {
		parts = append(parts, "Weekends only")
	}
	if len(f.States) > 0 {
		parts = append(parts, fmt.Sprintf("States: %s", strings.Join(f.States, ", ")))
	}
	if len(f.Types) > 0 {
		types := make([]string, len(f.Types))
		for i, typ := range f.Types {
			types[i] = string(typ)
		}
		parts = append(parts, fmt.Sprintf("Types: %s", strings.Join(types, ", ")))
	}
	if len(f.Cities) > 0 {
		parts = append(parts, fmt.Sprintf("Cities: %s", strings.Join(f.Cities, ", ")))
	}
	if len(f.Venues) > 0 {
		parts = append(parts, fmt.Sprintf("Venues: %s", strings.Join(f.Venues, ", ")))
	}
	if len(f.Formats) > 0 {
		parts = append(parts, fmt.Sprintf("Formats: %s", strings.Join(f.Formats, ", ")))
	}

	return strings.Join(parts, " | ")
}

func anyEqual(value string, candidates []string) bool {
	for _, c := range candidates {
		if strings.EqualFold(value, strings.TrimSpace(c)) {
			return true
		}
	}
	return false
}

func anyContains(value string, candidates []string) bool {
	lower := strings.ToLower(value)
	for _, c := range candidates {
		if strings.Contains(lower, strings.ToLower(strings.TrimSpace(c))) {
			return true
		}
	}
	return false
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
