package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/mtg-events/internal/event"
)

// SortOrder represents the available sorting options for event listings
type SortOrder string

const (
	SortByDate  SortOrder = "date"
	SortByState SortOrder = "state"
	SortByVenue SortOrder = "venue"
)

func parseSortOrder(s string) (SortOrder, error) {
	switch order := SortOrder(strings.ToLower(strings.TrimSpace(s))); order {
	case SortByDate, SortByState, SortByVenue:
		return order, nil
	}
	return "", fmt.Errorf("invalid sort order: %s (must be 'date', 'state' or 'venue')", s)
}

// sortEvents sorts a slice of events based on the specified sort order
func sortEvents(events []*event.Event, sortOrder SortOrder) {
	switch sortOrder {
	case SortByDate:
		event.SortByDate(events)
	case SortByState:
		sort.SliceStable(events, func(i, j int) bool {
			if events[i].State != events[j].State {
				return events[i].State < events[j].State
			}
			return compareByDate(events[i], events[j])
		})
	case SortByVenue:
		sort.SliceStable(events, func(i, j int) bool {
			vi, vj := strings.ToLower(events[i].Venue), strings.ToLower(events[j].Venue)
			if vi != vj {
				return vi < vj
			}
			return compareByDate(events[i], events[j])
		})
	}
}

// compareByDate reports whether i comes before j by date, then time
func compareByDate(i, j *event.Event) bool {
	if i.Date != j.Date {
		return i.Date < j.Date
	}
	return i.TimeText() < j.TimeText()
}
