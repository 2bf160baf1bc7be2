package event

import "sort"

// SortByDate orders events by date ascending. Events on the same date are
// ordered by time when both have one; otherwise their relative order is kept.
// ISO dates compare correctly as strings.
func SortByDate(events []*Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		if events[i].Time != nil && events[j].Time != nil {
			return *events[i].Time < *events[j].Time
		}
		return false
	})
}
