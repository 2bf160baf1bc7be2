package cli

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/mtg-events/internal/event"
)

// Coverage counts events holding each enrichment field
type Coverage struct {
	Address     int `json:"address"`
	Coordinates int `json:"coordinates"`
	Website     int `json:"website"`
	EventLink   int `json:"eventLink"`
}

// StatusReport describes the stored document
type StatusReport struct {
	Document    string         `json:"document"`
	LastUpdated string         `json:"last_updated"`
	Source      string         `json:"source,omitempty"`
	Filter      string         `json:"filter,omitempty"`
	Total       int            `json:"total"`
	Venues      int            `json:"venues"`
	Upcoming    int            `json:"upcoming"`
	Past        int            `json:"past"`
	ByType      map[string]int `json:"by_type"`
	Coverage    Coverage       `json:"coverage"`
	CacheSize   int            `json:"cache_size"`
	Handled     int            `json:"handled"`
	Next        []*event.Event `json:"next,omitempty"`
}

// buildStatus summarizes events as of now. The next upcoming events are
// listed in order, at most limit of them.
func buildStatus(events []*event.Event, now time.Time, order SortOrder, limit int) *StatusReport {
	report := &StatusReport{
		Total:  len(events),
		ByType: make(map[string]int),
	}

	venues := make(map[event.VenueKey]bool)
	var upcoming []*event.Event
	for _, evt := range events {
		report.ByType[string(evt.Type)]++
		venues[evt.VenueKey()] = true

		if evt.IsPastEvent(now) {
			report.Past++
		} else {
			report.Upcoming++
			upcoming = append(upcoming, evt)
		}

		if evt.Has(event.FieldAddress) {
			report.Coverage.Address++
		}
		if evt.Has(event.FieldCoordinates) {
			report.Coverage.Coordinates++
		}
		if evt.Has(event.FieldWebsite) {
			report.Coverage.Website++
		}
		if evt.Has(event.FieldEventLink) {
			report.Coverage.EventLink++
		}
	}
	report.Venues = len(venues)

	if limit > 0 && len(upcoming) > 0 {
		// the window is always the soonest events; order only affects display
		event.SortByDate(upcoming)
		if len(upcoming) > limit {
			upcoming = upcoming[:limit]
		}
		sortEvents(upcoming, order)
		report.Next = upcoming
	}
	return report
}

func newStatusCmd(a *app) *cobra.Command {
	var next int
	var sortFlag string
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show document totals and enrichment coverage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := parseSortOrder(sortFlag)
			if err != nil {
				return err
			}
			flt, err := filters.build(a.cfg.Parser.DefaultYear)
			if err != nil {
				return err
			}

			st, err := a.storage()
			if err != nil {
				return err
			}
			doc, err := st.LoadDocument()
			if err != nil {
				return fmt.Errorf("loading document: %w", err)
			}

			report := buildStatus(flt.Apply(doc.Events), a.now(), order, next)
			if !flt.IsEmpty() {
				report.Filter = flt.String()
			}
			report.Document = st.Paths().Document
			report.LastUpdated = doc.Metadata.LastUpdated
			report.Source = doc.Metadata.Source
			report.CacheSize = st.LoadCache().Len()
			progress := st.LoadProgress()
			report.Handled = len(progress.Venues) + len(progress.Events)

			if a.format == FormatJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			writeStatusText(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().IntVarP(&next, "next", "n", 10, "Number of upcoming events to list")
	cmd.Flags().StringVar(&sortFlag, "sort", "date", "Order of upcoming events: date, state or venue")
	filters.register(cmd)
	return cmd
}

func percent(n, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", float64(n)*100/float64(total))
}

func writeStatusText(w io.Writer, r *StatusReport) {
	fmt.Fprintf(w, "Document: %s\n", r.Document)
	if r.LastUpdated != "" {
		fmt.Fprintf(w, "Last updated: %s\n", r.LastUpdated)
	}
	if r.Source != "" {
		fmt.Fprintf(w, "Source: %s\n", r.Source)
	}
	if r.Filter != "" {
		fmt.Fprintf(w, "Filter: %s\n", r.Filter)
	}
	fmt.Fprintf(w, "Events: %d at %d venues (%d upcoming, %d past)\n\n", r.Total, r.Venues, r.Upcoming, r.Past)

	if len(r.ByType) > 0 {
		types := make([]string, 0, len(r.ByType))
		for t := range r.ByType {
			types = append(types, t)
		}
		sort.Strings(types)
		rows := make([][]string, 0, len(types))
		for _, t := range types {
			rows = append(rows, []string{t, fmt.Sprint(r.ByType[t])})
		}
		printTable(w, "By type", []string{"Type", "Events"}, rows, []columnAlignment{alignLeft, alignRight})
	}

	c := r.Coverage
	printTable(w, "Enrichment", []string{"Field", "Events", "Coverage"}, [][]string{
		{"address", fmt.Sprint(c.Address), percent(c.Address, r.Total)},
		{"coordinates", fmt.Sprint(c.Coordinates), percent(c.Coordinates, r.Total)},
		{"website", fmt.Sprint(c.Website), percent(c.Website, r.Total)},
		{"eventLink", fmt.Sprint(c.EventLink), percent(c.EventLink, r.Total)},
	}, []columnAlignment{alignLeft, alignRight, alignRight})

	if len(r.Next) > 0 {
		rows := make([][]string, 0, len(r.Next))
		for _, evt := range r.Next {
			rows = append(rows, []string{
				evt.Date,
				evt.TimeText(),
				string(evt.Type),
				truncate(evt.Venue, 32),
				evt.City + ", " + evt.State,
				truncate(evt.Format, 24),
			})
		}
		printTable(w, "Upcoming", []string{"Date", "Time", "Type", "Venue", "Location", "Format"}, rows, nil)
	}

	fmt.Fprintf(w, "Cache entries: %d, researched items: %d\n", r.CacheSize, r.Handled)
}
