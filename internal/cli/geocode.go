package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/mtg-events/internal/event"
	"github.com/pfrederiksen/mtg-events/internal/geocode"
	"github.com/pfrederiksen/mtg-events/internal/logger"
	"github.com/pfrederiksen/mtg-events/internal/storage"
)

// GeocodeReport summarizes a geocoding pass
type GeocodeReport struct {
	Stats       *geocode.PassStats  `json:"stats"`
	Lookups     int64               `json:"lookups"`
	CacheHits   int64               `json:"cache_hits"`
	Timing      *logger.TimingStats `json:"timing,omitempty"`
	Failed      []string            `json:"failed,omitempty"`
	Interrupted bool                `json:"interrupted,omitempty"`
}

func newGeocodeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "geocode [limit]",
		Short: "Look up coordinates for events with an address",
		Long: `Look up coordinates for every event that has an address but no
coordinates. Each event tries its full address, then the address without
suite or unit, then the city center. Requests are sent one at a time with at
least 1.1 seconds between them. The document is saved after every batch, so
an interrupted run can simply be started again.

limit caps the number of events looked up (0 or omitted means all).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := parseLimit(args, 0)
			if err != nil {
				return err
			}

			st, err := a.storage()
			if err != nil {
				return err
			}

			var report *GeocodeReport
			err = a.withLock(st, func() error {
				doc, err := st.LoadDocument()
				if err != nil {
					return fmt.Errorf("loading document: %w", err)
				}
				report, err = a.runGeocodePass(cmd.Context(), st, doc, st.LoadCache(), limit)
				return err
			})
			if err != nil {
				return err
			}

			if a.format == FormatJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			writeGeocodeText(cmd.OutOrStdout(), report)
			return nil
		},
	}
	return cmd
}

// newGeocoder builds the rate-limited geocoder from the configuration
func (a *app) newGeocoder() *geocode.Geocoder {
	g := a.cfg.Geocoder
	client := geocode.NewClient(g.BaseURL, g.UserAgent, g.CountryCodes, g.Timeout())
	return geocode.New(client, geocode.NewLimiter(g.MinInterval()))
}

// runGeocodePass geocodes doc in place and saves it with the cache after
// every batch. An interrupted pass keeps what it saved and is not an error.
func (a *app) runGeocodePass(ctx context.Context, st *storage.Storage, doc *event.Document, cache *storage.Cache, limit int) (*GeocodeReport, error) {
	before := logger.GetMetricsSnapshot()
	report := &GeocodeReport{}

	save := func() error {
		if err := st.SaveDocument(doc); err != nil {
			return fmt.Errorf("saving document: %w", err)
		}
		if err := st.SaveCache(cache); err != nil {
			logger.Warn("Saving cache failed", logger.Fields{"error": err.Error()})
		}
		return nil
	}

	stats, err := a.newGeocoder().Run(ctx, doc.Events, geocode.PassOptions{
		Limit:     limit,
		BatchSize: a.cfg.Geocoder.BatchSize,
		Cache:     cache,
		Save:      save,
		OnResult: func(evt *event.Event, res *geocode.Result, fromCache bool) {
			if res == nil {
				report.Failed = append(report.Failed, evt.ID)
			}
		},
	})
	report.Stats = stats
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		report.Interrupted = true
		logger.Warn("Geocoding interrupted; progress up to the last batch is saved", logger.Fields{
			"resolved":  stats.Resolved,
			"remaining": stats.Remaining,
		})
		err = nil
	}
	if err != nil {
		return report, err
	}

	after := logger.GetMetricsSnapshot()
	report.Lookups = after.Counters["geocode.lookups"] - before.Counters["geocode.lookups"]
	report.CacheHits = after.Counters["geocode.cache_hits"] - before.Counters["geocode.cache_hits"]
	if timing, ok := after.Timings["geocode.lookup"]; ok {
		report.Timing = &timing
	}

	logger.Info("Geocoding pass finished", logger.Fields{
		"pending":    stats.Pending,
		"resolved":   stats.Resolved,
		"from_cache": stats.FromCache,
		"failed":     stats.Failed,
		"remaining":  stats.Remaining,
		"lookups":    report.Lookups,
	})
	return report, nil
}

func writeGeocodeText(w io.Writer, r *GeocodeReport) {
	s := r.Stats
	if s.Pending == 0 {
		fmt.Fprintln(w, "No events need coordinates.")
		return
	}

	rows := countRows(
		"pending", s.Pending,
		"resolved", s.Resolved,
		"from cache", s.FromCache,
		"failed", s.Failed,
		"remaining", s.Remaining,
		"lookups", r.Lookups,
	)
	methods := make([]string, 0, len(s.ByMethod))
	for m := range s.ByMethod {
		methods = append(methods, string(m))
	}
	sort.Strings(methods)
	for _, m := range methods {
		rows = append(rows, []string{"  by " + m, fmt.Sprint(s.ByMethod[geocode.Method(m)])})
	}
	printTable(w, "Geocoding", []string{"Events", "Count"}, rows, []columnAlignment{alignLeft, alignRight})

	if r.Timing != nil && r.Timing.Count > 0 {
		fmt.Fprintf(w, "Lookup time: avg %v, max %v\n", r.Timing.Average, r.Timing.Max)
	}
	if len(r.Failed) > 0 {
		fmt.Fprintf(w, "Could not geocode %d events; check their addresses.\n", len(r.Failed))
	}
	if r.Interrupted {
		fmt.Fprintln(w, "Interrupted: run geocode again to continue.")
	}
}
