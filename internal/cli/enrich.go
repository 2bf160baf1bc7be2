package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/mtg-events/internal/enrich"
	"github.com/pfrederiksen/mtg-events/internal/logger"
)

// PrepareReport is the output of prepare
type PrepareReport struct {
	Events   int          `json:"events"`
	Template string       `json:"template,omitempty"`
	Plan     *enrich.Plan `json:"plan"`
}

// ApplyReport is the output of apply
type ApplyReport struct {
	Results  string               `json:"results"`
	Apply    *enrich.ApplyStats   `json:"apply"`
	Backfill enrich.BackfillStats `json:"backfill"`
	Geocode  *GeocodeReport       `json:"geocode,omitempty"`
}

func parseLimit(args []string, def int) (int, error) {
	if len(args) == 0 {
		return def, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid limit %q: must be a non-negative number", args[0])
	}
	return n, nil
}

func newPrepareCmd(a *app) *cobra.Command {
	var templatePath string

	cmd := &cobra.Command{
		Use:   "prepare [limit]",
		Short: "List venues and events that still need research",
		Long: `List venues without an address and events without a link, with the
question to research for each. Venues and events already answered or marked
as handled are left out. limit caps each list (default from config).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := parseLimit(args, a.cfg.Enrich.DefaultLimit)
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

			plan := enrich.Prepare(doc.Events, st.LoadCache(), st.LoadProgress(), limit)
			report := &PrepareReport{Events: len(doc.Events), Plan: plan}

			if templatePath != "" {
				path, err := filepath.Abs(templatePath)
				if err != nil {
					return err
				}
				if err := writeTemplate(path, enrich.Template(plan)); err != nil {
					return err
				}
				report.Template = path
			}

			logger.Info("Prepared research queries", logger.Fields{
				"venues": plan.TotalVenues,
				"links":  plan.TotalLinks,
				"limit":  limit,
			})

			if a.format == FormatJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			writePrepareText(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&templatePath, "template", "t", "", "Write an unanswered results batch to this file")
	return cmd
}

func writeTemplate(path string, results []enrich.Result) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding template: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing template: %w", err)
	}
	return nil
}

func writePrepareText(w io.Writer, r *PrepareReport) {
	plan := r.Plan
	if plan.Empty() {
		fmt.Fprintf(w, "All %d events are enriched. Nothing to research.\n", r.Events)
		return
	}

	if len(plan.Venues) > 0 {
		rows := make([][]string, 0, len(plan.Venues))
		for i, v := range plan.Venues {
			rows = append(rows, []string{strconv.Itoa(i + 1), string(v.Key), strconv.Itoa(v.EventCount)})
		}
		printTable(w, fmt.Sprintf("Venues needing an address (%d of %d)", len(plan.Venues), plan.TotalVenues),
			[]string{"#", "Venue key", "Events"}, rows, []columnAlignment{alignRight, alignLeft, alignRight})
		for i, v := range plan.Venues {
			fmt.Fprintf(w, "%d. %s\n   %s\n", i+1, v.AddressQuestion, v.WebsiteQuestion)
		}
		fmt.Fprintln(w)
	}

	if len(plan.Links) > 0 {
		rows := make([][]string, 0, len(plan.Links))
		for i, l := range plan.Links {
			rows = append(rows, []string{strconv.Itoa(i + 1), l.EventID, string(l.Type), l.Format})
		}
		printTable(w, fmt.Sprintf("Events needing a link (%d of %d)", len(plan.Links), plan.TotalLinks),
			[]string{"#", "Event id", "Type", "Format"}, rows, []columnAlignment{alignRight})
		for i, l := range plan.Links {
			fmt.Fprintf(w, "%d. %s\n", i+1, l.Question)
		}
		fmt.Fprintln(w)
	}

	if r.Template != "" {
		fmt.Fprintf(w, "Template written to %s\n", r.Template)
	}
	fmt.Fprintln(w, `Answer as a JSON array of {"type":"address","venueKey",...} and {"type":"link","eventId",...}`)
	fmt.Fprintln(w, "results, then run: mtg-events apply [results.json]")
}

func newApplyCmd(a *app) *cobra.Command {
	var geocodeAfter bool
	var geocodeLimit int

	cmd := &cobra.Command{
		Use:   "apply [results]",
		Short: "Apply a researched results batch to the document",
		Long: `Apply a results batch to the document. Address results fill every event
at the venue; link results fill one event. Fields that already hold a value
are kept. Events without a link then use their store website as link.

With --geocode, a geocoding pass runs afterwards for events that now have an
address but no coordinates.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resultsPath := a.cfg.Paths.ResultsFile
			if len(args) == 1 {
				p, err := filepath.Abs(args[0])
				if err != nil {
					return err
				}
				resultsPath = p
			}

			batch, err := enrich.ReadBatch(resultsPath)
			if err != nil {
				return err
			}

			st, err := a.storage()
			if err != nil {
				return err
			}

			report := &ApplyReport{Results: resultsPath}
			err = a.withLock(st, func() error {
				doc, err := st.LoadDocument()
				if err != nil {
					return fmt.Errorf("loading document: %w", err)
				}
				cache := st.LoadCache()
				resolver := enrich.NewResolver(cache, st.LoadProgress())

				report.Apply = resolver.Apply(doc.Events, batch)
				report.Backfill = *enrich.Backfill(doc.Events, cache)

				if err := st.SaveDocument(doc); err != nil {
					return fmt.Errorf("saving document: %w", err)
				}
				saveSideFiles(st, resolver.Cache(), resolver.Progress())

				logger.Info("Applied results", logger.Fields{
					"results":   report.Apply.Results,
					"malformed": report.Apply.Malformed,
					"unmatched": report.Apply.Unmatched,
					"updated":   report.Apply.Updated(),
					"conflicts": report.Apply.Conflicts,
				})

				if geocodeAfter {
					report.Geocode, err = a.runGeocodePass(cmd.Context(), st, doc, cache, geocodeLimit)
					return err
				}
				return nil
			})
			if err != nil {
				return err
			}

			if a.format == FormatJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			writeApplyText(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&geocodeAfter, "geocode", false, "Geocode events that gained an address")
	cmd.Flags().IntVar(&geocodeLimit, "geocode-limit", 0, "Maximum events to geocode with --geocode (0 means all)")
	return cmd
}

func writeApplyText(w io.Writer, r *ApplyReport) {
	s := r.Apply
	fmt.Fprintf(w, "Applied %d results from %s\n\n", s.Results, r.Results)
	printTable(w, "", []string{"Field", "Events updated"}, countRows(
		"address", s.Addresses,
		"website", s.Websites,
		"coordinates", s.Coordinates,
		"event link", s.Links,
		"fallback link", s.FallbackLinks,
		"backfilled", r.Backfill.Total(),
	), []columnAlignment{alignLeft, alignRight})

	if s.Malformed > 0 || s.Unmatched > 0 || s.Conflicts > 0 {
		fmt.Fprintf(w, "Warnings: %d malformed, %d unmatched, %d conflicting values kept\n\n",
			s.Malformed, s.Unmatched, s.Conflicts)
	}
	fmt.Fprintf(w, "Total fields updated: %d\n", s.Updated()+r.Backfill.Total())

	if r.Geocode != nil {
		fmt.Fprintln(w)
		writeGeocodeText(w, r.Geocode)
	}
}
