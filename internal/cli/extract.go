package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/mtg-events/internal/enrich"
	"github.com/pfrederiksen/mtg-events/internal/event"
	"github.com/pfrederiksen/mtg-events/internal/logger"
	"github.com/pfrederiksen/mtg-events/internal/parser"
	"github.com/pfrederiksen/mtg-events/internal/scraper"
)

// ExtractReport summarizes an extract run
type ExtractReport struct {
	Source     string               `json:"source"`
	Document   string               `json:"document"`
	Created    bool                 `json:"created"`
	DryRun     bool                 `json:"dry_run,omitempty"`
	Lines      int                  `json:"lines"`
	Headers    int                  `json:"headers"`
	Parsed     int                  `json:"parsed"`
	Skipped    int                  `json:"skipped"`
	Rejected   int                  `json:"rejected"`
	Sections   map[string]int       `json:"sections"`
	Merge      event.MergeStats     `json:"merge"`
	Backfill   enrich.BackfillStats `json:"backfill"`
	Total      int                  `json:"total"`
	Changes    []*event.Change      `json:"changes,omitempty"`
	Duplicates []string             `json:"duplicates,omitempty"`
}

func newExtractCmd(a *app) *cobra.Command {
	var source string
	var verbose bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Parse the listing and merge it into the document",
		Long: `Parse the event listing and merge the events into the document.

The source is a text file, a saved HTML page, or an http(s) URL. Events already
in the document keep their enrichment fields; events no longer listed are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if source == "" {
				source = a.cfg.Paths.SourceFile
			}
			resolved, err := a.cfg.ResolvePath(source)
			if err != nil {
				return fmt.Errorf("resolving source: %w", err)
			}

			report, err := a.runExtract(cmd, resolved, verbose, dryRun)
			if err != nil {
				return err
			}
			if a.format == FormatJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			writeExtractText(cmd.OutOrStdout(), report, verbose)
			return nil
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "Listing file or URL (default from config)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "List field changes of updated events")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would change without writing the document")
	return cmd
}

func (a *app) runExtract(cmd *cobra.Command, source string, verbose, dryRun bool) (*ExtractReport, error) {
	lines, err := scraper.New("").Load(cmd.Context(), source)
	if err != nil {
		return nil, fmt.Errorf("loading listing: %w", err)
	}

	parsed := parser.New(a.cfg.Parser.DefaultYear).Parse(lines)
	logger.Info("Parsed listing", logger.Fields{
		"source":   source,
		"lines":    parsed.Lines,
		"events":   len(parsed.Events),
		"rejected": parsed.Rejected,
	})

	st, err := a.storage()
	if err != nil {
		return nil, err
	}

	report := &ExtractReport{
		Source:   source,
		Document: st.Paths().Document,
		DryRun:   dryRun,
		Lines:    parsed.Lines,
		Headers:  parsed.Headers,
		Parsed:   len(parsed.Events),
		Skipped:  parsed.Skipped,
		Rejected: parsed.Rejected,
		Sections: parsed.Sections,
	}

	err = a.withLock(st, func() error {
		doc, created, err := st.LoadOrCreateDocument(source)
		if err != nil {
			return fmt.Errorf("loading document: %w", err)
		}
		report.Created = created

		merged := event.Merge(parsed.Events, doc.Events)
		for _, dup := range merged.Duplicates {
			logger.Warn("Duplicate event id, keeping first", logger.Fields{
				"event_id": dup.ID,
				"format":   dup.Format,
			})
			report.Duplicates = append(report.Duplicates, dup.ID)
		}
		doc.Events = merged.Events
		doc.Metadata.Source = source

		backfill := enrich.Backfill(doc.Events, st.LoadCache())

		report.Merge = merged.Stats
		report.Backfill = *backfill
		report.Total = len(doc.Events)
		if verbose {
			report.Changes = merged.Changes
		}

		logger.Info("Merged events", logger.Fields{
			"added":     merged.Stats.Added,
			"updated":   merged.Stats.Updated,
			"unchanged": merged.Stats.Unchanged,
			"migrated":  merged.Stats.Migrated,
			"preserved": merged.Stats.Preserved,
			"backfill":  backfill.Total(),
		})

		if dryRun {
			return nil
		}
		if err := st.SaveDocument(doc); err != nil {
			return fmt.Errorf("saving document: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func writeExtractText(w io.Writer, r *ExtractReport, verbose bool) {
	fmt.Fprintf(w, "Source: %s\n", r.Source)
	fmt.Fprintf(w, "Parsed %d events from %d lines (%d headers, %d skipped, %d rejected)\n\n",
		r.Parsed, r.Lines, r.Headers, r.Skipped, r.Rejected)

	if len(r.Sections) > 0 {
		names := make([]string, 0, len(r.Sections))
		for name := range r.Sections {
			names = append(names, name)
		}
		sort.Strings(names)
		rows := make([][]string, 0, len(names))
		for _, name := range names {
			rows = append(rows, []string{name, fmt.Sprint(r.Sections[name])})
		}
		printTable(w, "Sections", []string{"Section", "Events"}, rows, []columnAlignment{alignLeft, alignRight})
	}

	printTable(w, "Merge", []string{"Result", "Events"}, countRows(
		"added", r.Merge.Added,
		"updated", r.Merge.Updated,
		"unchanged", r.Merge.Unchanged,
		"migrated", r.Merge.Migrated,
		"preserved", r.Merge.Preserved,
		"duplicates", r.Merge.Duplicates,
		"backfilled fields", r.Backfill.Total(),
	), []columnAlignment{alignLeft, alignRight})

	if verbose && len(r.Changes) > 0 {
		rows := make([][]string, 0, len(r.Changes))
		for _, c := range r.Changes {
			rows = append(rows, []string{c.EventID, c.Field, truncate(c.OldValue, 40), truncate(c.NewValue, 40)})
		}
		printTable(w, "Changes", []string{"Event", "Field", "Old", "New"}, rows, nil)
	}
	if len(r.Duplicates) > 0 {
		fmt.Fprintf(w, "Dropped duplicate ids: %s\n\n", strings.Join(r.Duplicates, ", "))
	}

	switch {
	case r.DryRun:
		fmt.Fprintf(w, "Dry run: %s not written (%d events)\n", r.Document, r.Total)
	case r.Created:
		fmt.Fprintf(w, "Created %s with %d events\n", r.Document, r.Total)
	default:
		fmt.Fprintf(w, "Updated %s (%d events)\n", r.Document, r.Total)
	}
}
