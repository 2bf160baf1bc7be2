package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/mtg-events/internal/calendar"
	"github.com/pfrederiksen/mtg-events/internal/event"
	"github.com/pfrederiksen/mtg-events/internal/logger"
)

func newICSCmd(a *app) *cobra.Command {
	var output string
	var name string
	var upcoming bool
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "ics",
		Short: "Export events as an iCalendar feed",
		Long: `Export the stored events as an iCalendar (.ics) feed that calendar apps
can import or subscribe to. Events with a time slot start at that local time;
the rest are all-day entries. Venue addresses, coordinates and links are
included when they are known.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
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

			now := a.now()
			events := flt.Apply(doc.Events)
			if upcoming {
				kept := make([]*event.Event, 0, len(events))
				for _, evt := range events {
					if !evt.IsPastEvent(now) {
						kept = append(kept, evt)
					}
				}
				events = kept
			}
			sorted := make([]*event.Event, len(events))
			copy(sorted, events)
			event.SortByDate(sorted)

			feed := calendar.Feed(sorted, name, now)
			logger.Info("Exported calendar", logger.Fields{
				"events": len(sorted),
				"filter": flt.String(),
			})

			if output == "" || output == "-" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), feed)
				return err
			}
			if dir := filepath.Dir(output); dir != "" {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("creating output directory: %w", err)
				}
			}
			if err := os.WriteFile(output, []byte(feed), 0o644); err != nil {
				return fmt.Errorf("writing calendar: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d events to %s\n", len(sorted), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the feed to this file instead of stdout")
	cmd.Flags().StringVar(&name, "name", "MTG Events", "Calendar name shown by calendar apps")
	cmd.Flags().BoolVar(&upcoming, "upcoming", false, "Only events from today on")
	filters.register(cmd)
	return cmd
}
