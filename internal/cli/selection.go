package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/mtg-events/internal/event"
	"github.com/pfrederiksen/mtg-events/internal/filter"
)

// filterFlags are the event selection flags shared by read-only commands
type filterFlags struct {
	states   []string
	types    []string
	cities   []string
	venues   []string
	formats  []string
	dates    string
	weekends bool
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.states, "state", nil, "Only events in these states (e.g. OH,IN)")
	cmd.Flags().StringSliceVar(&f.types, "type", nil, "Only events of these types (e.g. RCQ)")
	cmd.Flags().StringSliceVar(&f.cities, "city", nil, "Only events whose city contains one of these")
	cmd.Flags().StringSliceVar(&f.venues, "venue", nil, "Only events whose venue contains one of these")
	cmd.Flags().StringSliceVar(&f.formats, "play-format", nil, "Only events whose format contains one of these (e.g. modern)")
	cmd.Flags().StringVar(&f.dates, "dates", "", "Only events in a date range: 'Mar 1-15', 'March 1 - April 15' or 'March'")
	cmd.Flags().BoolVar(&f.weekends, "weekends", false, "Only events on Saturday or Sunday")
}

// build turns the flags into a filter. Date ranges are placed in year.
func (f *filterFlags) build(year int) (*filter.Filter, error) {
	flt := filter.NewFilter()
	flt.States = upper(f.states)
	flt.Cities = f.cities
	flt.Venues = f.venues
	flt.Formats = f.formats
	flt.WeekendsOnly = f.weekends
	for _, typ := range f.types {
		if typ = strings.TrimSpace(typ); typ != "" {
			flt.Types = append(flt.Types, event.Type(typ))
		}
	}

	if strings.TrimSpace(f.dates) != "" {
		from, to, err := filter.ParseDateRange(f.dates, year)
		if err != nil {
			return nil, err
		}
		flt.DateFrom, flt.DateTo = from, to
	}
	return flt, nil
}

func upper(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.ToUpper(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
