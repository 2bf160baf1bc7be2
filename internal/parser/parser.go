package parser

import (
	"strings"

	"github.com/pfrederiksen/mtg-events/internal/event"
)

// Result holds the records parsed from a listing and per-line counters
type Result struct {
	Events   []*event.Event
	Lines    int // non-blank lines read
	Headers  int // section headers recognized
	Skipped  int // event-shaped lines in inactive sections
	Rejected int // event-shaped lines in active sections no rule produced a record for
	Sections map[string]int
}

// Parser walks listing lines and tracks the current section
type Parser struct {
	year int
}

// New creates a Parser that dates events in year. A zero year uses DefaultYear.
func New(year int) *Parser {
	if year == 0 {
		year = DefaultYear
	}
	return &Parser{year: year}
}

// Parse classifies each line as a header or a candidate event line and
// returns the records produced, in listing order.
//
// Lines before the first recognized header, and lines in skipped sections
// such as digital events, produce nothing. Headers never carry events.
func (p *Parser) Parse(lines []string) *Result {
	result := &Result{
		Events:   make([]*event.Event, 0),
		Sections: make(map[string]int),
	}

	var current Section
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		result.Lines++

		if sec, ok := ClassifyHeader(line); ok {
			current = sec
			result.Headers++
			continue
		}

		if !IsEventLine(line) {
			continue
		}
		if !current.Active() {
			result.Skipped++
			continue
		}

		events := ParseLine(line, Context{
			Type:              current.Type,
			QualificationPath: current.QualificationPath,
			Year:              p.year,
		})
		if len(events) == 0 {
			result.Rejected++
			continue
		}
		result.Sections[current.Name] += len(events)
		result.Events = append(result.Events, events...)
	}

	return result
}

// ParseText splits text into lines and parses them
func (p *Parser) ParseText(text string) *Result {
	return p.Parse(strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n"))
}
