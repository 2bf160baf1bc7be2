package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pfrederiksen/mtg-events/internal/event"
)

// DefaultYear is used for dates since listing lines carry no year
const DefaultYear = 2026

// Context is the section state a line is parsed under
type Context struct {
	Type              event.Type
	QualificationPath string
	Year              int
}

// Rule is one entry of the line grammar. Extract returns nil when the match
// cannot produce a valid record (unknown month, impossible date).
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Extract func(m []string, ctx Context) []*event.Event
}

var (
	// location and format share one shape across rules:
	// <venue> - <city>[, <extra>], <ST> - <format/notes>
	rangeRest = regexp.MustCompile(`^(.+?)\s+-\s+([^,]+),\s+([A-Z]{2})\s+-\s+(.+)$`)

	dateToken     = regexp.MustCompile(`^\w+\s+\d+`)
	eventLine     = regexp.MustCompile(`^[A-Za-z]+\s+\d+`)
	citySeparator = regexp.MustCompile(`\s+-\s*|\s*-\s+`)
	notesPrefix   = regexp.MustCompile(`^(2-slot|TLA\?|ECL\?|TMT|CEDH)\s+(.+)$`)
)

// Rules is the ordered line grammar; the first matching rule wins.
var Rules = []Rule{
	{
		// "Jan 10-11 - Store X - Town, OH - Modern"
		Name:    "day-range",
		Pattern: regexp.MustCompile(`^([A-Za-z]+)\s+(\d+)-(\d+)\s+-\s+(.+)$`),
		Extract: extractRange,
	},
	{
		// "Jan 3 10pm - Chupacabra Games - Naperville, IL - Standard"
		// "Jan 3 - Tier 1 Games - Kokomo, IN - Standard"
		// Times are whole hours ("1pm") or the listing's one half-hour slot
		// "6:30pm"; other clock times reject the line.
		Name:    "single-day",
		Pattern: regexp.MustCompile(`^([A-Za-z]+)\s+(\d+)(?:\s+(\d{1,2}[ap]m|6:30pm))?\s+-\s+(.+?)\s+-\s+([^,]+(?:,\s*[^,]+)?),\s+([A-Z]{2})\s+-\s+(.+)$`),
		Extract: extractSingle,
	},
}

// IsEventLine reports whether line starts with a month-name-then-digits token
func IsEventLine(line string) bool {
	return eventLine.MatchString(line)
}

// ParseLine parses one listing line. It returns nil for blank lines,
// annotations ("*..."), stray notes and anything no rule matches.
func ParseLine(line string, ctx Context) []*event.Event {
	line = strings.TrimSpace(line)
	if rejected(line) {
		return nil
	}
	if ctx.Year == 0 {
		ctx.Year = DefaultYear
	}
	if ctx.Type == "" {
		ctx.Type = event.TypeOther
	}

	for _, rule := range Rules {
		m := rule.Pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		// a matching rule owns the line even when it yields nothing
		return rule.Extract(m, ctx)
	}
	return nil
}

func rejected(line string) bool {
	if line == "" || strings.HasPrefix(line, "*") {
		return true
	}
	return strings.Contains(line, ":") && !dateToken.MatchString(line)
}

func extractRange(m []string, ctx Context) []*event.Event {
	month, ok := event.ParseMonth(m[1])
	if !ok {
		return nil
	}
	start, err1 := strconv.Atoi(m[2])
	end, err2 := strconv.Atoi(m[3])
	if err1 != nil || err2 != nil || start > end {
		return nil
	}
	rest := rangeRest.FindStringSubmatch(m[4])
	if rest == nil {
		return nil
	}

	venue := strings.TrimSpace(rest[1])
	city := normalizeCity(rest[2])
	state := strings.TrimSpace(rest[3])
	format, notes := splitNotes(rest[4])

	var events []*event.Event
	for day := start; day <= end; day++ {
		date, ok := event.FormatDate(ctx.Year, month, day)
		if !ok {
			continue
		}
		events = append(events, event.NewEvent(ctx.Type, date, "", venue, city, state, format, notes, ctx.QualificationPath))
	}
	return events
}

func extractSingle(m []string, ctx Context) []*event.Event {
	month, ok := event.ParseMonth(m[1])
	if !ok {
		return nil
	}
	day, err := strconv.Atoi(m[2])
	if err != nil {
		return nil
	}
	date, ok := event.FormatDate(ctx.Year, month, day)
	if !ok {
		return nil
	}

	timeSlot := m[3]
	venue := strings.TrimSpace(m[4])
	city := normalizeCity(m[5])
	state := strings.TrimSpace(m[6])
	format, notes := splitNotes(m[7])

	return []*event.Event{
		event.NewEvent(ctx.Type, date, timeSlot, venue, city, state, format, notes, ctx.QualificationPath),
	}
}

// normalizeCity joins "Bloomington - Ellettsville" into "Bloomington Ellettsville".
// Hyphenated names like "Winston-Salem" are kept.
func normalizeCity(city string) string {
	return strings.TrimSpace(citySeparator.ReplaceAllString(strings.TrimSpace(city), " "))
}

// splitNotes moves a leading annotation token ("2-slot", "TMT", ...) out of the
// format field.
func splitNotes(field string) (format, notes string) {
	field = strings.TrimSpace(field)
	if m := notesPrefix.FindStringSubmatch(field); m != nil {
		return strings.TrimSpace(m[2]), m[1]
	}
	return field, ""
}
