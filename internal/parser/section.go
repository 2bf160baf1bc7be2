package parser

import (
	"regexp"
	"strings"

	"github.com/pfrederiksen/mtg-events/internal/event"
)

// Section is the context established by the most recent header line
type Section struct {
	Name              string
	Type              event.Type // empty when the section's lines are not collected
	QualificationPath string
}

// Active reports whether event lines in this section are parsed
func (s Section) Active() bool {
	return s.Type != ""
}

// headerRule maps marker substrings to a section. Markers are case-sensitive.
type headerRule struct {
	markers []string
	typ     event.Type
	path    *regexp.Regexp
}

var headerRules = []headerRule{
	{
		markers: []string{"Regional Championship Qualifiers"},
		typ:     event.TypeRCQ,
		path:    regexp.MustCompile(`\(leading to (.+?)\)`),
	},
	{
		markers: []string{"US Regional Championships"},
		typ:     event.TypeRC,
		path:    regexp.MustCompile(`\(.*?lead to (.+?)\)`),
	},
	{
		markers: []string{"Magic Spotlight Series", "Magic Spotlight:"},
		typ:     event.TypeSpotlight,
	},
	{
		markers: []string{"SCG CON:"},
		typ:     event.TypeSCGCon,
	},
	{
		markers: []string{"NRG Series:", "Shoebox:", "Hunter Burton Memorial Open:", "Gen Con:", "Pro Tour", "MagicCon"},
		typ:     event.TypeOther,
	},
	{
		// digital events have no venue; their lines are skipped
		markers: []string{"Digital Events:", "MTGO", "Arena Championships", "Arena Direct"},
	},
}

// ClassifyHeader reports whether line is a section header and, if so, the
// section it opens. The qualification path is taken from the header's
// parenthetical and is empty when the header has none.
func ClassifyHeader(line string) (Section, bool) {
	for _, rule := range headerRules {
		marker, ok := containsAny(line, rule.markers)
		if !ok {
			continue
		}
		sec := Section{Name: sectionName(line, marker), Type: rule.typ}
		if rule.path != nil {
			if m := rule.path.FindStringSubmatch(line); m != nil {
				sec.QualificationPath = strings.TrimSpace(m[1])
			}
		}
		return sec, true
	}
	return Section{}, false
}

func containsAny(line string, markers []string) (string, bool) {
	for _, m := range markers {
		if strings.Contains(line, m) {
			return m, true
		}
	}
	return "", false
}

// sectionName is the header text before its first colon, or the marker
func sectionName(line, marker string) string {
	if i := strings.Index(line, ":"); i > 0 {
		return strings.TrimSpace(line[:i])
	}
	return marker
}
