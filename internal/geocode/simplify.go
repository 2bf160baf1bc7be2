package geocode

import (
	"regexp"
	"strings"
)

// unitDesignator matches suite/unit parts such as ", Suite 200", " Ste B",
// " #4" or ", Mailbox 12". Keywords must stand alone so "Chester Ave" survives.
var unitDesignator = regexp.MustCompile(`(?i),?\s*(?:\b(?:Suite|Ste|Unit|Apt|Mailbox)\b\.?|#)\s*[A-Za-z0-9-]+`)

// SimplifyAddress removes suite and unit designators and collapses whitespace.
// The result equals address when there was nothing to remove.
func SimplifyAddress(address string) string {
	simplified := unitDesignator.ReplaceAllString(address, "")
	return strings.Join(strings.Fields(simplified), " ")
}
