package event

import (
	"fmt"
	"strings"
	"time"
)

// ISODateLayout is the layout of Event.Date
const ISODateLayout = "2006-01-02"

var months = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// ParseMonth resolves a month name or abbreviation ("Jan", "Sept", "June").
func ParseMonth(name string) (time.Month, bool) {
	m, ok := months[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}

// FormatDate builds a YYYY-MM-DD string. ok is false when the day does not
// exist in that month (e.g. Feb 30).
func FormatDate(year int, month time.Month, day int) (string, bool) {
	if day < 1 || day > 31 {
		return "", false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Month() != month || t.Day() != day {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day), true
}

// ParseDate parses an ISO event date.
// Returns time.Time{} (zero value) if parsing fails.
func ParseDate(date string) time.Time {
	t, err := time.Parse(ISODateLayout, date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// IsPastEvent reports whether the event's date is before today.
// Returns false if the date cannot be parsed (safer default).
func (e *Event) IsPastEvent(now time.Time) bool {
	parsed := ParseDate(e.Date)
	if parsed.IsZero() {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return parsed.Before(today)
}
