package event

import (
	"regexp"
	"strings"
)

var (
	nonSlugRun    = regexp.MustCompile(`[^a-z0-9]+`)
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonCityChar   = regexp.MustCompile(`[^a-z0-9-]`)
	nonAlnum      = regexp.MustCompile(`[^a-z0-9]`)
)

// GenerateID creates the deterministic identifier for an event:
//
//	date-slug(venue)-citySlug(city)[-timeSlug(time)]
//
// Two events sharing date, venue, city and time produce the same ID.
func GenerateID(date, venue, city, timeSlot string) string {
	id := date + "-" + Slug(venue) + "-" + CitySlug(city)
	if ts := TimeSlug(timeSlot); ts != "" {
		id += "-" + ts
	}
	return id
}

// Slug lowercases s and replaces every run of non-alphanumeric characters
// with a single hyphen. Slug(Slug(s)) == Slug(s).
func Slug(s string) string {
	return nonSlugRun.ReplaceAllString(strings.ToLower(s), "-")
}

// CitySlug lowercases s, turns whitespace runs into hyphens and drops anything
// outside [a-z0-9-].
func CitySlug(s string) string {
	s = whitespaceRun.ReplaceAllString(strings.ToLower(s), "-")
	return nonCityChar.ReplaceAllString(s, "")
}

// TimeSlug keeps only the alphanumerics of a time slot ("6:30pm" -> "630pm").
func TimeSlug(s string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(s), "")
}

// LegacyKey is the lookup key used to find records persisted before time
// slots were part of the ID. It is not slugged.
func LegacyKey(date, venue, city string) string {
	return date + "-" + strings.ToLower(venue) + "-" + strings.ToLower(city)
}

// LegacyKey returns the legacy lookup key for e
func (e *Event) LegacyKey() string {
	return LegacyKey(e.Date, e.Venue, e.City)
}
