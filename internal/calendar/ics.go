// Package calendar renders events as an iCalendar (RFC 5545) feed.
package calendar

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pfrederiksen/mtg-events/internal/event"
)

const (
	prodID = "-//MTG Events//mtg-events//EN"
	// uidDomain qualifies event ids so UIDs stay globally unique
	uidDomain = "mtg-events"
	// timedDuration is the assumed length of an event with a start time
	timedDuration = 4 * time.Hour
	// maxLineOctets is the folding limit for content lines
	maxLineOctets = 75
)

var timeSlot = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*([ap]m)$`)

// GenerateICS generates a single-event iCalendar file
func GenerateICS(evt *event.Event, now time.Time) string {
	return Feed([]*event.Event{evt}, "", now)
}

// Feed renders events as one calendar. Events whose date cannot be parsed
// are left out. Events with a time slot start at that local time; the rest
// are all-day entries.
func Feed(events []*event.Event, name string, now time.Time) string {
	var ics strings.Builder

	writeLine(&ics, "BEGIN:VCALENDAR")
	writeLine(&ics, "VERSION:2.0")
	writeLine(&ics, "PRODID:"+prodID)
	writeLine(&ics, "CALSCALE:GREGORIAN")
	writeLine(&ics, "METHOD:PUBLISH")
	if name != "" {
		writeLine(&ics, "X-WR-CALNAME:"+escapeICS(name))
	}

	stamp := formatICSTime(now)
	for _, evt := range events {
		writeEvent(&ics, evt, stamp)
	}

	writeLine(&ics, "END:VCALENDAR")
	return ics.String()
}

func writeEvent(ics *strings.Builder, evt *event.Event, stamp string) {
	date := event.ParseDate(evt.Date)
	if date.IsZero() {
		return
	}

	writeLine(ics, "BEGIN:VEVENT")
	writeLine(ics, fmt.Sprintf("UID:%s@%s", evt.ID, uidDomain))
	writeLine(ics, "DTSTAMP:"+stamp)

	if hour, minute, ok := parseTimeSlot(evt.TimeText()); ok {
		// floating local time: listings give the store's local clock
		start := time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, time.UTC)
		end := start.Add(timedDuration)
		writeLine(ics, "DTSTART:"+start.Format("20060102T150405"))
		writeLine(ics, "DTEND:"+end.Format("20060102T150405"))
	} else {
		writeLine(ics, "DTSTART;VALUE=DATE:"+date.Format("20060102"))
		writeLine(ics, "DTEND;VALUE=DATE:"+date.AddDate(0, 0, 1).Format("20060102"))
	}

	writeLine(ics, "SUMMARY:"+escapeICS(summary(evt)))
	writeLine(ics, "DESCRIPTION:"+escapeICS(description(evt)))
	writeLine(ics, "LOCATION:"+escapeICS(location(evt)))
	if evt.Coordinates != nil {
		writeLine(ics, fmt.Sprintf("GEO:%.6f;%.6f", evt.Coordinates.Lat, evt.Coordinates.Lng))
	}
	if url := link(evt); url != "" {
		writeLine(ics, "URL:"+url)
	}
	writeLine(ics, "CATEGORIES:"+escapeICS(string(evt.Type)))
	writeLine(ics, "STATUS:CONFIRMED")
	writeLine(ics, "TRANSP:OPAQUE")
	writeLine(ics, "END:VEVENT")
}

func summary(evt *event.Event) string {
	s := fmt.Sprintf("%s - %s", evt.Type, evt.Venue)
	if evt.Format != "" {
		s += " (" + evt.Format + ")"
	}
	return s
}

func description(evt *event.Event) string {
	lines := []string{fmt.Sprintf("%s in %s, %s", evt.Type, evt.City, evt.State)}
	if evt.Format != "" {
		lines = append(lines, "Format: "+evt.Format)
	}
	if evt.QualificationPath != nil && *evt.QualificationPath != "" {
		lines = append(lines, "Leads to: "+*evt.QualificationPath)
	}
	if evt.Notes != "" {
		lines = append(lines, "Notes: "+evt.Notes)
	}
	if evt.Website != nil && *evt.Website != "" {
		lines = append(lines, "Store: "+*evt.Website)
	}
	return strings.Join(lines, "\n")
}

func location(evt *event.Event) string {
	if evt.Address != nil && *evt.Address != "" {
		return evt.Venue + ", " + *evt.Address
	}
	return fmt.Sprintf("%s, %s, %s", evt.Venue, evt.City, evt.State)
}

// link prefers the event page and falls back to the store website
func link(evt *event.Event) string {
	if evt.EventLink != nil && *evt.EventLink != "" {
		return *evt.EventLink
	}
	if evt.Website != nil && *evt.Website != "" {
		return *evt.Website
	}
	return ""
}

// parseTimeSlot reads listing times such as "10pm" or "6:30pm"
func parseTimeSlot(s string) (hour, minute int, ok bool) {
	m := timeSlot.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if m == nil {
		return 0, 0, false
	}
	hour, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if hour < 1 || hour > 12 || minute > 59 {
		return 0, 0, false
	}
	if hour == 12 {
		hour = 0
	}
	if m[3] == "pm" {
		hour += 12
	}
	return hour, minute, true
}

// writeLine writes one content line, folded at 75 octets without splitting
// a UTF-8 sequence
func writeLine(ics *strings.Builder, line string) {
	limit := maxLineOctets
	for len(line) > limit {
		cut := limit
		for cut > 0 && !isRuneStart(line[cut]) {
			cut--
		}
		ics.WriteString(line[:cut])
		ics.WriteString("\r\n ")
		line = line[cut:]
		// continuation lines lose one octet to the leading space
		limit = maxLineOctets - 1
	}
	ics.WriteString(line)
	ics.WriteString("\r\n")
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
