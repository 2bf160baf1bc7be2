package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pfrederiksen/mtg-events/internal/event"
)

var (
	sameMonthRange  = regexp.MustCompile(`^([A-Za-z]+)\s+(\d{1,2})\s*-\s*(\d{1,2})$`)
	crossMonthRange = regexp.MustCompile(`^([A-Za-z]+)\s+(\d{1,2})\s*-\s*([A-Za-z]+)\s+(\d{1,2})$`)
	singleDay       = regexp.MustCompile(`^([A-Za-z]+)\s+(\d{1,2})$`)
	wholeMonth      = regexp.MustCompile(`^([A-Za-z]+)$`)
)

// ParseDateRange parses a date range string into start and end times.
//
// Supported formats:
//   - "Mar 1-15" or "March 1-15" - Same month, different days
//   - "March 1 - April 15" - Different months
//   - "Mar 7" - A single day
//   - "March" - Entire month
//
// Listing dates carry no year, so ranges are placed in year; a cross-month
// range whose end month precedes its start month ends in the following year.
// Start time is at 00:00:00, end time is at 23:59:59, both UTC.
func ParseDateRange(input string, year int) (*time.Time, *time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil, fmt.Errorf("date range cannot be empty")
	}

	if m := sameMonthRange.FindStringSubmatch(input); m != nil {
		month, err := parseMonth(m[1])
		if err != nil {
			return nil, nil, err
		}
		return dayRange(year, month, m[2], year, month, m[3])
	}

	if m := crossMonthRange.FindStringSubmatch(input); m != nil {
		month1, err := parseMonth(m[1])
		if err != nil {
			return nil, nil, err
		}
		month2, err := parseMonth(m[3])
		if err != nil {
			return nil, nil, err
		}
		year2 := year
		if month2 < month1 {
			year2++
		}
		return dayRange(year, month1, m[2], year2, month2, m[4])
	}

	if m := singleDay.FindStringSubmatch(input); m != nil {
		month, err := parseMonth(m[1])
		if err != nil {
			return nil, nil, err
		}
		return dayRange(year, month, m[2], year, month, m[2])
	}

	if m := wholeMonth.FindStringSubmatch(input); m != nil {
		month, err := parseMonth(m[1])
		if err != nil {
			return nil, nil, err
		}
		from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		// Last day of month
		to := time.Date(year, month+1, 0, 23, 59, 59, 0, time.UTC)
		return &from, &to, nil
	}

	return nil, nil, fmt.Errorf("invalid date range %q: use 'Mar 1-15', 'March 1 - April 15', 'Mar 7' or 'March'", input)
}

func parseMonth(name string) (time.Month, error) {
	month, ok := event.ParseMonth(name)
	if !ok {
		return 0, fmt.Errorf("invalid month: %s", name)
	}
	return month, nil
}

func dayRange(year1 int, month1 time.Month, day1 string, year2 int, month2 time.Month, day2 string) (*time.Time, *time.Time, error) {
	d1, err := parseDay(year1, month1, day1)
	if err != nil {
		return nil, nil, err
	}
	d2, err := parseDay(year2, month2, day2)
	if err != nil {
		return nil, nil, err
	}

	from := time.Date(year1, month1, d1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year2, month2, d2, 23, 59, 59, 0, time.UTC)
	if from.After(to) {
		return nil, nil, fmt.Errorf("start date must be before end date")
	}
	return &from, &to, nil
}

func parseDay(year int, month time.Month, s string) (int, error) {
	day, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid day: %s", s)
	}
	if _, ok := event.FormatDate(year, month, day); !ok {
		return 0, fmt.Errorf("invalid day: %s %d", month, day)
	}
	return day, nil
}
