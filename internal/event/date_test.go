package event

import (
	"testing"
	"time"
)

func TestParseMonth(t *testing.T) {
	tests := []struct {
		name   string
		want   time.Month
		wantOK bool
	}{
		{"Jan", time.January, true},
		{"Sept", time.September, true},
		{"Sep", time.September, true},
		{"June", time.June, true},
		{"dec", time.December, true},
		{"Foo", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseMonth(tt.name)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseMonth(%q) = %v, %v, want %v, %v", tt.name, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name   string
		month  time.Month
		day    int
		want   string
		wantOK bool
	}{
		{"pads month and day", time.January, 3, "2026-01-03", true},
		{"end of month", time.March, 31, "2026-03-31", true},
		{"day past month end", time.February, 30, "", false},
		{"day zero", time.April, 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FormatDate(2026, tt.month, tt.day)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("FormatDate() = %q, %v, want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestEvent_IsPastEvent(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		date string
		want bool
	}{
		{"Past date", "2026-03-14", true},
		{"Today", "2026-03-15", false},
		{"Future date", "2026-04-01", false},
		{"Unparseable date", "invalid", false}, // Safe default: don't filter
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt := &Event{Date: tt.date}
			if got := evt.IsPastEvent(now); got != tt.want {
				t.Errorf("Event.IsPastEvent() = %v, want %v", got, tt.want)
			}
		})
	}
}
