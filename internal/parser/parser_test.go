package parser

import (
	"testing"

	"github.com/pfrederiksen/mtg-events/internal/event"
)

func rcqContext() Context {
	return Context{Type: event.TypeRCQ, QualificationPath: "Regional Championship", Year: 2026}
}

func TestParseLine_SingleDayWithTime(t *testing.T) {
	events := ParseLine("Jan 3 10pm - Chupacabra Games - Naperville, IL - Standard", rcqContext())
	if len(events) != 1 {
		t.Fatalf("ParseLine() returned %d events, want 1", len(events))
	}
	got := events[0]

	checks := []struct {
		field string
		got   string
		want  string
	}{
		{"id", got.ID, "2026-01-03-chupacabra-games-naperville-10pm"},
		{"type", string(got.Type), "RCQ"},
		{"date", got.Date, "2026-01-03"},
		{"time", got.TimeText(), "10pm"},
		{"venue", got.Venue, "Chupacabra Games"},
		{"city", got.City, "Naperville"},
		{"state", got.State, "IL"},
		{"format", got.Format, "Standard"},
		{"notes", got.Notes, ""},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.field, c.got, c.want)
		}
	}
	if got.QualificationPath == nil || *got.QualificationPath != "Regional Championship" {
		t.Errorf("qualificationPath = %v, want %q", got.QualificationPath, "Regional Championship")
	}
	if got.Address != nil || got.Coordinates != nil || got.Website != nil || got.EventLink != nil {
		t.Error("parsed event should have no enrichment")
	}
}

func TestParseLine_DayRange(t *testing.T) {
	events := ParseLine("Jan 10-11 - Store X - Town, OH - Modern", rcqContext())
	if len(events) != 2 {
		t.Fatalf("ParseLine() returned %d events, want 2", len(events))
	}

	wantDates := []string{"2026-01-10", "2026-01-11"}
	for i, evt := range events {
		if evt.Date != wantDates[i] {
			t.Errorf("events[%d].Date = %q, want %q", i, evt.Date, wantDates[i])
		}
		if evt.Time != nil {
			t.Errorf("events[%d].Time = %q, want nil", i, *evt.Time)
		}
		if evt.Venue != "Store X" || evt.City != "Town" || evt.State != "OH" || evt.Format != "Modern" {
			t.Errorf("events[%d] = %+v, want shared location and format", i, evt)
		}
	}
	if events[0].ID == events[1].ID {
		t.Errorf("range events share id %q", events[0].ID)
	}
}

func TestParseLine_Variants(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantCount  int
		wantID     string
		wantCity   string
		wantFormat string
		wantNotes  string
	}{
		{
			name:       "no time",
			line:       "Feb 7 - Tier 1 Games - Kokomo, IN - Standard",
			wantCount:  1,
			wantID:     "2026-02-07-tier-1-games-kokomo",
			wantCity:   "Kokomo",
			wantFormat: "Standard",
		},
		{
			name:       "time with minutes",
			line:       "Mar 14 6:30pm - The Game Closet - Winston-Salem, NC - Pioneer",
			wantCount:  1,
			wantID:     "2026-03-14-the-game-closet-winston-salem-630pm",
			wantCity:   "Winston-Salem",
			wantFormat: "Pioneer",
		},
		{
			name:       "city with internal separator",
			line:       "Apr 4 - Comic Shop - Bloomington - Ellettsville, IN - Modern",
			wantCount:  1,
			wantID:     "2026-04-04-comic-shop-bloomington-ellettsville",
			wantCity:   "Bloomington Ellettsville",
			wantFormat: "Modern",
		},
		{
			name:       "notes token",
			line:       "May 2 1pm - Store Y - Dayton, OH - 2-slot Sealed",
			wantCount:  1,
			wantID:     "2026-05-02-store-y-dayton-1pm",
			wantCity:   "Dayton",
			wantFormat: "Sealed",
			wantNotes:  "2-slot",
		},
		{
			name:       "question mark notes token",
			line:       "Sept 12 - Store Z - Akron, OH - TLA? Standard",
			wantCount:  1,
			wantID:     "2026-09-12-store-z-akron",
			wantCity:   "Akron",
			wantFormat: "Standard",
			wantNotes:  "TLA?",
		},
		{
			name:       "range dropping impossible days",
			line:       "Feb 28-30 - Store X - Town, OH - Modern",
			wantCount:  1,
			wantID:     "2026-02-28-store-x-town",
			wantCity:   "Town",
			wantFormat: "Modern",
		},
		{name: "blank", line: "   ", wantCount: 0},
		{name: "annotation", line: "* All events subject to change", wantCount: 0},
		{name: "stray note with colon", line: "Note: bring your own deck", wantCount: 0},
		{name: "unknown month", line: "Foo 3 - Store - Town, OH - Modern", wantCount: 0},
		{name: "impossible date", line: "Feb 30 - Store - Town, OH - Modern", wantCount: 0},
		{name: "time outside the listing vocabulary", line: "Jan 3 7:15pm - Store - Town, OH - Modern", wantCount: 0},
		{name: "missing state", line: "Jan 3 - Store - Town - Modern", wantCount: 0},
		{name: "free text", line: "Check back for more events", wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := ParseLine(tt.line, rcqContext())
			if len(events) != tt.wantCount {
				t.Fatalf("ParseLine(%q) returned %d events, want %d", tt.line, len(events), tt.wantCount)
			}
			if tt.wantCount == 0 {
				return
			}
			got := events[0]
			if got.ID != tt.wantID {
				t.Errorf("ID = %q, want %q", got.ID, tt.wantID)
			}
			if got.City != tt.wantCity {
				t.Errorf("City = %q, want %q", got.City, tt.wantCity)
			}
			if got.Format != tt.wantFormat {
				t.Errorf("Format = %q, want %q", got.Format, tt.wantFormat)
			}
			if got.Notes != tt.wantNotes {
				t.Errorf("Notes = %q, want %q", got.Notes, tt.wantNotes)
			}
		})
	}
}

func TestParseLine_DefaultsContext(t *testing.T) {
	events := ParseLine("Jan 3 - Store - Town, OH - Modern", Context{})
	if len(events) != 1 {
		t.Fatalf("ParseLine() returned %d events, want 1", len(events))
	}
	if events[0].Type != event.TypeOther {
		t.Errorf("Type = %q, want %q", events[0].Type, event.TypeOther)
	}
	if events[0].Date != "2026-01-03" {
		t.Errorf("Date = %q, want default year", events[0].Date)
	}
	if events[0].QualificationPath != nil {
		t.Errorf("QualificationPath = %q, want nil", *events[0].QualificationPath)
	}
}

func TestClassifyHeader(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantOK   bool
		wantType event.Type
		wantPath string
	}{
		{
			name:     "qualifier with path",
			line:     "Regional Championship Qualifiers (leading to Regional Championship):",
			wantOK:   true,
			wantType: event.TypeRCQ,
			wantPath: "Regional Championship",
		},
		{
			name:     "championship with path",
			line:     "US Regional Championships (these events lead to Pro Tour):",
			wantOK:   true,
			wantType: event.TypeRC,
			wantPath: "Pro Tour",
		},
		{
			name:     "spotlight",
			line:     "Magic Spotlight Series:",
			wantOK:   true,
			wantType: event.TypeSpotlight,
		},
		{
			name:     "scg con",
			line:     "SCG CON: Cincinnati",
			wantOK:   true,
			wantType: event.TypeSCGCon,
		},
		{
			name:     "other series",
			line:     "NRG Series: Spring Tour",
			wantOK:   true,
			wantType: event.TypeOther,
		},
		{
			name:   "skipped digital section",
			line:   "Digital Events:",
			wantOK: true,
		},
		{
			name:   "markers are case-sensitive",
			line:   "regional championship qualifiers",
			wantOK: false,
		},
		{
			name:   "event line",
			line:   "Jan 3 - Store - Town, OH - Modern",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sec, ok := ClassifyHeader(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("ClassifyHeader(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if sec.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", sec.Type, tt.wantType)
			}
			if sec.QualificationPath != tt.wantPath {
				t.Errorf("QualificationPath = %q, want %q", sec.QualificationPath, tt.wantPath)
			}
		})
	}
}

const sampleListing = `Upcoming Magic events in the Midwest

Jan 2 - Orphan Line - Nowhere, IL - Standard

Regional Championship Qualifiers (leading to Regional Championship):
Jan 3 10pm - Chupacabra Games - Naperville, IL - Standard
Jan 10-11 - Store X - Town, OH - Modern
* Store X runs both days
Note: check store pages for start times

Digital Events:
Jan 5 - Online Qualifier - Web, XX - Vintage

Magic Spotlight Series:
Feb 14-15 - Convention Center - Chicago, IL - Standard
Feb 20 - Broken Line Without Location
`

func TestParser_ParseText(t *testing.T) {
	result := New(2026).ParseText(sampleListing)

	wantIDs := []string{
		"2026-01-03-chupacabra-games-naperville-10pm",
		"2026-01-10-store-x-town",
		"2026-01-11-store-x-town",
		"2026-02-14-convention-center-chicago",
		"2026-02-15-convention-center-chicago",
	}
	if len(result.Events) != len(wantIDs) {
		t.Fatalf("Parse() returned %d events, want %d", len(result.Events), len(wantIDs))
	}
	for i, evt := range result.Events {
		if evt.ID != wantIDs[i] {
			t.Errorf("events[%d].ID = %q, want %q", i, evt.ID, wantIDs[i])
		}
	}

	if result.Headers != 3 {
		t.Errorf("Headers = %d, want 3", result.Headers)
	}
	// the orphan line before any header and the digital event
	if result.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", result.Skipped)
	}
	if result.Rejected != 1 {
		t.Errorf("Rejected = %d, want 1", result.Rejected)
	}

	spotlight := result.Events[3]
	if spotlight.Type != event.TypeSpotlight {
		t.Errorf("spotlight Type = %q, want %q", spotlight.Type, event.TypeSpotlight)
	}
	// a header without a parenthetical clears the qualification path
	if spotlight.QualificationPath != nil {
		t.Errorf("spotlight QualificationPath = %q, want nil", *spotlight.QualificationPath)
	}
	if got := result.Sections["Regional Championship Qualifiers (leading to Regional Championship)"]; got != 3 {
		t.Errorf("Sections[RCQ] = %d, want 3", got)
	}
}

func TestParser_Idempotent(t *testing.T) {
	p := New(0)
	first := event.Merge(p.ParseText(sampleListing).Events, nil)
	second := event.Merge(p.ParseText(sampleListing).Events, first.Events)

	if second.Stats.Added != 0 || second.Stats.Preserved != 0 || second.Stats.Updated != 0 {
		t.Errorf("second merge Stats = %+v, want only unchanged", second.Stats)
	}
	if second.Stats.Unchanged != len(first.Events) {
		t.Errorf("Stats.Unchanged = %d, want %d", second.Stats.Unchanged, len(first.Events))
	}
}
