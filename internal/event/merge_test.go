package event

import (
	"encoding/json"
	"testing"
)

func sampleEvents() []*Event {
	return []*Event{
		NewEvent(TypeRCQ, "2026-01-03", "10pm", "Chupacabra Games", "Naperville", "IL", "Standard", "", "Regional Championship"),
		NewEvent(TypeRCQ, "2026-01-10", "", "Store X", "Town", "OH", "Modern", "", "Regional Championship"),
		NewEvent(TypeRCQ, "2026-01-11", "", "Store X", "Town", "OH", "Modern", "", "Regional Championship"),
		NewEvent(TypeRC, "2026-02-20", "", "Convention Center", "Chicago", "IL", "Standard", "", ""),
	}
}

// roundTrip simulates persisting and reloading a document
func roundTrip(t *testing.T, events []*Event) []*Event {
	t.Helper()
	data, err := json.Marshal(events)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var out []*Event
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	return out
}

func TestMerge_EmptyExisting(t *testing.T) {
	result := Merge(sampleEvents(), nil)

	if result.Stats.Added != 4 {
		t.Errorf("Stats.Added = %d, want 4", result.Stats.Added)
	}
	if len(result.Events) != 4 {
		t.Fatalf("len(Events) = %d, want 4", len(result.Events))
	}
	for i := 1; i < len(result.Events); i++ {
		if result.Events[i-1].Date > result.Events[i].Date {
			t.Errorf("Events not sorted by date at %d: %s > %s", i, result.Events[i-1].Date, result.Events[i].Date)
		}
	}
}

func TestMerge_Idempotent(t *testing.T) {
	first := Merge(sampleEvents(), nil)
	stored := roundTrip(t, first.Events)

	second := Merge(sampleEvents(), stored)

	want := MergeStats{Unchanged: 4}
	if second.Stats != want {
		t.Errorf("Stats = %+v, want %+v", second.Stats, want)
	}
	if len(second.Changes) != 0 {
		t.Errorf("Changes = %d, want 0", len(second.Changes))
	}
	if len(second.Events) != len(stored) {
		t.Errorf("len(Events) = %d, want %d", len(second.Events), len(stored))
	}
}

func TestMerge_PreservesEnrichment(t *testing.T) {
	stored := roundTrip(t, Merge(sampleEvents(), nil).Events)
	for _, evt := range stored {
		if evt.Venue == "Store X" {
			evt.Address = StringPtr("1 Main St, Town, OH 44444")
			evt.Coordinates = &Coordinates{Lat: 40.1, Lng: -82.9}
			evt.Website = StringPtr("https://storex.example")
			evt.EventLink = StringPtr("https://storex.example/events")
		}
	}

	// the listing changed the format; enrichment must survive
	parsed := sampleEvents()
	parsed[1].Format = "Pioneer"

	result := Merge(parsed, stored)

	if result.Stats.Updated != 1 || result.Stats.Unchanged != 3 {
		t.Errorf("Stats = %+v, want 1 updated and 3 unchanged", result.Stats)
	}

	for _, evt := range result.Events {
		if evt.Venue != "Store X" {
			continue
		}
		if evt.Address == nil || *evt.Address != "1 Main St, Town, OH 44444" {
			t.Errorf("%s: Address = %v, want preserved", evt.ID, evt.Address)
		}
		if evt.Coordinates == nil || evt.Coordinates.Lat != 40.1 {
			t.Errorf("%s: Coordinates = %v, want preserved", evt.ID, evt.Coordinates)
		}
		if evt.EventLink == nil || evt.Website == nil {
			t.Errorf("%s: Website/EventLink lost", evt.ID)
		}
	}

	if len(result.Changes) != 1 || result.Changes[0].Field != "format" {
		t.Errorf("Changes = %+v, want one format change", result.Changes)
	}
}

func TestMerge_KeepsUnmatchedRecords(t *testing.T) {
	stored := roundTrip(t, Merge(sampleEvents(), nil).Events)

	// the new extraction only contains one event
	result := Merge(sampleEvents()[:1], stored)

	if result.Stats.Preserved != 3 {
		t.Errorf("Stats.Preserved = %d, want 3", result.Stats.Preserved)
	}

	ids := make(map[string]bool)
	for _, evt := range result.Events {
		ids[evt.ID] = true
	}
	for _, evt := range stored {
		if !ids[evt.ID] {
			t.Errorf("stored event %s missing from merge result", evt.ID)
		}
	}
}

func TestMerge_MigratesLegacyID(t *testing.T) {
	legacy := NewEvent(TypeRCQ, "2026-01-03", "", "Chupacabra Games", "Naperville", "IL", "Standard", "", "")
	legacy.ID = "2026-01-03-chupacabra-games-naperville"
	legacy.Address = StringPtr("1 Main St")

	parsed := []*Event{
		NewEvent(TypeRCQ, "2026-01-03", "10pm", "Chupacabra Games", "Naperville", "IL", "Standard", "", ""),
	}

	result := Merge(parsed, []*Event{legacy})

	if result.Stats.Migrated != 1 {
		t.Errorf("Stats.Migrated = %d, want 1", result.Stats.Migrated)
	}
	if result.Stats.Preserved != 0 {
		t.Errorf("Stats.Preserved = %d, want 0 (legacy record was consumed)", result.Stats.Preserved)
	}
	if result.Stats.Updated != 1 {
		t.Errorf("Stats.Updated = %d, want 1 (id and time changed)", result.Stats.Updated)
	}
	if len(result.Events) != 1 {
		t.Fatalf("len(Events) = %d, want 1", len(result.Events))
	}
	got := result.Events[0]
	if got.ID != "2026-01-03-chupacabra-games-naperville-10pm" {
		t.Errorf("ID = %q, want new scheme", got.ID)
	}
	if got.Address == nil || *got.Address != "1 Main St" {
		t.Errorf("Address = %v, want carried over from legacy record", got.Address)
	}
}

func TestMerge_LegacyCandidatesResolvedByTime(t *testing.T) {
	early := NewEvent(TypeRCQ, "2026-01-03", "1pm", "Chupacabra Games", "Naperville", "IL", "Standard", "", "")
	early.ID = "old-early"
	early.Website = StringPtr("https://early.example")
	late := NewEvent(TypeRCQ, "2026-01-03", "6pm", "Chupacabra Games", "Naperville", "IL", "Standard", "", "")
	late.ID = "old-late"
	late.Website = StringPtr("https://late.example")

	t.Run("time matches one candidate", func(t *testing.T) {
		parsed := []*Event{
			NewEvent(TypeRCQ, "2026-01-03", "6pm", "Chupacabra Games", "Naperville", "IL", "Standard", "", ""),
		}
		result := Merge(parsed, []*Event{early, late})

		if result.Stats.Migrated != 1 || result.Stats.Preserved != 1 {
			t.Errorf("Stats = %+v, want 1 migrated and 1 preserved", result.Stats)
		}
		for _, evt := range result.Events {
			if evt.ID == parsed[0].ID && (evt.Website == nil || *evt.Website != "https://late.example") {
				t.Errorf("Website = %v, want late candidate's", evt.Website)
			}
		}
	})

	t.Run("no candidate matches time", func(t *testing.T) {
		parsed := []*Event{
			NewEvent(TypeRCQ, "2026-01-03", "9am", "Chupacabra Games", "Naperville", "IL", "Standard", "", ""),
		}
		result := Merge(parsed, []*Event{early, late})

		want := MergeStats{Added: 1, Preserved: 2}
		if result.Stats != want {
			t.Errorf("Stats = %+v, want %+v", result.Stats, want)
		}
	})
}

func TestMerge_DuplicateIDKeepsFirst(t *testing.T) {
	first := NewEvent(TypeRCQ, "2026-01-03", "", "Store X", "Town", "OH", "Modern", "", "")
	second := NewEvent(TypeRCQ, "2026-01-03", "", "Store X", "Town", "OH", "Pauper", "", "")

	result := Merge([]*Event{first, second}, nil)

	if result.Stats.Added != 1 || result.Stats.Duplicates != 1 {
		t.Errorf("Stats = %+v, want 1 added and 1 duplicate", result.Stats)
	}
	if len(result.Events) != 1 || result.Events[0].Format != "Modern" {
		t.Errorf("Events = %+v, want only the first record", result.Events)
	}
	if len(result.Duplicates) != 1 || result.Duplicates[0].Format != "Pauper" {
		t.Errorf("Duplicates = %+v, want the second record", result.Duplicates)
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	stored := roundTrip(t, Merge(sampleEvents(), nil).Events)
	stored[0].Address = StringPtr("1 Main St")

	result := Merge(sampleEvents(), stored)
	for _, evt := range result.Events {
		if evt.ID == stored[0].ID {
			evt.Website = StringPtr("https://changed.example")
		}
	}

	if stored[0].Website != nil {
		t.Error("Merge() result aliases stored records")
	}
}

func TestSortByDate(t *testing.T) {
	events := []*Event{
		NewEvent(TypeOther, "2026-03-01", "", "B", "C", "IL", "", "", ""),
		NewEvent(TypeOther, "2026-01-01", "6pm", "A", "C", "IL", "", "", ""),
		NewEvent(TypeOther, "2026-01-01", "1pm", "A", "C", "IL", "", "", ""),
		NewEvent(TypeOther, "2026-02-01", "", "A", "C", "IL", "", "", ""),
	}

	SortByDate(events)

	want := []string{
		"2026-01-01-a-c-1pm",
		"2026-01-01-a-c-6pm",
		"2026-02-01-a-c",
		"2026-03-01-b-c",
	}
	for i, evt := range events {
		if evt.ID != want[i] {
			t.Errorf("SortByDate() at position %d = %q, want %q", i, evt.ID, want[i])
		}
	}
}
