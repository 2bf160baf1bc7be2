package event

import "testing"

func TestApplyIfAbsent(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(e *Event)
		field   Field
		value   Value
		want    Outcome
		wantVal string
	}{
		{
			name:    "empty address is applied",
			field:   FieldAddress,
			value:   TextValue("1 Main St"),
			want:    Applied,
			wantVal: "1 Main St",
		},
		{
			name:    "empty incoming value is skipped",
			field:   FieldWebsite,
			value:   TextValue(""),
			want:    Skipped,
			wantVal: "",
		},
		{
			name:    "same value is unchanged",
			setup:   func(e *Event) { e.Website = StringPtr("https://a.example") },
			field:   FieldWebsite,
			value:   TextValue("https://a.example"),
			want:    Unchanged,
			wantVal: "https://a.example",
		},
		{
			name:    "different value conflicts and keeps the first",
			setup:   func(e *Event) { e.EventLink = StringPtr("https://first.example") },
			field:   FieldEventLink,
			value:   TextValue("https://second.example"),
			want:    Conflict,
			wantVal: "https://first.example",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt := &Event{ID: "x"}
			if tt.setup != nil {
				tt.setup(evt)
			}

			if got := evt.ApplyIfAbsent(tt.field, tt.value); got != tt.want {
				t.Errorf("ApplyIfAbsent() = %v, want %v", got, tt.want)
			}

			got, _ := evt.Get(tt.field)
			if got.Text != tt.wantVal {
				t.Errorf("field %s = %q, want %q", tt.field, got.Text, tt.wantVal)
			}
		})
	}
}

func TestApplyIfAbsent_Coordinates(t *testing.T) {
	evt := &Event{ID: "x"}

	if got := evt.ApplyIfAbsent(FieldCoordinates, CoordinatesValue(nil)); got != Skipped {
		t.Errorf("ApplyIfAbsent(nil) = %v, want %v", got, Skipped)
	}

	first := &Coordinates{Lat: 41.77, Lng: -88.15}
	if got := evt.ApplyIfAbsent(FieldCoordinates, CoordinatesValue(first)); got != Applied {
		t.Errorf("ApplyIfAbsent(first) = %v, want %v", got, Applied)
	}

	// mutating the caller's value must not leak into the event
	first.Lat = 0
	if evt.Coordinates.Lat != 41.77 {
		t.Errorf("Coordinates.Lat = %v, want 41.77", evt.Coordinates.Lat)
	}

	second := &Coordinates{Lat: 1, Lng: 2}
	if got := evt.ApplyIfAbsent(FieldCoordinates, CoordinatesValue(second)); got != Conflict {
		t.Errorf("ApplyIfAbsent(second) = %v, want %v", got, Conflict)
	}
	if evt.Coordinates.Lat != 41.77 || evt.Coordinates.Lng != -88.15 {
		t.Errorf("Coordinates = %+v, want first value kept", *evt.Coordinates)
	}
}

func TestPreserveEnrichment(t *testing.T) {
	src := &Event{ID: "src"}
	src.Address = StringPtr("1 Main St")
	src.Coordinates = &Coordinates{Lat: 1, Lng: 2}

	dst := &Event{ID: "dst"}
	dst.Address = StringPtr("2 Side St")
	dst.Website = StringPtr("https://dst.example")

	conflicts := dst.PreserveEnrichment(src)

	if len(conflicts) != 1 || conflicts[0] != FieldAddress {
		t.Errorf("PreserveEnrichment() conflicts = %v, want [address]", conflicts)
	}
	if *dst.Address != "2 Side St" {
		t.Errorf("Address = %q, want existing value kept", *dst.Address)
	}
	if dst.Coordinates == nil || dst.Coordinates.Lat != 1 {
		t.Errorf("Coordinates = %v, want copied from src", dst.Coordinates)
	}
	if *dst.Website != "https://dst.example" {
		t.Errorf("Website = %q, want unchanged", *dst.Website)
	}
}
