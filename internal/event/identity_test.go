package event

import "testing"

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		venue    string
		city     string
		timeSlot string
		want     string
	}{
		{
			name:     "with time slot",
			date:     "2026-01-03",
			venue:    "Chupacabra Games",
			city:     "Naperville",
			timeSlot: "10pm",
			want:     "2026-01-03-chupacabra-games-naperville-10pm",
		},
		{
			name:  "without time slot",
			date:  "2026-01-10",
			venue: "Store X",
			city:  "Town",
			want:  "2026-01-10-store-x-town",
		},
		{
			name:     "time with minutes",
			date:     "2026-02-07",
			venue:    "Tier 1 Games",
			city:     "Kokomo",
			timeSlot: "6:30pm",
			want:     "2026-02-07-tier-1-games-kokomo-630pm",
		},
		{
			name:  "punctuation runs collapse in venue",
			date:  "2026-03-01",
			venue: "Games & Stuff",
			city:  "St. Louis",
			want:  "2026-03-01-games-stuff-st-louis",
		},
		{
			name:  "apostrophe dropped from city",
			date:  "2026-03-01",
			venue: "The Game Room",
			city:  "O'Fallon",
			want:  "2026-03-01-the-game-room-ofallon",
		},
		{
			name:  "multi word city",
			date:  "2026-04-11",
			venue: "Game Haven",
			city:  "Bloomington Ellettsville",
			want:  "2026-04-11-game-haven-bloomington-ellettsville",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateID(tt.date, tt.venue, tt.city, tt.timeSlot)
			if got != tt.want {
				t.Errorf("GenerateID() = %q, want %q", got, tt.want)
			}
			if again := GenerateID(tt.date, tt.venue, tt.city, tt.timeSlot); again != got {
				t.Errorf("GenerateID() not deterministic: %q then %q", got, again)
			}
		})
	}
}

func TestSlugIdempotent(t *testing.T) {
	inputs := []string{
		"Chupacabra Games",
		"Games & Stuff!!",
		"  leading and trailing  ",
		"Already-a-slug",
		"ÜberCards #2",
		"",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			once := Slug(in)
			if twice := Slug(once); twice != once {
				t.Errorf("Slug(Slug(%q)) = %q, want %q", in, twice, once)
			}
			onceCity := CitySlug(in)
			if twice := CitySlug(onceCity); twice != onceCity {
				t.Errorf("CitySlug(CitySlug(%q)) = %q, want %q", in, twice, onceCity)
			}
		})
	}
}

func TestLegacyKey(t *testing.T) {
	got := LegacyKey("2026-01-03", "Chupacabra Games", "Naperville")
	want := "2026-01-03-chupacabra games-naperville"
	if got != want {
		t.Errorf("LegacyKey() = %q, want %q", got, want)
	}
}

func TestVenueKey(t *testing.T) {
	evt := NewEvent(TypeRCQ, "2026-01-03", "", "Store X", "Town", "OH", "Modern", "", "")

	if got := evt.VenueKey(); got != "Store X|Town|OH" {
		t.Errorf("VenueKey() = %q, want %q", got, "Store X|Town|OH")
	}

	venue, city, state, ok := VenueKey("Store X|Town|OH").Split()
	if !ok || venue != "Store X" || city != "Town" || state != "OH" {
		t.Errorf("Split() = %q, %q, %q, %v", venue, city, state, ok)
	}

	if _, _, _, ok := VenueKey("Store X|Town").Split(); ok {
		t.Error("Split() of two-part key should fail")
	}
}
