package event

import (
	"strings"
)

// Type categorizes an event by the section of the listing it was found in.
type Type string

const (
	TypeRCQ       Type = "RCQ"
	TypeRC        Type = "RC"
	TypeSpotlight Type = "Magic Spotlight"
	TypeSCGCon    Type = "SCG CON"
	TypeOther     Type = "Other"
)

// DocumentFormat is written to Metadata.Version
const DocumentFormat = "1.0"

// Coordinates is a WGS84 latitude/longitude pair
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Enrichment holds the fields filled in from external lookups.
// Each field is nil until first set and is never replaced afterwards.
type Enrichment struct {
	Address     *string      `json:"address"`
	Coordinates *Coordinates `json:"coordinates"`
	Website     *string      `json:"website"`
	EventLink   *string      `json:"eventLink"`
}

// Event is one scheduled event instance parsed from the listing
type Event struct {
	ID                string  `json:"id"`
	Type              Type    `json:"type"`
	Date              string  `json:"date"` // YYYY-MM-DD
	Time              *string `json:"time"` // as written in the listing, e.g. "6:30pm"
	Venue             string  `json:"venue"`
	City              string  `json:"city"`
	State             string  `json:"state"`
	Format            string  `json:"format"`
	Notes             string  `json:"notes"`
	QualificationPath *string `json:"qualificationPath"`
	Enrichment
}

// Metadata describes a persisted Document
type Metadata struct {
	Version     string `json:"version"`
	LastUpdated string `json:"lastUpdated"` // RFC3339 timestamp
	TotalEvents int    `json:"totalEvents"`
	Source      string `json:"source,omitempty"`
}

// Document is the persisted collection consumed by the front-end
type Document struct {
	Metadata Metadata `json:"metadata"`
	Events   []*Event `json:"events"`
}

// NewDocument creates an empty document
func NewDocument(source string) *Document {
	return &Document{
		Metadata: Metadata{
			Version: DocumentFormat,
			Source:  source,
		},
		Events: make([]*Event, 0),
	}
}

// NewEvent creates an Event with its ID derived from date, venue, city and time.
// An empty time is stored as null.
func NewEvent(typ Type, date, timeSlot, venue, city, state, format, notes, qualificationPath string) *Event {
	evt := &Event{
		Type:   typ,
		Date:   date,
		Venue:  venue,
		City:   city,
		State:  state,
		Format: format,
		Notes:  notes,
	}
	if timeSlot != "" {
		evt.Time = &timeSlot
	}
	if qualificationPath != "" {
		evt.QualificationPath = &qualificationPath
	}
	evt.ID = GenerateID(date, venue, city, timeSlot)
	return evt
}

// TimeText returns the time slot or "" when the event has none.
func (e *Event) TimeText() string {
	return deref(e.Time)
}

// VenueKey returns the venue|city|state key shared by events at one location.
func (e *Event) VenueKey() VenueKey {
	return NewVenueKey(e.Venue, e.City, e.State)
}

// Clone returns a deep copy so merges never alias pointers between documents.
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}
	c := *e
	c.Time = cloneString(e.Time)
	c.QualificationPath = cloneString(e.QualificationPath)
	c.Address = cloneString(e.Address)
	c.Website = cloneString(e.Website)
	c.EventLink = cloneString(e.EventLink)
	if e.Coordinates != nil {
		coords := *e.Coordinates
		c.Coordinates = &coords
	}
	return &c
}

// VenueKey identifies a physical location as "venue|city|state".
// Matching is exact and case-sensitive.
type VenueKey string

// NewVenueKey joins the location parts with pipes
func NewVenueKey(venue, city, state string) VenueKey {
	return VenueKey(venue + "|" + city + "|" + state)
}

// Split returns the venue, city and state parts. ok is false when the key
// does not have exactly three parts.
func (k VenueKey) Split() (venue, city, state string, ok bool) {
	parts := strings.Split(string(k), "|")
	if len(parts) != 3 {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}

// ValidStates lists the two-letter codes accepted in listings.
// Unknown codes are not rejected by the parser.
var ValidStates = map[string]bool{
	"AL": true, "AK": true, "AZ": true, "AR": true, "CA": true, "CO": true, "CT": true,
	"DE": true, "FL": true, "GA": true, "HI": true, "ID": true, "IL": true, "IN": true,
	"IA": true, "KS": true, "KY": true, "LA": true, "ME": true, "MD": true, "MA": true,
	"MI": true, "MN": true, "MS": true, "MO": true, "MT": true, "NE": true, "NV": true,
	"NH": true, "NJ": true, "NM": true, "NY": true, "NC": true, "ND": true, "OH": true,
	"OK": true, "OR": true, "PA": true, "RI": true, "SC": true, "SD": true, "TN": true,
	"TX": true, "UT": true, "VT": true, "VA": true, "WA": true, "WV": true, "WI": true,
	"WY": true, "DC": true,
}

// IsValidState reports whether code is a known two-letter state code
func IsValidState(code string) bool {
	return ValidStates[code]
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr returns a pointer to s, or nil for an empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
