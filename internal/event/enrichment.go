package event

import "fmt"

// Field names one of the enrichment fields
type Field string

const (
	FieldAddress     Field = "address"
	FieldCoordinates Field = "coordinates"
	FieldWebsite     Field = "website"
	FieldEventLink   Field = "eventLink"
)

// EnrichmentFields lists every enrichment field in document order
var EnrichmentFields = []Field{FieldAddress, FieldCoordinates, FieldWebsite, FieldEventLink}

// Outcome reports what ApplyIfAbsent did
type Outcome int

const (
	// Skipped means the incoming value was empty; nothing to apply.
	Skipped Outcome = iota
	// Applied means the field was empty and now holds the value.
	Applied
	// Unchanged means the field already held an equal value.
	Unchanged
	// Conflict means the field already held a different value, which was kept.
	Conflict
)

func (o Outcome) String() string {
	switch o {
	case Skipped:
		return "skipped"
	case Applied:
		return "applied"
	case Unchanged:
		return "unchanged"
	case Conflict:
		return "conflict"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Value is an incoming enrichment value. Exactly one of Text or Coordinates is
// used, depending on the field.
type Value struct {
	Text        string
	Coordinates *Coordinates
}

// TextValue wraps a string value
func TextValue(s string) Value {
	return Value{Text: s}
}

// CoordinatesValue wraps a coordinate pair
func CoordinatesValue(c *Coordinates) Value {
	return Value{Coordinates: c}
}

// ApplyIfAbsent is the single write path for enrichment fields: the value is
// stored only when the field is still nil. A non-nil field is never cleared
// or replaced.
func (e *Event) ApplyIfAbsent(field Field, v Value) Outcome {
	switch field {
	case FieldCoordinates:
		if v.Coordinates == nil {
			return Skipped
		}
		if e.Coordinates == nil {
			c := *v.Coordinates
			e.Coordinates = &c
			return Applied
		}
		if *e.Coordinates == *v.Coordinates {
			return Unchanged
		}
		return Conflict
	case FieldAddress:
		return applyText(&e.Address, v.Text)
	case FieldWebsite:
		return applyText(&e.Website, v.Text)
	case FieldEventLink:
		return applyText(&e.EventLink, v.Text)
	}
	return Skipped
}

func applyText(dst **string, s string) Outcome {
	if s == "" {
		return Skipped
	}
	if *dst == nil {
		v := s
		*dst = &v
		return Applied
	}
	if **dst == s {
		return Unchanged
	}
	return Conflict
}

// Get returns the current value of an enrichment field
func (e *Event) Get(field Field) (Value, bool) {
	switch field {
	case FieldCoordinates:
		if e.Coordinates == nil {
			return Value{}, false
		}
		return CoordinatesValue(e.Coordinates), true
	case FieldAddress:
		return textOf(e.Address)
	case FieldWebsite:
		return textOf(e.Website)
	case FieldEventLink:
		return textOf(e.EventLink)
	}
	return Value{}, false
}

// Has reports whether the field is set
func (e *Event) Has(field Field) bool {
	_, ok := e.Get(field)
	return ok
}

func textOf(s *string) (Value, bool) {
	if s == nil {
		return Value{}, false
	}
	return TextValue(*s), true
}

// PreserveEnrichment copies every set field of src into e with ApplyIfAbsent
// semantics and returns the fields that conflicted.
func (e *Event) PreserveEnrichment(src *Event) []Field {
	var conflicts []Field
	for _, f := range EnrichmentFields {
		v, ok := src.Get(f)
		if !ok {
			continue
		}
		if e.ApplyIfAbsent(f, v) == Conflict {
			conflicts = append(conflicts, f)
		}
	}
	return conflicts
}
