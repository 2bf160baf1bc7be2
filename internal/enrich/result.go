package enrich

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pfrederiksen/mtg-events/internal/event"
	"github.com/pfrederiksen/mtg-events/internal/logger"
)

// ErrMalformedResult marks a batch entry that cannot be applied
var ErrMalformedResult = errors.New("malformed result")

// ResultType distinguishes venue answers from event answers
type ResultType string

const (
	TypeAddress ResultType = "address"
	TypeLink    ResultType = "link"
)

// Result is one researched answer. Address results use VenueKey, Address,
// Website and Coordinates; link results use EventID and Link. Empty values
// mean the answer was not found.
type Result struct {
	Type        ResultType
	VenueKey    event.VenueKey
	Address     string
	Website     string
	Coordinates *event.Coordinates
	EventID     string
	Link        string
}

type addressWire struct {
	Type        ResultType         `json:"type"`
	VenueKey    event.VenueKey     `json:"venueKey"`
	Address     string             `json:"address"`
	Website     string             `json:"website"`
	Coordinates *event.Coordinates `json:"coordinates"`
}

type linkWire struct {
	Type    ResultType `json:"type"`
	EventID string     `json:"eventId"`
	Link    string     `json:"link"`
}

// anyWire accepts either shape; nulls decode to empty values
type anyWire struct {
	Type        ResultType         `json:"type"`
	VenueKey    *string            `json:"venueKey"`
	Address     *string            `json:"address"`
	Website     *string            `json:"website"`
	Coordinates *event.Coordinates `json:"coordinates"`
	EventID     *string            `json:"eventId"`
	Link        *string            `json:"link"`
}

// MarshalJSON writes the shape matching r.Type
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Type == TypeLink {
		return json.Marshal(linkWire{Type: r.Type, EventID: r.EventID, Link: r.Link})
	}
	return json.Marshal(addressWire{
		Type:        r.Type,
		VenueKey:    r.VenueKey,
		Address:     r.Address,
		Website:     r.Website,
		Coordinates: r.Coordinates,
	})
}

// UnmarshalJSON reads either shape and validates it
func (r *Result) UnmarshalJSON(data []byte) error {
	var w anyWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResult, err)
	}
	res := Result{
		Type:        w.Type,
		VenueKey:    event.VenueKey(str(w.VenueKey)),
		Address:     strings.TrimSpace(str(w.Address)),
		Website:     strings.TrimSpace(str(w.Website)),
		Coordinates: w.Coordinates,
		EventID:     strings.TrimSpace(str(w.EventID)),
		Link:        strings.TrimSpace(str(w.Link)),
	}
	if err := res.Validate(); err != nil {
		return err
	}
	*r = res
	return nil
}

// Validate checks that the result names a venue or event it can apply to
func (r Result) Validate() error {
	switch r.Type {
	case TypeAddress:
		if _, _, _, ok := r.VenueKey.Split(); !ok {
			return fmt.Errorf("%w: venueKey %q is not venue|city|state", ErrMalformedResult, r.VenueKey)
		}
		if c := r.Coordinates; c != nil && (c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180) {
			return fmt.Errorf("%w: coordinates %v out of range", ErrMalformedResult, *c)
		}
	case TypeLink:
		if r.EventID == "" {
			return fmt.Errorf("%w: link result without eventId", ErrMalformedResult)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrMalformedResult, r.Type)
	}
	return nil
}

// Batch is a decoded results file
type Batch struct {
	Results []Result
	// Malformed counts entries that were skipped
	Malformed int
}

// DecodeBatch reads a JSON array of results. Entries that fail to decode or
// validate are skipped with a warning; only a non-array input is an error.
func DecodeBatch(r io.Reader) (*Batch, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("results batch must be a JSON array: %w", err)
	}

	batch := &Batch{Results: make([]Result, 0, len(raw))}
	for i, entry := range raw {
		var res Result
		if err := json.Unmarshal(entry, &res); err != nil {
			batch.Malformed++
			logger.Warn("Skipping malformed result", logger.Fields{
				"index": i,
				"error": err.Error(),
			})
			continue
		}
		batch.Results = append(batch.Results, res)
	}
	return batch, nil
}

// ReadBatch decodes the results file at path
func ReadBatch(path string) (*Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening results: %w", err)
	}
	defer f.Close()

	batch, err := DecodeBatch(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return batch, nil
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
