package storage

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/pfrederiksen/mtg-events/internal/event"
)

// Progress records the venues and events a research pass already handled,
// including those it gave up on. Sets in memory, sorted arrays on disk.
type Progress struct {
	Venues map[event.VenueKey]struct{}
	Events map[string]struct{}
}

// progressFile is the persisted form of Progress
type progressFile struct {
	ProcessedVenues []string `json:"processedVenues"`
	ProcessedEvents []string `json:"processedEvents"`
}

// NewProgress creates empty progress
func NewProgress() *Progress {
	return &Progress{
		Venues: make(map[event.VenueKey]struct{}),
		Events: make(map[string]struct{}),
	}
}

// MarkVenue records that key was handled
func (p *Progress) MarkVenue(key event.VenueKey) {
	p.Venues[key] = struct{}{}
}

// MarkEvent records that the event id was handled
func (p *Progress) MarkEvent(id string) {
	p.Events[id] = struct{}{}
}

// HasVenue reports whether key was handled
func (p *Progress) HasVenue(key event.VenueKey) bool {
	_, ok := p.Venues[key]
	return ok
}

// HasEvent reports whether the event id was handled
func (p *Progress) HasEvent(id string) bool {
	_, ok := p.Events[id]
	return ok
}

// MarshalJSON writes both sets as sorted arrays
func (p *Progress) MarshalJSON() ([]byte, error) {
	f := progressFile{
		ProcessedVenues: make([]string, 0, len(p.Venues)),
		ProcessedEvents: make([]string, 0, len(p.Events)),
	}
	for k := range p.Venues {
		f.ProcessedVenues = append(f.ProcessedVenues, string(k))
	}
	for id := range p.Events {
		f.ProcessedEvents = append(f.ProcessedEvents, id)
	}
	sort.Strings(f.ProcessedVenues)
	sort.Strings(f.ProcessedEvents)
	return json.Marshal(f)
}

// UnmarshalJSON reads the array form; missing arrays become empty sets
func (p *Progress) UnmarshalJSON(data []byte) error {
	var f progressFile
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*p = *NewProgress()
	for _, k := range f.ProcessedVenues {
		p.MarkVenue(event.VenueKey(k))
	}
	for _, id := range f.ProcessedEvents {
		p.MarkEvent(id)
	}
	return nil
}

// LoadProgress reads the progress file. A missing, unreadable or corrupt
// file yields empty progress.
func (s *Storage) LoadProgress() *Progress {
	if s.paths.Progress == "" {
		return NewProgress()
	}
	p := NewProgress()
	if err := readJSON(s.paths.Progress, p); err != nil {
		logWarnReset("progress", s.paths.Progress, err)
		return NewProgress()
	}
	return p
}

// SaveProgress writes the progress file
func (s *Storage) SaveProgress(p *Progress) error {
	if s.paths.Progress == "" {
		return nil
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding progress: %w", err)
	}
	if err := writeFileAtomic(s.paths.Progress, data); err != nil {
		return fmt.Errorf("writing progress: %w", err)
	}
	return nil
}
