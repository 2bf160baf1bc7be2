package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/mtg-events/internal/event"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	dir := t.TempDir()
	s, err := New(Paths{
		Document: filepath.Join(dir, "events.json"),
		Cache:    filepath.Join(dir, ".cache.json"),
		Progress: filepath.Join(dir, ".progress.json"),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	s.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return s
}

func TestNew_RequiresDocumentPath(t *testing.T) {
	if _, err := New(Paths{}); err == nil {
		t.Error("New() with no document path expected error, got nil")
	}
}

func TestNew_CreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "nested", "data", "events.json")

	if _, err := New(Paths{Document: docPath}); err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if info, err := os.Stat(filepath.Dir(docPath)); err != nil || !info.IsDir() {
		t.Errorf("data directory not created: %v", err)
	}
}

func TestLoadDocument_NotFound(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.LoadDocument()
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("LoadDocument() error = %v, want ErrDocumentNotFound", err)
	}

	doc, created, err := s.LoadOrCreateDocument("listing.txt")
	if err != nil {
		t.Fatalf("LoadOrCreateDocument() error = %v", err)
	}
	if !created || len(doc.Events) != 0 || doc.Metadata.Source != "listing.txt" {
		t.Errorf("LoadOrCreateDocument() = %+v, %v, want new empty document", doc.Metadata, created)
	}
}

func TestLoadDocument_Corrupt(t *testing.T) {
	s := newTestStorage(t)
	if err := os.WriteFile(s.Paths().Document, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := s.LoadDocument(); err == nil || errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("LoadDocument() error = %v, want parse error", err)
	}
	if _, _, err := s.LoadOrCreateDocument("x"); err == nil {
		t.Error("LoadOrCreateDocument() on corrupt file expected error, got nil")
	}
}

func TestSaveDocument_RoundTrip(t *testing.T) {
	s := newTestStorage(t)

	evt := event.NewEvent(event.TypeRCQ, "2026-01-03", "10pm", "Chupacabra Games", "Naperville", "IL", "Standard", "", "Regional Championship")
	evt.Address = event.StringPtr("1 Main St")
	doc := event.NewDocument("listing.txt")
	doc.Events = append(doc.Events, evt, event.NewEvent(event.TypeOther, "2026-02-01", "", "Store", "Town", "OH", "Modern", "", ""))

	if err := s.SaveDocument(doc); err != nil {
		t.Fatalf("SaveDocument() error = %v", err)
	}

	loaded, err := s.LoadDocument()
	if err != nil {
		t.Fatalf("LoadDocument() error = %v", err)
	}

	if loaded.Metadata.TotalEvents != 2 {
		t.Errorf("TotalEvents = %d, want 2", loaded.Metadata.TotalEvents)
	}
	if loaded.Metadata.LastUpdated != "2026-01-02T03:04:05Z" {
		t.Errorf("LastUpdated = %q, want 2026-01-02T03:04:05Z", loaded.Metadata.LastUpdated)
	}
	if loaded.Metadata.Version != event.DocumentFormat {
		t.Errorf("Version = %q, want %q", loaded.Metadata.Version, event.DocumentFormat)
	}
	if loaded.Events[0].ID != evt.ID || *loaded.Events[0].Address != "1 Main St" {
		t.Errorf("Events[0] = %+v, want saved event", loaded.Events[0])
	}
	if loaded.Events[1].Time != nil || loaded.Events[1].QualificationPath != nil {
		t.Errorf("Events[1] nullable fields = %v, %v, want nil", loaded.Events[1].Time, loaded.Events[1].QualificationPath)
	}

	// nullable fields are written as explicit nulls
	raw, err := os.ReadFile(s.Paths().Document)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"coordinates": null`) {
		t.Error("document JSON should contain explicit null coordinates")
	}

	// no temp files left behind
	entries, _ := os.ReadDir(filepath.Dir(s.Paths().Document))
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file %s left behind", e.Name())
		}
	}
}

func TestCache_LoadSave(t *testing.T) {
	s := newTestStorage(t)

	t.Run("missing file is empty", func(t *testing.T) {
		c := s.LoadCache()
		if c.Len() != 0 || c.Addresses == nil || c.Links == nil {
			t.Errorf("LoadCache() = %+v, want empty initialized cache", c)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		key := event.NewVenueKey("Store X", "Town", "OH")
		c := NewCache()
		c.Addresses[key] = "1 Main St, Town, OH 44444"
		c.Websites[key] = "https://storex.example"
		c.Links["2026-01-10-store-x-town"] = "https://storex.example/rcq"
		c.Coordinates[key] = event.Coordinates{Lat: 40.1, Lng: -82.9}

		if err := s.SaveCache(c); err != nil {
			t.Fatalf("SaveCache() error = %v", err)
		}
		loaded := s.LoadCache()
		if loaded.Len() != 4 {
			t.Errorf("Len() = %d, want 4", loaded.Len())
		}
		if loaded.Coordinates[key].Lat != 40.1 {
			t.Errorf("Coordinates[%s] = %+v, want lat 40.1", key, loaded.Coordinates[key])
		}
	})

	t.Run("corrupt file is empty", func(t *testing.T) {
		if err := os.WriteFile(s.Paths().Cache, []byte("[1,2"), 0644); err != nil {
			t.Fatal(err)
		}
		if c := s.LoadCache(); c.Len() != 0 {
			t.Errorf("LoadCache() Len = %d, want 0", c.Len())
		}
	})

	t.Run("partial file initializes missing maps", func(t *testing.T) {
		if err := os.WriteFile(s.Paths().Cache, []byte(`{"addresses":{"A|B|C":"x"}}`), 0644); err != nil {
			t.Fatal(err)
		}
		c := s.LoadCache()
		if c.Addresses["A|B|C"] != "x" || c.Websites == nil || c.Coordinates == nil {
			t.Errorf("LoadCache() = %+v, want partial cache with initialized maps", c)
		}
	})
}

func TestProgress_SetArrayBoundary(t *testing.T) {
	s := newTestStorage(t)

	p := NewProgress()
	p.MarkVenue("Zeta|Town|OH")
	p.MarkVenue("Alpha|Town|OH")
	p.MarkVenue("Alpha|Town|OH")
	p.MarkEvent("2026-01-03-b")
	p.MarkEvent("2026-01-03-a")

	if err := s.SaveProgress(p); err != nil {
		t.Fatalf("SaveProgress() error = %v", err)
	}

	raw, err := os.ReadFile(s.Paths().Progress)
	if err != nil {
		t.Fatal(err)
	}
	var onDisk struct {
		ProcessedVenues []string `json:"processedVenues"`
		ProcessedEvents []string `json:"processedEvents"`
	}
	if err := json.Unmarshal(raw, &onDisk); err != nil {
		t.Fatalf("progress file is not JSON: %v", err)
	}
	if len(onDisk.ProcessedVenues) != 2 || onDisk.ProcessedVenues[0] != "Alpha|Town|OH" {
		t.Errorf("processedVenues = %v, want sorted unique array", onDisk.ProcessedVenues)
	}
	if len(onDisk.ProcessedEvents) != 2 || onDisk.ProcessedEvents[0] != "2026-01-03-a" {
		t.Errorf("processedEvents = %v, want sorted array", onDisk.ProcessedEvents)
	}

	loaded := s.LoadProgress()
	if !loaded.HasVenue("Zeta|Town|OH") || !loaded.HasEvent("2026-01-03-b") {
		t.Errorf("LoadProgress() = %+v, want saved sets", loaded)
	}
	if loaded.HasVenue("Missing|Town|OH") {
		t.Error("HasVenue() = true for unknown key")
	}
}

func TestProgress_MissingArrays(t *testing.T) {
	s := newTestStorage(t)
	if err := os.WriteFile(s.Paths().Progress, []byte(`{}`), 0644); err != nil {
		t.Fatal(err)
	}

	p := s.LoadProgress()
	if p.Venues == nil || p.Events == nil {
		t.Fatal("LoadProgress() returned nil sets")
	}
	p.MarkEvent("x")
	if !p.HasEvent("x") {
		t.Error("MarkEvent() not recorded")
	}
}

func TestLock(t *testing.T) {
	s := newTestStorage(t)

	first, err := s.Lock()
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}

	if _, err := s.Lock(); !errors.Is(err, ErrLocked) {
		t.Errorf("second Lock() error = %v, want ErrLocked", err)
	}

	if err := first.Unlock(); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}

	again, err := s.Lock()
	if err != nil {
		t.Fatalf("Lock() after Unlock error = %v", err)
	}
	again.Unlock()
}
