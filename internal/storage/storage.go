package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/mtg-events/internal/event"
)

// ErrDocumentNotFound is returned by LoadDocument when no document has been
// written yet
var ErrDocumentNotFound = errors.New("document not found")

// Paths locates the files a Storage manages
type Paths struct {
	Document string
	Cache    string
	Progress string
}

// Storage handles persistence of the event document and its side files.
// Every file is read and written whole.
type Storage struct {
	paths Paths
	now   func() time.Time
}

// New creates a new Storage instance
func New(paths Paths) (*Storage, error) {
	var err error
	for _, p := range []*string{&paths.Document, &paths.Cache, &paths.Progress} {
		if *p == "" {
			continue
		}
		if *p, err = expandHome(*p); err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(*p), 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}
	if paths.Document == "" {
		return nil, errors.New("document path is required")
	}

	return &Storage{
		paths: paths,
		now:   time.Now,
	}, nil
}

// Paths returns the resolved file locations
func (s *Storage) Paths() Paths {
	return s.paths
}

// expandHome expands a leading ~/ to the home directory
func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

// LoadDocument loads the document from disk. A missing file returns
// ErrDocumentNotFound; a file that is not a valid document is an error.
func (s *Storage) LoadDocument() (*event.Document, error) {
	data, err := os.ReadFile(s.paths.Document)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, s.paths.Document)
		}
		return nil, fmt.Errorf("reading document: %w", err)
	}

	var doc event.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing document %s: %w", s.paths.Document, err)
	}

	if doc.Events == nil {
		doc.Events = make([]*event.Event, 0)
	}
	return &doc, nil
}

// LoadOrCreateDocument loads the document, or returns an empty one when none
// exists yet
func (s *Storage) LoadOrCreateDocument(source string) (*event.Document, bool, error) {
	doc, err := s.LoadDocument()
	if errors.Is(err, ErrDocumentNotFound) {
		return event.NewDocument(source), true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return doc, false, nil
}

// SaveDocument refreshes the metadata and writes the document to disk
func (s *Storage) SaveDocument(doc *event.Document) error {
	if doc.Events == nil {
		doc.Events = make([]*event.Event, 0)
	}
	doc.Metadata.Version = event.DocumentFormat
	doc.Metadata.LastUpdated = s.now().UTC().Format(time.RFC3339)
	doc.Metadata.TotalEvents = len(doc.Events)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	if err := writeFileAtomic(s.paths.Document, data); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

// writeFileAtomic writes data next to path and renames it into place so a
// crash never leaves a truncated file behind
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
