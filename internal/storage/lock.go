package storage

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"
)

// ErrLocked is returned by Lock when another process holds the writer lock
var ErrLocked = errors.New("document is locked by another process")

// Lock is the single-writer lock guarding the document and its side files
type Lock struct {
	fl *flock.Flock
}

// LockPath returns the lock file used for the document
func (s *Storage) LockPath() string {
	return s.paths.Document + ".lock"
}

// Lock takes the writer lock without waiting. Callers release it with Unlock.
func (s *Storage) Lock() (*Lock, error) {
	fl := flock.New(s.LockPath())
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring lock %s: %w", s.LockPath(), err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrLocked, s.LockPath())
	}
	return &Lock{fl: fl}, nil
}

// Unlock releases the writer lock
func (l *Lock) Unlock() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
