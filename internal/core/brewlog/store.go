// Package brewlog keeps the ordered history of brews in a CSV file. Entries
// are identified by their position in append order.
package brewlog

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/neilberkman/espressolog/internal/core/models"
)

// Store is the in-memory brew log backed by a CSV file. Every mutation
// rewrites the whole file.
type Store struct {
	mu      sync.Mutex
	path    string
	entries []models.BrewLogEntry
	now     func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the time source used to stamp appended entries
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open loads the log at path, creating it with only the header row when it
// does not exist yet. A malformed file is rejected as a whole.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{path: path, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, &IOError{Op: "create directory for", Path: path, Err: err}
		}
		if err := s.persist(nil); err != nil {
			return nil, err
		}
		return s, nil
	case err != nil:
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}

	entries, err := readEntries(bytes.NewReader(data))
	if err != nil {
		if perr, ok := err.(*ParseError); ok {
			perr.Path = path
			return nil, perr
		}
		return nil, &ParseError{Path: path, Err: err}
	}
	s.entries = entries
	return s, nil
}

// Path returns the file backing the store
func (s *Store) Path() string {
	return s.path
}

// Len returns the number of entries
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// List returns a copy of all entries in append order
func (s *Store) List() []models.BrewLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.BrewLogEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Get returns the entry at index
func (s *Store) Get(index int) (models.BrewLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIndex(index); err != nil {
		return models.BrewLogEntry{}, err
	}
	return s.entries[index], nil
}

// Append stamps the entry with the current time, adds it to the end of the
// log and persists. It returns the index assigned to the entry and the
// stored entry.
func (s *Store) Append(ctx context.Context, entry models.BrewLogEntry) (int, models.BrewLogEntry, error) {
	if err := ctx.Err(); err != nil {
		return 0, models.BrewLogEntry{}, err
	}
	if err := entry.Session.Validate(); err != nil {
		return 0, models.BrewLogEntry{}, fmt.Errorf("append: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry.Timestamp = s.now().Truncate(time.Second)
	next := make([]models.BrewLogEntry, len(s.entries), len(s.entries)+1)
	copy(next, s.entries)
	next = append(next, entry)

	if err := s.persist(next); err != nil {
		return 0, models.BrewLogEntry{}, err
	}
	s.entries = next
	return len(next) - 1, entry, nil
}

// SetFavorite sets the favorite flag of the entry at index and persists.
// Setting the flag to its current value still rewrites the file.
func (s *Store) SetFavorite(ctx context.Context, index int, favorite bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkIndex(index); err != nil {
		return err
	}
	next := make([]models.BrewLogEntry, len(s.entries))
	copy(next, s.entries)
	next[index].Session.Favorite = favorite

	if err := s.persist(next); err != nil {
		return err
	}
	s.entries = next
	return nil
}

// BatchDelete removes every entry whose index is in indices, treated as a
// set. All indices are checked before anything is removed. Survivors keep
// their relative order. It returns the number of entries removed.
func (s *Store) BatchDelete(ctx context.Context, indices []int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		if err := s.checkIndex(i); err != nil {
			return 0, err
		}
		drop[i] = true
	}
	if len(drop) == 0 {
		return 0, nil
	}

	next := make([]models.BrewLogEntry, 0, len(s.entries)-len(drop))
	for i, e := range s.entries {
		if !drop[i] {
			next = append(next, e)
		}
	}

	if err := s.persist(next); err != nil {
		return 0, err
	}
	s.entries = next
	return len(drop), nil
}

// LoadByIndex returns the entry's dial-in, rating and notes fields as an
// editable session. Favorite and the stored suggestion are not carried over.
func (s *Store) LoadByIndex(index int) (models.BrewSession, error) {
	e, err := s.Get(index)
	if err != nil {
		return models.BrewSession{}, err
	}
	return e.Reload(), nil
}

// SortedIndices returns entry indices ordered newest first, ties broken by
// later position first.
func SortedIndices(entries []models.BrewLogEntry) []int {
	idx := make([]int, len(entries))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ta, tb := entries[idx[a]].Timestamp, entries[idx[b]].Timestamp
		if ta.Equal(tb) {
			return idx[a] > idx[b]
		}
		return ta.After(tb)
	})
	return idx
}

func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= len(s.entries) {
		return &IndexError{Index: index, Len: len(s.entries)}
	}
	return nil
}

// persist writes entries to a temp file next to the log, syncs it and renames
// it over the log so a crash never leaves a truncated file behind.
func (s *Store) persist(entries []models.BrewLogEntry) error {
	var buf bytes.Buffer
	if err := writeEntries(&buf, entries); err != nil {
		return &IOError{Op: "encode", Path: s.path, Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return &IOError{Op: "write", Path: s.path, Err: err}
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		cleanup()
		return &IOError{Op: "write", Path: s.path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return &IOError{Op: "sync", Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return &IOError{Op: "close", Path: s.path, Err: err}
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		_ = os.Remove(tmpName)
		return &IOError{Op: "chmod", Path: s.path, Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return &IOError{Op: "rename", Path: s.path, Err: err}
	}
	return nil
}
