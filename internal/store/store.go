// Package store persists the append-only log of already-posted entries.
package store

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"time"
)

// Store tracks which entry identifiers have been posted. Identifiers are
// kept in memory and appended, one per line, to a plain text file so the
// set survives across runs. Entries are never removed.
type Store struct {
	path string
	seen map[string]struct{}
}

// New creates a Store backed by the file at path. Call Load before use.
func New(path string) *Store {
	return &Store{
		path: path,
		seen: make(map[string]struct{}),
	}
}

// Load reads all known identifiers from the backing file. A missing file
// is not an error: the store starts empty.
func (s *Store) Load() error {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open posted log: %w", err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			s.seen[line] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read posted log: %w", err)
	}
	return nil
}

// Contains reports whether id has already been posted.
func (s *Store) Contains(id string) bool {
	_, ok := s.seen[id]
	return ok
}

// Add appends id to the backing file and the in-memory set. Adding an id
// the store already contains is a no-op, so an identifier is recorded at
// most once per run.
func (s *Store) Add(id string) error {
	if s.Contains(id) {
		return nil
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open posted log: %w", err)
	}
	_, werr := f.WriteString(id + "\n")
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return fmt.Errorf("failed to record posted entry: %w", werr)
	}

	s.seen[id] = struct{}{}
	return nil
}

// Count returns the number of known identifiers.
func (s *Store) Count() int {
	return len(s.seen)
}

// ModTime returns the last modification time of the backing file. It is
// used by the activity check to detect a stalled bot.
func (s *Store) ModTime() (time.Time, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to stat posted log: %w", err)
	}
	return info.ModTime(), nil
}
