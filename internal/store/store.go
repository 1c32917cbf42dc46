// Package store persists events as one JSON file per event in a
// year/month partitioned directory tree. File names encode the start
// timestamp and project, so lexicographic order on a directory listing is
// chronological order; there is no separate index.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/Tiliavir/tick/internal/model"
)

// ErrNoEvents is returned when the tree holds no readable event.
var ErrNoEvents = errors.New("unable to find the last tracked event")

const filenameDateLayout = "20060102"

// Store reads and writes event files below a single root directory.
type Store struct {
	root string
	user string
	log  *slog.Logger
}

// New creates a store rooted at root. The user string is written into
// saved records as informational metadata.
func New(root, user string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{root: root, user: user, log: logger}
}

// Root returns the data directory.
func (s *Store) Root() string {
	return s.root
}

// Path returns the canonical file path for an event, derived from its
// start timestamp and project.
func (s *Store) Path(e *model.Event) string {
	return filepath.Join(s.root, e.Start.Format("2006"), e.Start.Format("01"), e.Filename())
}

// Save writes the event to its canonical path, creating missing
// directories. An existing file at that path is overwritten.
func (s *Store) Save(e *model.Event) error {
	path := s.Path(e)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("store: creating directories for %s: %w", path, err)
	}

	data, err := model.MarshalRecord(e.Record(time.Now(), s.user))
	if err != nil {
		return fmt.Errorf("store: encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("store: writing %s: %w", path, err)
	}
	return nil
}

// Delete removes the event's file. A missing file is an error.
func (s *Store) Delete(e *model.Event) error {
	path := s.Path(e)
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("store: deleting %s: %w", path, err)
	}
	return nil
}

// FindLast returns the most recently started event. It walks year, month
// and file names in descending lexicographic order and returns the first
// record that decodes; unreadable files are skipped.
func (s *Store) FindLast() (*model.Event, error) {
	years := readDirNames(s.root)
	for i := len(years) - 1; i >= 0; i-- {
		yearDir := filepath.Join(s.root, years[i])
		months := readDirNames(yearDir)
		for j := len(months) - 1; j >= 0; j-- {
			monthDir := filepath.Join(yearDir, months[j])
			files := readDirNames(monthDir)
			for k := len(files) - 1; k >= 0; k-- {
				if !trackedFile(files[k]) {
					continue
				}
				ev, err := s.readEvent(filepath.Join(monthDir, files[k]))
				if err != nil {
					continue
				}
				return ev, nil
			}
		}
	}
	return nil, ErrNoEvents
}

// FindInRange returns all events whose file name encodes a date within
// [since, until] inclusive, sorted ascending by start timestamp. Files
// that fail to decode are skipped; the second return value counts them.
func (s *Store) FindInRange(since, until time.Time) ([]model.Event, int) {
	skipped := 0

	var events []model.Event
	for _, year := range readDirNames(s.root) {
		yearDir := filepath.Join(s.root, year)
		for _, month := range readDirNames(yearDir) {
			monthDir := filepath.Join(yearDir, month)
			for _, name := range readDirNames(monthDir) {
				if !trackedFile(name) || !fileInRange(name, since, until) {
					continue
				}
				ev, err := s.readEvent(filepath.Join(monthDir, name))
				if err != nil {
					skipped++
					continue
				}
				events = append(events, *ev)
			}
		}
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
	return events, skipped
}

func (s *Store) readEvent(path string) (*model.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		s.log.Debug("skipping unreadable file", "path", path, "error", err)
		return nil, err
	}
	ev, err := model.UnmarshalRecord(data)
	if err != nil {
		s.log.Debug("skipping malformed record", "path", path, "error", err)
		return nil, err
	}
	return ev, nil
}

// fileInRange checks the date encoded in the first 8 characters of the
// file name. Names with a corrupted date are excluded.
func fileInRange(name string, since, until time.Time) bool {
	if len(name) < len(filenameDateLayout) {
		return false
	}
	day, err := time.ParseInLocation(filenameDateLayout, name[:len(filenameDateLayout)], since.Location())
	if err != nil {
		return false
	}
	sinceDay := time.Date(since.Year(), since.Month(), since.Day(), 0, 0, 0, 0, since.Location())
	untilDay := time.Date(until.Year(), until.Month(), until.Day(), 0, 0, 0, 0, since.Location())
	return !day.Before(sinceDay) && !day.After(untilDay)
}

func trackedFile(name string) bool {
	ext := filepath.Ext(name)
	return ext == ".trc" || ext == ".json"
}

// readDirNames lists a directory in ascending name order. Missing or
// unreadable directories read as empty; a first run has no data yet.
func readDirNames(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}
