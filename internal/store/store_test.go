package store_test

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Tiliavir/tick/internal/model"
	"github.com/Tiliavir/tick/internal/store"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return store.New(t.TempDir(), "tester", logger)
}

func event(project string, start time.Time, stop *time.Time) *model.Event {
	return &model.Event{Project: project, Start: start, Stop: stop, Tags: []string{}}
}

func at(y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, time.Local)
}

func TestSaveAndFindLastRoundTrip(t *testing.T) {
	s := newStore(t)
	stop := at(2025, 3, 10, 9, 30, 0)
	ev := &model.Event{
		Project:     "writing",
		Description: "morning pages",
		Tags:        []string{"focus", "draft"},
		Start:       at(2025, 3, 10, 8, 0, 0),
		Stop:        &stop,
	}

	if err := s.Save(ev); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(s.Path(ev)); err != nil {
		t.Fatalf("canonical path missing after save: %v", err)
	}

	got, err := s.FindLast()
	if err != nil {
		t.Fatalf("FindLast: %v", err)
	}
	if got.Project != ev.Project || got.Description != ev.Description {
		t.Errorf("reloaded event = %+v, want %+v", got, ev)
	}
	if !got.Start.Equal(ev.Start) {
		t.Errorf("start = %v, want %v", got.Start, ev.Start)
	}
	if got.Stop == nil || !got.Stop.Equal(stop) {
		t.Errorf("stop = %v, want %v", got.Stop, stop)
	}
	if got.TagsString() != "focus,draft" {
		t.Errorf("tags = %q, want %q", got.TagsString(), "focus,draft")
	}
}

func TestFindLastEmptyStore(t *testing.T) {
	s := newStore(t)
	if _, err := s.FindLast(); !errors.Is(err, store.ErrNoEvents) {
		t.Errorf("FindLast on empty store = %v, want ErrNoEvents", err)
	}
}

func TestFindLastAcrossYears(t *testing.T) {
	s := newStore(t)
	starts := []time.Time{
		at(2022, 12, 31, 23, 0, 0),
		at(2023, 1, 1, 8, 0, 0),
		at(2023, 7, 14, 9, 0, 0),
		at(2025, 2, 3, 10, 0, 0), // the maximum
		at(2024, 6, 1, 7, 30, 0),
	}
	for _, start := range starts {
		stop := start.Add(time.Hour)
		if err := s.Save(event("p", start, &stop)); err != nil {
			t.Fatalf("Save(%v): %v", start, err)
		}
	}

	got, err := s.FindLast()
	if err != nil {
		t.Fatalf("FindLast: %v", err)
	}
	want := at(2025, 2, 3, 10, 0, 0)
	if !got.Start.Equal(want) {
		t.Errorf("FindLast start = %v, want %v", got.Start, want)
	}
}

func TestFindLastSkipsCorruptFiles(t *testing.T) {
	s := newStore(t)
	stop := at(2025, 5, 1, 9, 0, 0)
	if err := s.Save(event("older", at(2025, 5, 1, 8, 0, 0), &stop)); err != nil {
		t.Fatal(err)
	}

	// A lexicographically later, but unreadable, file must be skipped.
	dir := filepath.Join(s.Root(), "2025", "05")
	if err := os.WriteFile(filepath.Join(dir, "20250501-120000_bad.trc"), []byte("{broken"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := s.FindLast()
	if err != nil {
		t.Fatalf("FindLast: %v", err)
	}
	if got.Project != "older" {
		t.Errorf("FindLast project = %q, want %q", got.Project, "older")
	}
}

func TestFindInRange(t *testing.T) {
	s := newStore(t)
	starts := []time.Time{
		at(2025, 1, 5, 9, 0, 0),
		at(2025, 1, 10, 8, 0, 0),
		at(2025, 1, 10, 14, 0, 0),
		at(2025, 2, 1, 9, 0, 0),
	}
	for _, start := range starts {
		stop := start.Add(time.Hour)
		if err := s.Save(event("p", start, &stop)); err != nil {
			t.Fatal(err)
		}
	}

	// Inclusive bounds on the filename-encoded date.
	events, skipped := s.FindInRange(at(2025, 1, 10, 12, 0, 0), at(2025, 2, 1, 0, 0, 0))
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
	if len(events) != 3 {
		t.Fatalf("len(events) = %d, want 3", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].Start.Before(events[i-1].Start) {
			t.Errorf("events not sorted ascending: %v before %v", events[i].Start, events[i-1].Start)
		}
	}
	if !events[0].Start.Equal(at(2025, 1, 10, 8, 0, 0)) {
		t.Errorf("first event start = %v", events[0].Start)
	}
}

func TestFindInRangeSkipsAndCounts(t *testing.T) {
	s := newStore(t)
	stop := at(2025, 3, 10, 9, 0, 0)
	if err := s.Save(event("good", at(2025, 3, 10, 8, 0, 0), &stop)); err != nil {
		t.Fatal(err)
	}

	dir := filepath.Join(s.Root(), "2025", "03")
	// Corrupt record: counted as skipped.
	if err := os.WriteFile(filepath.Join(dir, "20250310-100000_bad.trc"), []byte("not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	// Wrong extension: ignored entirely.
	if err := os.WriteFile(filepath.Join(dir, "20250310-110000_note.txt"), []byte("hi"), 0o600); err != nil {
		t.Fatal(err)
	}
	// Corrupted filename date: silently excluded.
	if err := os.WriteFile(filepath.Join(dir, "notadate_x.trc"), []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}

	events, skipped := s.FindInRange(at(2025, 3, 1, 0, 0, 0), at(2025, 3, 31, 0, 0, 0))
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if events[0].Project != "good" {
		t.Errorf("event project = %q, want %q", events[0].Project, "good")
	}
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
}

func TestFindInRangeMissingRoot(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := store.New(filepath.Join(t.TempDir(), "does-not-exist"), "", logger)

	events, skipped := s.FindInRange(at(2025, 1, 1, 0, 0, 0), at(2025, 12, 31, 0, 0, 0))
	if len(events) != 0 || skipped != 0 {
		t.Errorf("missing root: events = %d, skipped = %d, want 0/0", len(events), skipped)
	}
}

func TestDelete(t *testing.T) {
	s := newStore(t)
	ev := event("p", at(2025, 4, 1, 8, 0, 0), nil)
	if err := s.Save(ev); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ev); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(s.Path(ev)); !os.IsNotExist(err) {
		t.Errorf("file still exists after delete")
	}
	if err := s.Delete(ev); err == nil {
		t.Error("deleting a missing file should fail")
	}
}

func TestSaveOverwritesSamePath(t *testing.T) {
	s := newStore(t)
	ev := event("p", at(2025, 4, 1, 8, 0, 0), nil)
	if err := s.Save(ev); err != nil {
		t.Fatal(err)
	}
	ev.Description = "updated"
	if err := s.Save(ev); err != nil {
		t.Fatal(err)
	}

	got, err := s.FindLast()
	if err != nil {
		t.Fatal(err)
	}
	if got.Description != "updated" {
		t.Errorf("description = %q, want %q", got.Description, "updated")
	}
}
