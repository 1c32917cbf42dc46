package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Tiliavir/tick/internal/timecalc"
)

// TimeLayout is the fixed timestamp format used on disk. All timestamps
// are naive local wall-clock times.
const TimeLayout = "2006-01-02T15:04:05"

// legacyClass is written for compatibility with App::TimeTracker archives.
const legacyClass = "App::TimeTracker::Data::Task"

// Event represents a single tracked time interval. A nil Stop means the
// event is still being tracked.
type Event struct {
	Project     string
	Description string
	Tags        []string
	Start       time.Time
	Stop        *time.Time
}

// Record is the on-disk projection of an Event. The duration, seconds and
// user fields are informational; they are ignored when loading.
type Record struct {
	Class       string   `json:"__CLASS__,omitempty"`
	Description string   `json:"description,omitempty"`
	Duration    string   `json:"duration,omitempty"`
	Project     string   `json:"project"`
	Seconds     int64    `json:"seconds,omitempty"`
	Start       string   `json:"start"`
	Stop        string   `json:"stop,omitempty"`
	Tags        []string `json:"tags"`
	User        string   `json:"user,omitempty"`
}

// Open reports whether the event is still being tracked.
func (e *Event) Open() bool {
	return e.Stop == nil
}

// DurationAt returns the tracked duration, using now for open events.
func (e *Event) DurationAt(now time.Time) time.Duration {
	if e.Stop != nil {
		return e.Stop.Sub(e.Start)
	}
	return now.Sub(e.Start)
}

// Filename returns the canonical file name derived from start and project.
// The zero-padded timestamp prefix makes lexicographic order equal to
// chronological order.
func (e *Event) Filename() string {
	return fmt.Sprintf("%s_%s.trc", e.Start.Format("20060102-150405"), e.Project)
}

// Record builds the on-disk projection. Open events compute the legacy
// duration fields against now.
func (e *Event) Record(now time.Time, user string) Record {
	d := e.DurationAt(now)
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}

	r := Record{
		Class:       legacyClass,
		Description: e.Description,
		Duration:    timecalc.FormatClock(d),
		Project:     e.Project,
		Seconds:     int64(d.Seconds()),
		Start:       e.Start.Format(TimeLayout),
		Tags:        tags,
		User:        user,
	}
	if e.Stop != nil {
		r.Stop = e.Stop.Format(TimeLayout)
	}
	return r
}

// FromRecord converts a stored record back into an Event. Unknown fields
// and the derived duration/seconds/user fields are ignored.
func FromRecord(r Record) (*Event, error) {
	if r.Project == "" {
		return nil, fmt.Errorf("record has no project")
	}

	start, err := time.ParseInLocation(TimeLayout, r.Start, time.Local)
	if err != nil {
		return nil, fmt.Errorf("record has invalid start %q: %w", r.Start, err)
	}

	e := &Event{
		Project:     r.Project,
		Description: r.Description,
		Tags:        r.Tags,
		Start:       start,
	}
	if r.Stop != "" {
		stop, err := time.ParseInLocation(TimeLayout, r.Stop, time.Local)
		if err != nil {
			return nil, fmt.Errorf("record has invalid stop %q: %w", r.Stop, err)
		}
		e.Stop = &stop
	}
	return e, nil
}

// MarshalRecord encodes a record in the compact on-disk form.
func MarshalRecord(r Record) ([]byte, error) {
	return json.Marshal(r)
}

// MarshalRecordIndent encodes a record pretty-printed, for human editing.
func MarshalRecordIndent(r Record) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// UnmarshalRecord decodes a single stored JSON record.
func UnmarshalRecord(data []byte) (*Event, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	return FromRecord(r)
}

// DedupTags removes duplicate tags while keeping first-seen order.
func DedupTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	var out []string
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// TagsString joins the de-duplicated tags with commas. Returns the empty
// string when there are no tags.
func (e *Event) TagsString() string {
	out := ""
	for i, t := range DedupTags(e.Tags) {
		if i > 0 {
			out += ","
		}
		out += t
	}
	return out
}
