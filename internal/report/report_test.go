package report_test

import (
	"testing"
	"time"

	"github.com/Tiliavir/tick/internal/model"
	"github.com/Tiliavir/tick/internal/report"
)

var now = time.Date(2025, 6, 20, 18, 0, 0, 0, time.Local)

func closed(project string, start time.Time, d time.Duration, tags ...string) model.Event {
	stop := start.Add(d)
	return model.Event{Project: project, Start: start, Stop: &stop, Tags: tags}
}

func at(day, hh int) time.Time {
	return time.Date(2025, 6, day, hh, 0, 0, 0, time.Local)
}

func TestAggregateUngrouped(t *testing.T) {
	events := []model.Event{
		closed("p", at(10, 8), time.Hour),
		closed("p", at(10, 10), 2*time.Hour),
		closed("p", at(10, 13), 3*time.Hour),
	}

	rows, totals := report.Aggregate(events, false, report.Filter{}, now)
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
	var sum time.Duration
	for _, r := range rows {
		sum += r.Duration
	}
	if sum != 6*time.Hour {
		t.Errorf("row duration sum = %v, want 6h", sum)
	}
	if totals.Events != 3 || totals.Duration != 6*time.Hour {
		t.Errorf("totals = %+v, want 3 events / 6h", totals)
	}
}

func TestAggregateGroupedByDay(t *testing.T) {
	events := []model.Event{
		closed("p", at(10, 8), time.Hour, "a"),
		closed("p", at(10, 10), 2*time.Hour, "b"),
		closed("p", at(10, 13), 3*time.Hour, "a"),
	}

	rows, totals := report.Aggregate(events, true, report.Filter{}, now)
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
	if rows[0].Duration != 6*time.Hour {
		t.Errorf("grouped duration = %v, want 6h", rows[0].Duration)
	}
	if got := tagsString(rows[0].Tags); got != "a,b" {
		t.Errorf("grouped tags = %q, want union %q", got, "a,b")
	}
	// Totals are invariant to grouping.
	if totals.Events != 3 || totals.Duration != 6*time.Hour {
		t.Errorf("totals = %+v, want 3 events / 6h", totals)
	}
}

func TestAggregateGroupBreaksOnDate(t *testing.T) {
	events := []model.Event{
		closed("p", at(10, 8), time.Hour),
		closed("p", at(10, 10), time.Hour),
		closed("p", at(11, 8), time.Hour),
	}

	rows, _ := report.Aggregate(events, true, report.Filter{}, now)
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[0].Duration != 2*time.Hour || rows[1].Duration != time.Hour {
		t.Errorf("row durations = %v, %v", rows[0].Duration, rows[1].Duration)
	}
}

func TestAggregateGroupBreaksOnProject(t *testing.T) {
	// Adjacency-based: a different project in between splits the day
	// into three runs.
	events := []model.Event{
		closed("a", at(10, 8), time.Hour),
		closed("b", at(10, 10), time.Hour),
		closed("a", at(10, 12), time.Hour),
	}

	rows, totals := report.Aggregate(events, true, report.Filter{}, now)
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
	if totals.Events != 3 {
		t.Errorf("totals.Events = %d, want 3", totals.Events)
	}
}

func TestAggregateFilters(t *testing.T) {
	events := []model.Event{
		closed("a", at(10, 8), time.Hour, "deep"),
		closed("b", at(10, 10), 2*time.Hour),
		closed("a", at(10, 12), 4*time.Hour),
	}

	rows, totals := report.Aggregate(events, false, report.Filter{Project: "a"}, now)
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if totals.Events != 2 || totals.Duration != 5*time.Hour {
		t.Errorf("totals = %+v, want 2 events / 5h", totals)
	}

	rows, totals = report.Aggregate(events, false, report.Filter{Tag: "deep"}, now)
	if len(rows) != 1 {
		t.Fatalf("tag filter: len(rows) = %d, want 1", len(rows))
	}
	if totals.Duration != time.Hour {
		t.Errorf("tag filter totals = %+v, want 1h", totals)
	}
}

func TestAggregateOpenEventUsesNow(t *testing.T) {
	events := []model.Event{
		{Project: "p", Start: now.Add(-90 * time.Minute)},
	}

	rows, totals := report.Aggregate(events, false, report.Filter{}, now)
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
	if rows[0].Duration != 90*time.Minute {
		t.Errorf("open event duration = %v, want 90m", rows[0].Duration)
	}
	if totals.Duration != 90*time.Minute {
		t.Errorf("totals duration = %v, want 90m", totals.Duration)
	}
}

func TestAggregateEmpty(t *testing.T) {
	rows, totals := report.Aggregate(nil, true, report.Filter{}, now)
	if len(rows) != 0 || totals.Events != 0 || totals.Duration != 0 {
		t.Errorf("empty input: rows = %d, totals = %+v", len(rows), totals)
	}
}

func tagsString(tags []string) string {
	out := ""
	for i, t := range model.DedupTags(tags) {
		if i > 0 {
			out += ","
		}
		out += t
	}
	return out
}
