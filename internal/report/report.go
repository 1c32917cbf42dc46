// Package report turns a time-ordered event sequence into display rows
// and totals. Day grouping is adjacency-based: consecutive events sharing
// a calendar date and project collapse into one row.
package report

import (
	"time"

	"github.com/Tiliavir/tick/internal/model"
	"github.com/Tiliavir/tick/internal/timecalc"
)

// Filter selects events by project equality and tag membership. Zero
// values match everything.
type Filter struct {
	Project string
	Tag     string
}

// Matches reports whether the event survives the filter.
func (f Filter) Matches(e *model.Event) bool {
	if f.Project != "" && e.Project != f.Project {
		return false
	}
	if f.Tag != "" {
		found := false
		for _, t := range e.Tags {
			if t == f.Tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Row is one display line. A grouped row spans several events: its
// duration is their sum, its tags their union, and its stop the last
// member's stop.
type Row struct {
	Start    time.Time
	Stop     *time.Time
	Project  string
	Duration time.Duration
	Tags     []string
}

// Totals counts surviving events and sums their durations. They are
// computed per event before grouping, so they do not depend on whether
// grouping is enabled.
type Totals struct {
	Events   int
	Duration time.Duration
}

// Aggregate filters events and produces rows plus totals. Events must be
// sorted ascending by start. Open events use now for their live duration.
func Aggregate(events []model.Event, groupByDay bool, filter Filter, now time.Time) ([]Row, Totals) {
	var filtered []*model.Event
	for i := range events {
		if filter.Matches(&events[i]) {
			filtered = append(filtered, &events[i])
		}
	}

	var rows []Row
	var totals Totals
	var group *Row

	for i, e := range filtered {
		d := e.DurationAt(now)
		totals.Events++
		totals.Duration += d

		if !groupByDay {
			rows = append(rows, rowFor(e, d))
			continue
		}

		if group == nil {
			r := rowFor(e, d)
			group = &r
		} else {
			group.Duration += d
			group.Stop = e.Stop
			group.Tags = append(group.Tags, e.Tags...)
		}

		// Lookahead by one: keep accumulating while the next event
		// continues the same-day, same-project run.
		if i+1 < len(filtered) && sameRun(e, filtered[i+1]) {
			continue
		}
		rows = append(rows, *group)
		group = nil
	}

	return rows, totals
}

func rowFor(e *model.Event, d time.Duration) Row {
	tags := make([]string, len(e.Tags))
	copy(tags, e.Tags)
	return Row{
		Start:    e.Start,
		Stop:     e.Stop,
		Project:  e.Project,
		Duration: d,
		Tags:     tags,
	}
}

func sameRun(a, b *model.Event) bool {
	return timecalc.SameDay(a.Start, b.Start) && a.Project == b.Project
}
