// Package tracker implements the start/stop/resume lifecycle on top of
// the event store. The current state is always derived from the most
// recent stored event, never cached.
package tracker

import (
	"errors"
	"fmt"
	"time"

	"github.com/Tiliavir/tick/internal/model"
	"github.com/Tiliavir/tick/internal/store"
)

// Status describes the outcome of a lifecycle transition.
type Status string

const (
	StatusStarted   Status = "Started"
	StatusResumed   Status = "Resumed"
	StatusTracking  Status = "Tracking"
	StatusStopped   Status = "Stopped"
	StatusSaved     Status = "Saved"
	StatusDiscarded Status = "Discarded"
)

// DiscardedDescription replaces the description of an event that was
// deleted for being shorter than the minimum duration.
const DiscardedDescription = "Discarded: tracked for less than the minimum duration"

type state int

const (
	stateClosed state = iota
	stateOpen
)

// Tracker drives lifecycle transitions. Events shorter than minDuration
// are deleted instead of kept; stopping and starting the same project
// within resumeWindow reopens the stopped event. A zero resumeWindow
// disables resuming.
type Tracker struct {
	store        *store.Store
	minDuration  time.Duration
	resumeWindow time.Duration
}

func New(s *store.Store, minDuration, resumeWindow time.Duration) *Tracker {
	return &Tracker{store: s, minDuration: minDuration, resumeWindow: resumeWindow}
}

// currentState loads the last event and classifies it. An empty store is
// simply closed; errors other than an empty store are passed through.
func (t *Tracker) currentState() (state, *model.Event, error) {
	last, err := t.store.FindLast()
	switch {
	case errors.Is(err, store.ErrNoEvents):
		return stateClosed, nil, nil
	case err != nil:
		return stateClosed, nil, err
	case last.Open():
		return stateOpen, last, nil
	default:
		return stateClosed, last, nil
	}
}

// Start begins tracking project at the given time.
//
// An open event for another project is closed at the new start time
// first, and discarded when it ends up below the minimum duration. An
// open event for the same project is continued, merging the new tags and
// description. A same-project event stopped within the resume window is
// reopened. Otherwise a new event is created.
func (t *Tracker) Start(project, description string, tags []string, at time.Time) (*model.Event, Status, error) {
	st, last, err := t.currentState()
	if err != nil {
		return nil, "", err
	}

	if st == stateOpen {
		if last.Project == project {
			if merge(last, description, tags) {
				if err := t.store.Save(last); err != nil {
					return nil, "", err
				}
			}
			return last, StatusTracking, nil
		}
		// Close the other project before opening anything new, so two
		// events are never open at once.
		if err := t.closeAt(last, at); err != nil {
			return nil, "", err
		}
	} else if t.resumable(last, project, at) {
		last.Stop = nil
		merge(last, description, tags)
		if err := t.store.Save(last); err != nil {
			return nil, "", err
		}
		return last, StatusResumed, nil
	}

	ev := &model.Event{
		Project:     project,
		Description: description,
		Tags:        tags,
		Start:       at,
	}
	if err := t.store.Save(ev); err != nil {
		return nil, "", err
	}
	return ev, StatusStarted, nil
}

// Stop closes the open event at the given time. Stopping when nothing is
// open reports the already-closed last event without writing. An event
// below the minimum duration is deleted and reported as discarded.
func (t *Tracker) Stop(at time.Time) (*model.Event, Status, error) {
	st, last, err := t.currentState()
	if err != nil {
		return nil, "", err
	}
	if last == nil {
		return nil, "", store.ErrNoEvents
	}
	if st == stateClosed {
		return last, StatusStopped, nil
	}

	stop := at
	last.Stop = &stop
	if last.DurationAt(at) < t.minDuration {
		if err := t.store.Delete(last); err != nil {
			return nil, "", err
		}
		last.Description = DiscardedDescription
		return last, StatusDiscarded, nil
	}
	if err := t.store.Save(last); err != nil {
		return nil, "", err
	}
	return last, StatusSaved, nil
}

// Register stores a completed event directly, for backfilling intervals
// that were never tracked live.
func (t *Tracker) Register(project, description string, tags []string, start, stop time.Time) (*model.Event, error) {
	if stop.Before(start) {
		return nil, fmt.Errorf("stop %s is before start %s",
			stop.Format(model.TimeLayout), start.Format(model.TimeLayout))
	}
	ev := &model.Event{
		Project:     project,
		Description: description,
		Tags:        tags,
		Start:       start,
		Stop:        &stop,
	}
	if err := t.store.Save(ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// closeAt stops ev at the given time, deleting it when too short.
func (t *Tracker) closeAt(ev *model.Event, at time.Time) error {
	stop := at
	ev.Stop = &stop
	if ev.DurationAt(at) < t.minDuration {
		return t.store.Delete(ev)
	}
	return t.store.Save(ev)
}

// resumable reports whether last is a same-project event stopped within
// the resume window before at.
func (t *Tracker) resumable(last *model.Event, project string, at time.Time) bool {
	if t.resumeWindow <= 0 || last == nil || last.Stop == nil || last.Project != project {
		return false
	}
	since := at.Sub(*last.Stop)
	return since >= 0 && since <= t.resumeWindow
}

// merge folds new tags and a new description into an existing event,
// reporting whether anything changed.
func merge(ev *model.Event, description string, tags []string) bool {
	changed := false
	for _, tag := range tags {
		present := false
		for _, have := range ev.Tags {
			if have == tag {
				present = true
				break
			}
		}
		if !present {
			ev.Tags = append(ev.Tags, tag)
			changed = true
		}
	}
	if description != "" && ev.Description != description {
		ev.Description = description
		changed = true
	}
	return changed
}
