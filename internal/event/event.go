// Package event defines the user-level diary entry and its field mapping.
package event

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Validation errors.
var (
	ErrMissingStart = errors.New("event must have a start time")
	ErrMissingEnd   = errors.New("event must have an end time")
)

// Event is a time-boxed diary entry. Identity (UID) is stable for the
// event's lifetime; the layout engine derives per-day segments from it.
type Event struct {
	UID         string
	Start       time.Time
	End         time.Time
	Summary     string
	Description string
	URL         string
	Location    string
	Categories  []string

	// Styling hints passed through to the rendering collaborator.
	BackClass   string
	DetailClass string
}

// New creates an Event with validation. A missing start or end is rejected;
// a reversed start/end pair is recovered by swapping. An empty uid is
// replaced with a generated one.
func New(uid string, start, end time.Time, summary string) (*Event, error) {
	if start.IsZero() {
		return nil, ErrMissingStart
	}
	if end.IsZero() {
		return nil, ErrMissingEnd
	}
	if end.Before(start) {
		start, end = end, start
	}
	if uid == "" {
		uid = uuid.NewString()
	}
	return &Event{
		UID:     uid,
		Start:   start,
		End:     end,
		Summary: summary,
	}, nil
}

// Duration returns the event's true duration.
func (e *Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// HasCategory reports whether the event carries the given category tag.
func (e *Event) HasCategory(cat string) bool {
	for _, c := range e.Categories {
		if c == cat {
			return true
		}
	}
	return false
}
