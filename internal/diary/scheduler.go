// Package diary implements the event scheduling core: it splits events
// across the visible day columns, keeps each day's lane layout current as
// events are added, removed, moved and resized, and runs the
// cache-revert-commit protocol for interactive mutation.
package diary

import (
	"context"
	"errors"
	"time"

	"github.com/mattparker/diary/internal/event"
	"github.com/mattparker/diary/internal/layout"
	"github.com/mattparker/diary/internal/timeutil"
)

// Scheduler errors.
var (
	ErrCanceled           = errors.New("canceled by subscriber")
	ErrManipulationActive = errors.New("another manipulation is in progress")
	ErrNoManipulation     = errors.New("no manipulation in progress")
	ErrNotDraggable       = errors.New("segment cannot be dragged")
	ErrNotResizable       = errors.New("segment edge cannot be resized")
	ErrDayNotInView       = errors.New("day is not in the visible range")
)

// DefaultPxPerHour is the vertical scale used when the config leaves it
// unset.
const DefaultPxPerHour = 20

// Config holds scheduler settings.
type Config struct {
	Start           time.Time // first visible day
	Days            int       // number of visible days, default 7
	PxPerHour       int       // vertical pixels per hour, default 20
	AllowCreateSpan bool      // whether click-drag creation may span days
}

// Source supplies raw events for a (re)load. Exactly one load is in
// flight at a time; callers must not start a second fetch while one is
// outstanding.
type Source interface {
	FetchEvents(ctx context.Context, start, end time.Time) ([]*event.Event, error)
}

// Scheduler owns the visible range of day layouts and the mapping from
// events to their per-day segments.
type Scheduler struct {
	cfg Config

	days  map[int64]*layout.Day // keyed by midnight epoch
	order []time.Time           // visible days in sequence

	index   map[string]*layout.Segment // segment id -> segment
	filters map[string]Filter

	hooks    hooks
	active   *manipulation
	creating *creation
}

// NewScheduler creates a scheduler materializing cfg.Days day layouts
// starting at cfg.Start.
func NewScheduler(cfg Config) *Scheduler {
	if cfg.Days <= 0 {
		cfg.Days = 7
	}
	if cfg.PxPerHour <= 0 {
		cfg.PxPerHour = DefaultPxPerHour
	}
	cfg.Start = timeutil.StartOfDay(cfg.Start)

	s := &Scheduler{
		cfg:     cfg,
		filters: make(map[string]Filter),
	}
	s.setupDays()
	return s
}

// setupDays materializes empty day layouts for the visible range,
// discarding any existing segments.
func (s *Scheduler) setupDays() {
	s.days = make(map[int64]*layout.Day, s.cfg.Days)
	s.order = s.order[:0]
	s.index = make(map[string]*layout.Segment)

	for i := 0; i < s.cfg.Days; i++ {
		date := s.cfg.Start.AddDate(0, 0, i)
		s.days[date.Unix()] = layout.NewDay(date)
		s.order = append(s.order, date)
	}
}

// SetStart moves the visible range to begin at the given day. All current
// segments are discarded; the caller reloads from its source afterwards.
func (s *Scheduler) SetStart(start time.Time) {
	s.cfg.Start = timeutil.StartOfDay(start)
	s.setupDays()
}

// Start returns the first visible day.
func (s *Scheduler) Start() time.Time { return s.cfg.Start }

// End returns the exclusive end of the visible range.
func (s *Scheduler) End() time.Time {
	return s.cfg.Start.AddDate(0, 0, s.cfg.Days)
}

// PxPerHour returns the configured vertical scale.
func (s *Scheduler) PxPerHour() int { return s.cfg.PxPerHour }

// Days returns the visible day layouts in order.
func (s *Scheduler) Days() []*layout.Day {
	out := make([]*layout.Day, 0, len(s.order))
	for _, date := range s.order {
		out = append(out, s.days[date.Unix()])
	}
	return out
}

// DayAt returns the day layout for the date containing t, or nil if that
// day is not in view.
func (s *Scheduler) DayAt(t time.Time) *layout.Day {
	return s.days[timeutil.StartOfDay(t).Unix()]
}

// SegmentByID returns the segment with the given rendered identity.
func (s *Scheduler) SegmentByID(id string) (*layout.Segment, bool) {
	seg, ok := s.index[id]
	return seg, ok
}

// findFirstDayInRange walks forward one calendar day at a time from
// start's midnight while not past end, returning the first day with a
// materialized layout. Events touching no visible day produce no
// segments.
func (s *Scheduler) findFirstDayInRange(start, end time.Time) (*layout.Day, bool) {
	for d := timeutil.StartOfDay(start); !d.After(end); d = d.AddDate(0, 0, 1) {
		if day, ok := s.days[d.Unix()]; ok {
			return day, true
		}
	}
	return nil, false
}

// nextDay returns the materialized layout for the day after d, or nil.
func (s *Scheduler) nextDay(d *layout.Day) *layout.Day {
	return s.days[d.Date.AddDate(0, 0, 1).Unix()]
}

// AddEvent places an event into the visible range, splitting it into one
// segment per day it overlaps. An event entirely outside the range is a
// no-op and returns no segments. A reversed start/end pair is swapped
// before any segment is created.
func (s *Scheduler) AddEvent(ev *event.Event) []*layout.Segment {
	// Day membership follows the view's clock. Sources may hand back
	// instants in another zone (the store keeps UTC), so bring them into
	// the view's location before any day boundary math.
	loc := s.cfg.Start.Location()
	ev.Start = ev.Start.In(loc)
	ev.End = ev.End.In(loc)

	if ev.End.Before(ev.Start) {
		ev.Start, ev.End = ev.End, ev.Start
	}

	firstDay, ok := s.findFirstDayInRange(ev.Start, ev.End)
	if !ok {
		return nil
	}

	if timeutil.SameDay(ev.Start, ev.End) {
		seg, err := layout.NewSegment(ev, layout.PositionSingle, ev.Start, ev.End)
		if err != nil {
			return nil
		}
		s.place(seg, firstDay)
		return []*layout.Segment{seg}
	}

	return s.addSpanningEvent(ev, firstDay)
}

// addSpanningEvent walks the day columns from the event's first in-view
// day to the day containing its end, creating one segment per day with
// first/mid/last display windows and parent/child links.
func (s *Scheduler) addSpanningEvent(ev *event.Event, firstDay *layout.Day) []*layout.Segment {
	var (
		segs  []*layout.Segment
		chain *layout.Segment
	)
	endDay := timeutil.StartOfDay(ev.End)

	for day := firstDay; day != nil && !day.Date.After(endDay); day = s.nextDay(day) {
		var (
			pos         layout.Position
			start, end  time.Time
			dayStart    = day.Date
			dayBoundary = timeutil.EndOfDay(day.Date)
		)
		switch {
		case timeutil.SameDay(ev.Start, day.Date):
			pos, start, end = layout.PositionFirst, ev.Start, dayBoundary
		case timeutil.SameDay(ev.End, day.Date):
			pos, start, end = layout.PositionLast, dayStart, ev.End
		default:
			pos, start, end = layout.PositionMid, dayStart, dayBoundary
		}

		seg, err := layout.NewSegment(ev, pos, start, end)
		if err != nil {
			continue
		}
		if chain == nil {
			chain = seg
		} else {
			chain.AddChild(seg)
		}
		s.place(seg, day)
		segs = append(segs, seg)
	}
	return segs
}

// place adds a segment to a day, indexes it, applies filters, and
// rebuilds the day's lanes.
func (s *Scheduler) place(seg *layout.Segment, day *layout.Day) {
	day.AddSegment(seg)
	s.index[seg.ID()] = seg
	seg.SetVisible(!s.matchesAnyFilter(seg.Event))
	day.Rebuild()
}

// RemoveEvent removes every segment of the event from the view. Returns
// false if the event has no segments in view; callers may treat that as a
// no-op.
func (s *Scheduler) RemoveEvent(uid string) bool {
	found := false
	affected := make(map[int64]*layout.Day)

	for id, seg := range s.index {
		if seg.Event.UID != uid {
			continue
		}
		if day := seg.Day(); day != nil && day.RemoveSegment(seg) {
			affected[day.Date.Unix()] = day
		}
		delete(s.index, id)
		found = true
	}
	for _, day := range affected {
		day.Rebuild()
	}
	return found
}

// Load fetches events from the source and rebuilds the whole view from
// scratch. On fetch failure the scheduler is left exactly as it was and
// the DataFailure notification fires.
func (s *Scheduler) Load(ctx context.Context, src Source) error {
	events, err := src.FetchEvents(ctx, s.Start(), s.End())
	if err != nil {
		s.hooks.fireDataFailure(err)
		return err
	}

	s.setupDays()
	for _, ev := range events {
		s.AddEvent(ev)
	}
	return nil
}

// Merge fetches events from the source and adds them on top of what is
// already placed, for layering a secondary source over the primary one.
func (s *Scheduler) Merge(ctx context.Context, src Source) error {
	events, err := src.FetchEvents(ctx, s.Start(), s.End())
	if err != nil {
		s.hooks.fireDataFailure(err)
		return err
	}

	for _, ev := range events {
		s.AddEvent(ev)
	}
	return nil
}
