package diary

import (
	"time"

	"github.com/mattparker/diary/internal/event"
	"github.com/mattparker/diary/internal/layout"
	"github.com/mattparker/diary/internal/timeutil"
)

// Edge names a resizable end of a segment's time window.
type Edge string

const (
	EdgeTop    Edge = "top"
	EdgeBottom Edge = "bottom"
)

// manipulation is the snapshot taken when a drag or resize begins. It is
// the rollback point: cancellation restores exactly these values before
// any layout is touched.
type manipulation struct {
	seg    *layout.Segment
	parent *layout.Segment

	origStart time.Time
	origEnd   time.Time
	origDay   *layout.Day
	origID    string

	resize bool
	edge   Edge
}

// creation tracks an in-progress click-drag selection.
type creation struct {
	day      *layout.Day
	endDay   *layout.Day
	topPx    int
	heightPx int
}

// BeginMove starts dragging a segment. Only one manipulation may be
// active at a time, only single-day segments are draggable, and a
// BeforeStartMove subscriber may cancel before any state changes.
func (s *Scheduler) BeginMove(seg *layout.Segment) error {
	if s.active != nil {
		return ErrManipulationActive
	}
	if !seg.Draggable() {
		return ErrNotDraggable
	}
	if !s.hooks.fireBeforeStartMove(seg) {
		return ErrCanceled
	}
	s.active = s.snapshot(seg)
	return nil
}

// BeginResize starts resizing the given edge of a segment. The grabbed
// segment must carry the matching resize handle for its chain position.
func (s *Scheduler) BeginResize(seg *layout.Segment, edge Edge) error {
	if s.active != nil {
		return ErrManipulationActive
	}
	if (edge == EdgeTop && !seg.ResizableTop()) || (edge == EdgeBottom && !seg.ResizableBottom()) {
		return ErrNotResizable
	}
	if !s.hooks.fireBeforeStartMove(seg) {
		return ErrCanceled
	}
	m := s.snapshot(seg)
	m.resize = true
	m.edge = edge
	s.active = m
	return nil
}

func (s *Scheduler) snapshot(seg *layout.Segment) *manipulation {
	parent := seg.Parent()
	return &manipulation{
		seg:       seg,
		parent:    parent,
		origStart: parent.Event.Start,
		origEnd:   parent.Event.End,
		origDay:   seg.Day(),
		origID:    seg.ID(),
	}
}

// TrackMove updates the candidate times from the dragged segment's pixel
// position, snapping the start down to a quarter hour and the end to the
// nearest one. targetDay, when non-zero, is the day column currently
// under the pointer. This is a visual-only update: no lane re-layout
// happens until the move commits.
func (s *Scheduler) TrackMove(topPx int, targetDay time.Time) error {
	m := s.active
	if m == nil || m.resize {
		return ErrNoManipulation
	}

	heightPx := m.seg.HeightPixels(s.cfg.PxPerHour) + 2
	startSecs := snapStartSecs(timeutil.PixelsToSeconds(topPx, s.cfg.PxPerHour))
	endSecs := snapEndSecs(timeutil.PixelsToSeconds(topPx+heightPx, s.cfg.PxPerHour))

	day := timeutil.StartOfDay(m.parent.Event.Start)
	if !targetDay.IsZero() {
		day = timeutil.StartOfDay(targetDay)
	}

	m.parent.Event.Start = withClock(day, startSecs)
	m.parent.Event.End = withClock(day, endSecs)
	m.seg.SetDisplayWindow(m.parent.Event.Start, m.parent.Event.End)
	return nil
}

// TrackResize updates the candidate time of the manipulated edge from the
// segment's pixel geometry, routing the change to the chain's parent.
// Visual-only, like TrackMove.
func (s *Scheduler) TrackResize(topPx, heightPx int) error {
	m := s.active
	if m == nil || !m.resize {
		return ErrNoManipulation
	}

	switch m.edge {
	case EdgeTop:
		secs := clampDaySecs(snapStartSecs(timeutil.PixelsToSeconds(topPx, s.cfg.PxPerHour)))
		m.parent.Event.Start = withClock(timeutil.StartOfDay(m.parent.Event.Start), secs)
		m.seg.SetDisplayWindow(m.parent.Event.Start, m.seg.DisplayEnd())
	case EdgeBottom:
		secs := clampDaySecs(snapEndSecs(timeutil.PixelsToSeconds(topPx+heightPx, s.cfg.PxPerHour)))
		m.parent.Event.End = withClock(timeutil.StartOfDay(m.parent.Event.End), secs)
		m.seg.SetDisplayWindow(m.seg.DisplayStart(), m.parent.Event.End)
	}
	return nil
}

// EndMove commits or rolls back the active drag.
func (s *Scheduler) EndMove() error { return s.commit() }

// EndResize commits or rolls back the active resize.
func (s *Scheduler) EndResize() error { return s.commit() }

// commit runs the second cancelable notification and either applies the
// candidate times (rebuilding the affected days) or restores the
// snapshot untouched. Subscriber cancellation is a normal outcome, not an
// error.
func (s *Scheduler) commit() error {
	m := s.active
	if m == nil {
		return ErrNoManipulation
	}
	s.active = nil

	tc := TimeChange{
		FromStart: m.origStart,
		FromEnd:   m.origEnd,
		ToStart:   m.parent.Event.Start,
		ToEnd:     m.parent.Event.End,
	}

	if !s.hooks.fireBeforeEndMove(m.seg, tc) {
		s.rollback(m)
		return nil
	}

	sourceDay := m.origDay
	destDay := sourceDay

	if !m.resize {
		newDate := timeutil.StartOfDay(m.parent.Event.Start)
		if !timeutil.SameDay(newDate, sourceDay.Date) {
			if target := s.DayAt(newDate); target != nil {
				destDay = target
			} else {
				// Dragged outside the view; keep the segment on its
				// original day and only apply the time change.
				m.parent.Event.Start = withClock(sourceDay.Date, timeutil.SecondsOfDay(m.parent.Event.Start))
				m.parent.Event.End = withClock(sourceDay.Date, timeutil.SecondsOfDay(m.parent.Event.End))
			}
		}
	}

	if destDay != sourceDay {
		// Tracking has already re-clipped the display window to the target
		// day, so the segment's current ID carries the new date. The index
		// key to drop is the one recorded when the drag began.
		delete(s.index, m.origID)
		sourceDay.RemoveSegment(m.seg)
		m.seg.SetDisplayWindow(m.parent.Event.Start, m.parent.Event.End)
		destDay.AddSegment(m.seg)
		s.index[m.seg.ID()] = m.seg
	} else {
		s.refreshWindow(m)
	}

	sourceDay.Rebuild()
	if destDay != sourceDay {
		destDay.Rebuild()
	}

	s.hooks.fireEndMove(m.seg, tc)
	return nil
}

// rollback restores the snapshot times and display window without
// touching any day layout.
func (s *Scheduler) rollback(m *manipulation) {
	m.parent.Event.Start = m.origStart
	m.parent.Event.End = m.origEnd
	s.refreshWindow(m)
}

// refreshWindow re-clips the manipulated segment's display window from
// the parent's current times, respecting its chain position.
func (s *Scheduler) refreshWindow(m *manipulation) {
	ev := m.parent.Event
	switch m.seg.Position {
	case layout.PositionSingle:
		m.seg.SetDisplayWindow(ev.Start, ev.End)
	case layout.PositionFirst:
		m.seg.SetDisplayWindow(ev.Start, timeutil.EndOfDay(ev.Start))
	case layout.PositionLast:
		m.seg.SetDisplayWindow(timeutil.StartOfDay(ev.End), ev.End)
	case layout.PositionMid:
		// Interior segments always span their full day.
	}
}

// BeginCreate starts a click-drag selection on the given day column.
func (s *Scheduler) BeginCreate(day time.Time, topPx int) error {
	if s.creating != nil || s.active != nil {
		return ErrManipulationActive
	}
	d := s.DayAt(day)
	if d == nil {
		return ErrDayNotInView
	}
	if !s.hooks.fireBeforeStartCreate() {
		return ErrCanceled
	}
	s.creating = &creation{day: d, endDay: d, topPx: topPx}
	return nil
}

// TrackCreate updates the selection geometry. endDay is honored only when
// the scheduler allows creating day-spanning events.
func (s *Scheduler) TrackCreate(topPx, heightPx int, endDay time.Time) error {
	c := s.creating
	if c == nil {
		return ErrNoManipulation
	}
	c.topPx = topPx
	c.heightPx = heightPx
	if s.cfg.AllowCreateSpan && !endDay.IsZero() {
		if d := s.DayAt(endDay); d != nil {
			c.endDay = d
		}
	}
	return nil
}

// EndCreate finishes the selection, creating and placing a new event.
// Both ends snap down to the quarter hour. A zero-height selection or a
// canceling subscriber yields no event, without error.
func (s *Scheduler) EndCreate(summary string) (*layout.Segment, error) {
	c := s.creating
	if c == nil {
		return nil, ErrNoManipulation
	}
	s.creating = nil

	startSecs := snapStartSecs(timeutil.PixelsToSeconds(c.topPx, s.cfg.PxPerHour))
	endSecs := snapStartSecs(timeutil.PixelsToSeconds(c.topPx+c.heightPx, s.cfg.PxPerHour))
	start := withClock(c.day.Date, startSecs)
	end := withClock(c.endDay.Date, endSecs)

	if !s.hooks.fireBeforeEndCreate(start, end) {
		return nil, nil
	}
	if c.heightPx <= 0 {
		return nil, nil
	}

	ev, err := event.New("", start, end, summary)
	if err != nil {
		return nil, err
	}
	segs := s.AddEvent(ev)
	if len(segs) == 0 {
		return nil, nil
	}
	s.hooks.fireEndCreate(segs[0])
	return segs[0], nil
}

// clampDaySecs keeps a resize candidate within its day. Geometry reported
// past the column bottom (or above the top) must not push an edge onto a
// neighboring day, because no re-split happens until a reload.
func clampDaySecs(secs int) int {
	if secs < 0 {
		return 0
	}
	if secs > timeutil.SecondsPerDay {
		return timeutil.SecondsPerDay
	}
	return secs
}

// snapStartSecs snaps seconds of day down to the previous quarter hour.
func snapStartSecs(secs int) int {
	return timeutil.SnapStartMinutes(secs/60) * 60
}

// snapEndSecs snaps seconds of day to the nearest quarter hour using the
// end-edge rounding policy.
func snapEndSecs(secs int) int {
	return timeutil.SnapEndMinutes(secs/60) * 60
}

// withClock returns the instant at the given seconds of day on date's
// calendar day. Seconds may be a full day (86400), which lands on the
// next midnight.
func withClock(date time.Time, secs int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, secs, 0, date.Location())
}
