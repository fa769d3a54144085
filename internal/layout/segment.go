// Package layout partitions a day's diary segments into non-overlapping
// vertical lanes so overlapping entries can be drawn side by side.
package layout

import (
	"errors"
	"time"

	"github.com/mattparker/diary/internal/event"
	"github.com/mattparker/diary/internal/timeutil"
)

// Validation errors.
var (
	ErrMissingWindow = errors.New("segment must have a display start and end")
)

// heightInset is the fixed number of pixels shaved off a segment's drawn
// height so adjacent segments do not visually touch.
const heightInset = 2

// Position locates a segment within a possibly multi-day chain.
type Position string

const (
	PositionSingle Position = "single"
	PositionFirst  Position = "first"
	PositionMid    Position = "mid"
	PositionLast   Position = "last"
)

// Segment is one calendar day's occurrence of an Event. Its display window
// is clipped to the owning day; the true start and end live on the Event of
// the chain's first segment.
type Segment struct {
	Event    *event.Event
	Position Position

	displayStart time.Time
	displayEnd   time.Time

	lane    int
	visible bool

	day      *Day
	parent   *Segment
	children []*Segment
}

// NewSegment creates a segment with the given clipped display window.
func NewSegment(ev *event.Event, pos Position, displayStart, displayEnd time.Time) (*Segment, error) {
	if displayStart.IsZero() || displayEnd.IsZero() {
		return nil, ErrMissingWindow
	}
	return &Segment{
		Event:        ev,
		Position:     pos,
		displayStart: displayStart,
		displayEnd:   displayEnd,
		visible:      true,
	}, nil
}

// ID is the segment's rendered identity: event UID plus day date.
func (s *Segment) ID() string {
	return s.Event.UID + "/" + timeutil.StartOfDay(s.displayStart).Format("2006-01-02")
}

// DisplayStart returns the clipped display start.
func (s *Segment) DisplayStart() time.Time { return s.displayStart }

// DisplayEnd returns the clipped display end.
func (s *Segment) DisplayEnd() time.Time { return s.displayEnd }

// DisplayStartSeconds returns the display start as seconds of day.
// All lane overlap math uses the clipped window, never the event's true
// times, so multi-day arithmetic stays local to each day.
func (s *Segment) DisplayStartSeconds() int {
	return timeutil.SecondsOfDay(s.displayStart)
}

// DisplayEndSeconds returns the display end as seconds of day. A window
// ending on the exclusive midnight boundary reports a full day.
func (s *Segment) DisplayEndSeconds() int {
	if !timeutil.SameDay(s.displayEnd, s.displayStart) {
		return timeutil.SecondsPerDay
	}
	return timeutil.SecondsOfDay(s.displayEnd)
}

// TopPixels returns the vertical pixel offset of the segment's top edge.
func (s *Segment) TopPixels(pxPerHour int) int {
	return timeutil.SecondsToPixels(s.DisplayStartSeconds(), pxPerHour)
}

// HeightPixels returns the segment's drawn height in pixels.
func (s *Segment) HeightPixels(pxPerHour int) int {
	return timeutil.SecondsToPixels(s.DisplayEndSeconds()-s.DisplayStartSeconds(), pxPerHour) - heightInset
}

// Parent returns the chain's first segment, which holds the true event
// times. For single or chain-first segments it returns the segment itself.
// All time mutation on mid and last segments routes through here.
func (s *Segment) Parent() *Segment {
	if s.parent != nil {
		return s.parent
	}
	return s
}

// Children returns the forward references held by a chain-first segment,
// in day order.
func (s *Segment) Children() []*Segment { return s.children }

// AddChild links a later segment of the same multi-day chain.
func (s *Segment) AddChild(child *Segment) {
	s.children = append(s.children, child)
	child.parent = s
}

// Lane returns the vertical lane index assigned by the segment's block.
func (s *Segment) Lane() int { return s.lane }

// Day returns the day layout currently holding the segment.
func (s *Segment) Day() *Day { return s.day }

// Visible reports whether the segment passes the active filters.
func (s *Segment) Visible() bool { return s.visible }

// SetVisible toggles filter visibility. The owning day must be rebuilt
// afterwards so lane widths reflow.
func (s *Segment) SetVisible(v bool) { s.visible = v }

// Draggable reports whether the whole segment may be moved. Only segments
// of single-day events move; pieces of a multi-day chain stay put so the
// chain's shape cannot be broken by dragging one day's slice.
func (s *Segment) Draggable() bool {
	return s.Position == PositionSingle
}

// ResizableTop reports whether the segment's start edge may be resized.
func (s *Segment) ResizableTop() bool {
	return s.Position == PositionSingle || s.Position == PositionFirst
}

// ResizableBottom reports whether the segment's end edge may be resized.
func (s *Segment) ResizableBottom() bool {
	return s.Position == PositionSingle || s.Position == PositionLast
}

// StartText returns the chain's true start as "HH:MM".
func (s *Segment) StartText() string {
	return timeutil.ClockText(timeutil.SecondsOfDay(s.Parent().Event.Start))
}

// EndText returns the chain's true end as "HH:MM".
func (s *Segment) EndText() string {
	return timeutil.ClockText(timeutil.SecondsOfDay(s.Parent().Event.End))
}

// SetDisplayWindow re-clips the segment after a time change. The owning
// day must be rebuilt afterwards.
func (s *Segment) SetDisplayWindow(start, end time.Time) {
	s.displayStart = start
	s.displayEnd = end
}

func (s *Segment) setLane(lane int) { s.lane = lane }
