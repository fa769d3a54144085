package diary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mattparker/diary/internal/event"
	"github.com/mattparker/diary/internal/layout"
)

// viewStart is a Monday.
var viewStart = time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	return NewScheduler(Config{Start: viewStart, Days: 7})
}

// mkEvent builds an event on the given day offset within the view.
func mkEvent(t *testing.T, uid string, dayOffset int, startClock, endClock string, endDayOffset int) *event.Event {
	t.Helper()
	at := func(offset int, clock string) time.Time {
		c, err := time.Parse("15:04", clock)
		if err != nil {
			t.Fatalf("bad clock %q: %v", clock, err)
		}
		d := viewStart.AddDate(0, 0, offset)
		return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), 0, 0, time.UTC)
	}
	ev, err := event.New(uid, at(dayOffset, startClock), at(endDayOffset, endClock), uid)
	if err != nil {
		t.Fatalf("event.New failed: %v", err)
	}
	return ev
}

func TestAddEventSingleDay(t *testing.T) {
	s := newTestScheduler(t)
	ev := mkEvent(t, "standup", 0, "09:00", "09:30", 0)

	segs := s.AddEvent(ev)
	if len(segs) != 1 {
		t.Fatalf("segment count = %d, want 1", len(segs))
	}
	if segs[0].Position != layout.PositionSingle {
		t.Errorf("Position = %s, want single", segs[0].Position)
	}

	day := s.DayAt(viewStart)
	if day.Len() != 1 {
		t.Errorf("day Len = %d, want 1", day.Len())
	}
	if _, ok := s.SegmentByID(segs[0].ID()); !ok {
		t.Error("segment not indexed")
	}
}

func TestAddEventConvertsToViewZone(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	s := NewScheduler(Config{Start: time.Date(2026, 3, 9, 0, 0, 0, 0, est), Days: 7})

	// 02:00 UTC on Tuesday is still Monday evening in the view's zone.
	ev, err := event.New("redeye",
		time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC),
		"redeye")
	if err != nil {
		t.Fatalf("event.New failed: %v", err)
	}

	segs := s.AddEvent(ev)
	if len(segs) != 1 {
		t.Fatalf("segment count = %d, want 1", len(segs))
	}
	if segs[0].Position != layout.PositionSingle {
		t.Errorf("Position = %s, want single", segs[0].Position)
	}
	if _, ok := s.SegmentByID("redeye/2026-03-09"); !ok {
		t.Error("segment not placed on the view-local day")
	}
	if got := ev.Start.Hour(); got != 21 {
		t.Errorf("Start hour = %d, want 21 in the view's zone", got)
	}
	if !ev.Start.Equal(time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC)) {
		t.Error("zone conversion changed the instant")
	}
}

func TestAddEventSpanning(t *testing.T) {
	s := newTestScheduler(t)
	// Monday 22:00 to Wednesday 02:00.
	ev := mkEvent(t, "trip", 0, "22:00", "02:00", 2)

	segs := s.AddEvent(ev)
	if len(segs) != 3 {
		t.Fatalf("segment count = %d, want 3", len(segs))
	}

	wantPos := []layout.Position{layout.PositionFirst, layout.PositionMid, layout.PositionLast}
	for i, seg := range segs {
		if seg.Position != wantPos[i] {
			t.Errorf("segment %d Position = %s, want %s", i, seg.Position, wantPos[i])
		}
	}

	t.Run("chain links", func(t *testing.T) {
		if got := len(segs[0].Children()); got != 2 {
			t.Errorf("chain children = %d, want 2", got)
		}
		if segs[1].Parent() != segs[0] || segs[2].Parent() != segs[0] {
			t.Error("later segments must route to the first")
		}
	})

	t.Run("display windows clipped", func(t *testing.T) {
		if got := segs[0].DisplayStartSeconds(); got != 22*3600 {
			t.Errorf("first start secs = %d", got)
		}
		if got := segs[0].DisplayEndSeconds(); got != 24*3600 {
			t.Errorf("first end secs = %d", got)
		}
		if segs[1].DisplayStartSeconds() != 0 || segs[1].DisplayEndSeconds() != 24*3600 {
			t.Error("interior segment must span its whole day")
		}
		if got := segs[2].DisplayEndSeconds(); got != 2*3600 {
			t.Errorf("last end secs = %d", got)
		}
	})

	t.Run("each day holds one segment", func(t *testing.T) {
		for offset := 0; offset < 3; offset++ {
			day := s.DayAt(viewStart.AddDate(0, 0, offset))
			if day.Len() != 1 {
				t.Errorf("day %d Len = %d, want 1", offset, day.Len())
			}
		}
	})
}

func TestAddEventStartingBeforeView(t *testing.T) {
	s := newTestScheduler(t)
	// Starts two days before the view opens, ends Tuesday.
	ev := mkEvent(t, "early", -2, "10:00", "14:00", 1)

	segs := s.AddEvent(ev)
	if len(segs) != 2 {
		t.Fatalf("segment count = %d, want 2", len(segs))
	}
	// The first in-view slice is an interior day; it still roots the chain.
	if segs[0].Position != layout.PositionMid {
		t.Errorf("first in-view Position = %s, want mid", segs[0].Position)
	}
	if segs[1].Parent() != segs[0] {
		t.Error("chain must root at the first created segment")
	}
}

func TestAddEventOutOfRange(t *testing.T) {
	s := newTestScheduler(t)
	ev := mkEvent(t, "far", 30, "09:00", "10:00", 30)

	if segs := s.AddEvent(ev); segs != nil {
		t.Errorf("out-of-range event produced %d segments", len(segs))
	}
}

func TestAddEventReversedTimes(t *testing.T) {
	s := newTestScheduler(t)
	ev := mkEvent(t, "rev", 0, "09:00", "10:00", 0)
	ev.Start, ev.End = ev.End, ev.Start

	segs := s.AddEvent(ev)
	if len(segs) != 1 {
		t.Fatalf("segment count = %d, want 1", len(segs))
	}
	if !ev.Start.Before(ev.End) {
		t.Error("reversed times not recovered")
	}
}

func TestRemoveEvent(t *testing.T) {
	s := newTestScheduler(t)
	s.AddEvent(mkEvent(t, "trip", 0, "22:00", "02:00", 2))

	if !s.RemoveEvent("trip") {
		t.Fatal("RemoveEvent returned false")
	}
	for offset := 0; offset < 3; offset++ {
		if day := s.DayAt(viewStart.AddDate(0, 0, offset)); day.Len() != 0 {
			t.Errorf("day %d still holds %d segments", offset, day.Len())
		}
	}
	if s.RemoveEvent("trip") {
		t.Error("second RemoveEvent should return false")
	}
}

// stubSource returns canned events or a canned error.
type stubSource struct {
	events []*event.Event
	err    error
}

func (s stubSource) FetchEvents(context.Context, time.Time, time.Time) ([]*event.Event, error) {
	return s.events, s.err
}

func TestLoad(t *testing.T) {
	t.Run("replaces existing view", func(t *testing.T) {
		s := newTestScheduler(t)
		s.AddEvent(mkEvent(t, "old", 0, "09:00", "10:00", 0))

		src := stubSource{events: []*event.Event{mkEvent(t, "new", 1, "09:00", "10:00", 1)}}
		if err := s.Load(context.Background(), src); err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		if day := s.DayAt(viewStart); day.Len() != 0 {
			t.Error("old segments survived the reload")
		}
		if day := s.DayAt(viewStart.AddDate(0, 0, 1)); day.Len() != 1 {
			t.Error("new event not placed")
		}
	})

	t.Run("failure leaves state untouched", func(t *testing.T) {
		s := newTestScheduler(t)
		s.AddEvent(mkEvent(t, "keep", 0, "09:00", "10:00", 0))

		var notified error
		s.OnDataFailure(func(err error) { notified = err })

		srcErr := errors.New("backend down")
		if err := s.Load(context.Background(), stubSource{err: srcErr}); !errors.Is(err, srcErr) {
			t.Fatalf("Load error = %v, want %v", err, srcErr)
		}
		if !errors.Is(notified, srcErr) {
			t.Error("DataFailure notification did not fire")
		}
		if day := s.DayAt(viewStart); day.Len() != 1 {
			t.Error("existing segments were discarded on a failed load")
		}
	})

	t.Run("merge layers on top", func(t *testing.T) {
		s := newTestScheduler(t)
		s.AddEvent(mkEvent(t, "base", 0, "09:00", "10:00", 0))

		src := stubSource{events: []*event.Event{mkEvent(t, "extra", 0, "11:00", "12:00", 0)}}
		if err := s.Merge(context.Background(), src); err != nil {
			t.Fatalf("Merge failed: %v", err)
		}
		if day := s.DayAt(viewStart); day.Len() != 2 {
			t.Errorf("day Len = %d after merge, want 2", day.Len())
		}
	})
}

func TestSetStart(t *testing.T) {
	s := newTestScheduler(t)
	s.AddEvent(mkEvent(t, "ev", 0, "09:00", "10:00", 0))

	next := viewStart.AddDate(0, 0, 7)
	s.SetStart(next)

	if !s.Start().Equal(next) {
		t.Errorf("Start = %v, want %v", s.Start(), next)
	}
	if s.DayAt(viewStart) != nil {
		t.Error("old days still materialized")
	}
	if _, ok := s.SegmentByID("ev/2026-03-09"); ok {
		t.Error("index not cleared by SetStart")
	}
}

func TestDays(t *testing.T) {
	s := newTestScheduler(t)
	days := s.Days()
	if len(days) != 7 {
		t.Fatalf("Days count = %d, want 7", len(days))
	}
	for i, d := range days {
		want := viewStart.AddDate(0, 0, i)
		if !d.Date.Equal(want) {
			t.Errorf("day %d = %v, want %v", i, d.Date, want)
		}
	}
	if !s.End().Equal(viewStart.AddDate(0, 0, 7)) {
		t.Errorf("End = %v", s.End())
	}
}
