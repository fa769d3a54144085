package render

import (
	"strings"
	"testing"
	"time"

	"github.com/mattparker/diary/internal/diary"
	"github.com/mattparker/diary/internal/event"
)

var weekStart = time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

func buildScheduler(t *testing.T) *diary.Scheduler {
	t.Helper()
	s := diary.NewScheduler(diary.Config{Start: weekStart, Days: 7})

	at := func(day, hour int) time.Time {
		return weekStart.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour)
	}
	add := func(uid string, start, end time.Time) {
		t.Helper()
		ev, err := event.New(uid, start, end, uid)
		if err != nil {
			t.Fatalf("event.New failed: %v", err)
		}
		if segs := s.AddEvent(ev); len(segs) == 0 {
			t.Fatalf("event %s not placed", uid)
		}
	}

	add("standup", at(0, 9), at(0, 10))
	add("review", at(0, 9), at(0, 11))
	add("lunch", at(2, 12), at(2, 13))
	return s
}

func TestRenderContainsEvents(t *testing.T) {
	r := New(7, 22)
	r.SetWidth(210)

	out := r.Render(buildScheduler(t))
	if !strings.Contains(out, "standup") {
		t.Error("output missing standup")
	}
	if !strings.Contains(out, "lunch") {
		t.Error("output missing lunch")
	}
	if !strings.Contains(out, "Mon 9") {
		t.Error("output missing day header")
	}
	if !strings.Contains(out, "09:00") {
		t.Error("output missing time column")
	}
}

func TestRenderOverlapSplitsColumn(t *testing.T) {
	r := New(7, 22)
	r.SetWidth(210)

	out := r.Render(buildScheduler(t))

	// Overlapping events share their day column, so both labels appear on
	// the same row.
	var found bool
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "standup") && strings.Contains(line, "review") {
			found = true
			break
		}
	}
	if !found {
		t.Error("overlapping events not drawn side by side")
	}
}

func TestRenderHiddenEventsReclaimWidth(t *testing.T) {
	s := buildScheduler(t)
	s.AddFilter("hide standup", func(ev *event.Event) bool { return ev.UID == "standup" })

	r := New(7, 22)
	r.SetWidth(210)
	out := r.Render(s)

	if strings.Contains(out, "standup") {
		t.Error("filtered event still drawn")
	}
	if !strings.Contains(out, "review") {
		t.Error("surviving event missing")
	}
}

func TestRenderDeterministic(t *testing.T) {
	r := New(7, 22)
	r.SetWidth(210)

	first := r.Render(buildScheduler(t))
	for i := 0; i < 3; i++ {
		if got := r.Render(buildScheduler(t)); got != first {
			t.Fatal("render output not deterministic")
		}
	}
}

func TestRenderEmptyScheduler(t *testing.T) {
	r := New(7, 22)
	r.SetWidth(210)

	s := diary.NewScheduler(diary.Config{Start: weekStart, Days: 7})
	out := r.Render(s)
	if out == "" {
		t.Error("empty scheduler should still render the grid frame")
	}
	if !strings.Contains(out, "Sun 15") {
		t.Error("last day header missing")
	}
}

func TestRenderDayWindowBounds(t *testing.T) {
	// A renderer clipped to business hours skips early events.
	s := diary.NewScheduler(diary.Config{Start: weekStart, Days: 1})
	ev, err := event.New("dawn", weekStart.Add(5*time.Hour), weekStart.Add(6*time.Hour), "dawn run")
	if err != nil {
		t.Fatalf("event.New failed: %v", err)
	}
	s.AddEvent(ev)

	r := New(9, 17)
	r.SetWidth(80)
	out := r.Render(s)
	if strings.Contains(out, "dawn run") {
		t.Error("event outside the display window was drawn")
	}
}
