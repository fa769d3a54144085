package ics

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleFeed = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//diary//test//EN
BEGIN:VEVENT
UID:standup
DTSTART:20260310T090000Z
DTEND:20260310T093000Z
SUMMARY:Standup
LOCATION:Room 4
CATEGORIES:work,team
END:VEVENT
BEGIN:VEVENT
UID:lunch
DTSTART:20260309T120000Z
DTEND:20260309T123000Z
SUMMARY:Lunch
RRULE:FREQ=DAILY;COUNT=5
END:VEVENT
BEGIN:VEVENT
UID:faraway
DTSTART:20270101T090000Z
DTEND:20270101T100000Z
SUMMARY:Next year
END:VEVENT
END:VCALENDAR
`

func feedBytes() []byte {
	// iCalendar lines are CRLF-terminated.
	return []byte(strings.ReplaceAll(sampleFeed, "\n", "\r\n"))
}

var (
	windowStart = time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	windowEnd   = time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
)

func TestParse(t *testing.T) {
	events, err := Parse(feedBytes(), windowStart, windowEnd)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	// One plain event plus five daily occurrences; the out-of-window
	// event is dropped.
	if len(events) != 6 {
		t.Fatalf("parsed %d events, want 6", len(events))
	}

	byUID := make(map[string]bool)
	for _, ev := range events {
		byUID[ev.UID] = true
	}
	if !byUID["standup"] {
		t.Error("plain event missing")
	}
	if byUID["faraway"] {
		t.Error("out-of-window event included")
	}
}

func TestParsePlainEventFields(t *testing.T) {
	events, err := Parse(feedBytes(), windowStart, windowEnd)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	for _, ev := range events {
		if ev.UID != "standup" {
			continue
		}
		if ev.Summary != "Standup" || ev.Location != "Room 4" {
			t.Errorf("fields not carried: %+v", ev)
		}
		if len(ev.Categories) != 2 || ev.Categories[0] != "work" {
			t.Errorf("Categories = %v", ev.Categories)
		}
		want := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
		if !ev.Start.Equal(want) {
			t.Errorf("Start = %v, want %v", ev.Start, want)
		}
		return
	}
	t.Fatal("standup event not found")
}

func TestParseExpandsRecurrence(t *testing.T) {
	events, err := Parse(feedBytes(), windowStart, windowEnd)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var occurrences []time.Time
	for _, ev := range events {
		if !strings.HasPrefix(ev.UID, "lunch-") {
			continue
		}
		occurrences = append(occurrences, ev.Start)
		if got := ev.End.Sub(ev.Start); got != 30*time.Minute {
			t.Errorf("occurrence duration = %v, want 30m", got)
		}
		if ev.Summary != "Lunch" {
			t.Errorf("occurrence Summary = %q", ev.Summary)
		}
	}

	if len(occurrences) != 5 {
		t.Fatalf("expanded %d occurrences, want 5", len(occurrences))
	}
	for i, at := range occurrences {
		want := time.Date(2026, 3, 9+i, 12, 0, 0, 0, time.UTC)
		if !at.Equal(want) {
			t.Errorf("occurrence %d = %v, want %v", i, at, want)
		}
	}
}

func TestParseRecurrenceWindowClips(t *testing.T) {
	// A window covering only two of the five daily occurrences.
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	events, err := Parse(feedBytes(), start, end)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	count := 0
	for _, ev := range events {
		if strings.HasPrefix(ev.UID, "lunch-") {
			count++
		}
	}
	if count != 2 {
		t.Errorf("clipped expansion produced %d occurrences, want 2", count)
	}
}

func TestParseEmptyBody(t *testing.T) {
	if _, err := Parse(nil, windowStart, windowEnd); !errors.Is(err, ErrEmptyFeed) {
		t.Errorf("expected ErrEmptyFeed, got %v", err)
	}
}

func TestFeedFetchEventsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cal.ics")
	if err := os.WriteFile(path, feedBytes(), 0o644); err != nil {
		t.Fatalf("writing feed: %v", err)
	}

	feed := NewFeed(path)
	events, err := feed.FetchEvents(context.Background(), windowStart, windowEnd)
	if err != nil {
		t.Fatalf("FetchEvents failed: %v", err)
	}
	if len(events) != 6 {
		t.Errorf("fetched %d events, want 6", len(events))
	}
}

func TestFeedMissingFile(t *testing.T) {
	feed := NewFeed(filepath.Join(t.TempDir(), "nope.ics"))
	if _, err := feed.FetchEvents(context.Background(), windowStart, windowEnd); err == nil {
		t.Error("expected an error for a missing file")
	}
}
