// Package timeutil provides date and clock arithmetic for the diary engine.
package timeutil

import (
	"errors"
	"fmt"
	"time"
)

// Validation errors.
var (
	ErrInvalidDateFormat = errors.New("date must be in YYYY-MM-DD format")
)

const (
	// SecondsPerDay is the number of seconds in one calendar day.
	SecondsPerDay = 24 * 60 * 60

	// SnapMinutes is the snapping granularity for interactive edits.
	SnapMinutes = 15

	// snapUpThreshold is the remainder (in minutes past a quarter hour) at
	// which end-time snapping starts rounding up instead of down.
	snapUpThreshold = 8
)

// SecondsOfDay returns the seconds elapsed since midnight of t's day,
// in [0, 86400).
func SecondsOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// StartOfDay returns t with the time set to midnight.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns midnight of the day after t. Display windows treat the
// day boundary as exclusive, so a segment clipped to its day ends here.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1)
}

// SnapStartMinutes snaps a start time down to the previous quarter hour.
func SnapStartMinutes(m int) int {
	return m - m%SnapMinutes
}

// SnapEndMinutes snaps an end time to the nearest quarter hour. Remainders
// of 8 minutes or more round up, smaller ones round down. The asymmetry
// keeps a dragged end edge from collapsing onto the slot it just left.
func SnapEndMinutes(m int) int {
	r := m % SnapMinutes
	if r < snapUpThreshold {
		return m - r
	}
	return m + (SnapMinutes - r)
}

// PixelsToSeconds converts a vertical pixel offset to seconds of day,
// truncating toward zero.
func PixelsToSeconds(px, pxPerHour int) int {
	return px * 3600 / pxPerHour
}

// SecondsToPixels converts seconds of day to a vertical pixel offset,
// truncating toward zero. The round trip through PixelsToSeconds loses
// at most one pixel's worth of seconds.
func SecondsToPixels(secs, pxPerHour int) int {
	return secs * pxPerHour / 3600
}

// ClockText formats seconds of day as "HH:MM".
func ClockText(secs int) string {
	h := secs / 3600
	m := (secs - h*3600) / 60
	return fmt.Sprintf("%02d:%02d", h, m)
}

// ParseDate parses a date string in YYYY-MM-DD format.
// If the string is empty, returns today's date at midnight.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return StartOfDay(time.Now()), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// WeekStart returns the first day of the week containing t, at midnight.
// Weeks start on Monday unless sundayStart is set.
func WeekStart(t time.Time, sundayStart bool) time.Time {
	t = StartOfDay(t)
	weekday := int(t.Weekday())
	if sundayStart {
		return t.AddDate(0, 0, -weekday)
	}
	if weekday == 0 {
		weekday = 7 // Sunday becomes day 7 in ISO week
	}
	return t.AddDate(0, 0, -(weekday - 1))
}
