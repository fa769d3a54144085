package event

import (
	"errors"
	"fmt"
	"time"
)

// Mapping errors.
var (
	ErrBadInstant = errors.New("value is not coercible to a time")
)

// FieldMap names the keys under which a raw data-source record carries each
// event field. Zero-value entries fall back to the defaults below, so a
// caller only overrides the keys that differ.
type FieldMap struct {
	UID         string
	Start       string
	End         string
	Summary     string
	Description string
	URL         string
	Location    string
	Categories  string
	BackClass   string
	DetailClass string
}

// DefaultFieldMap mirrors the iCalendar-flavoured keys the original data
// sources use.
func DefaultFieldMap() FieldMap {
	return FieldMap{
		UID:         "UID",
		Start:       "DTSTART",
		End:         "DTEND",
		Summary:     "SUMMARY",
		Description: "DESCRIPTION",
		URL:         "URL",
		Location:    "LOCATION",
		Categories:  "CATEGORIES",
		BackClass:   "backClass",
		DetailClass: "detailClass",
	}
}

func (m FieldMap) merged() FieldMap {
	d := DefaultFieldMap()
	if m.UID == "" {
		m.UID = d.UID
	}
	if m.Start == "" {
		m.Start = d.Start
	}
	if m.End == "" {
		m.End = d.End
	}
	if m.Summary == "" {
		m.Summary = d.Summary
	}
	if m.Description == "" {
		m.Description = d.Description
	}
	if m.URL == "" {
		m.URL = d.URL
	}
	if m.Location == "" {
		m.Location = d.Location
	}
	if m.Categories == "" {
		m.Categories = d.Categories
	}
	if m.BackClass == "" {
		m.BackClass = d.BackClass
	}
	if m.DetailClass == "" {
		m.DetailClass = d.DetailClass
	}
	return m
}

// MapRecord converts a raw record to an Event using the field map.
// Start and end values may be time.Time, RFC 3339 strings, or unix seconds.
func (m FieldMap) MapRecord(rec map[string]any) (*Event, error) {
	m = m.merged()

	start, err := coerceInstant(rec[m.Start])
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", m.Start, err)
	}
	end, err := coerceInstant(rec[m.End])
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", m.End, err)
	}

	ev, err := New(stringField(rec, m.UID), start, end, stringField(rec, m.Summary))
	if err != nil {
		return nil, err
	}
	ev.Description = stringField(rec, m.Description)
	ev.URL = stringField(rec, m.URL)
	ev.Location = stringField(rec, m.Location)
	ev.BackClass = stringField(rec, m.BackClass)
	ev.DetailClass = stringField(rec, m.DetailClass)
	if cats, ok := rec[m.Categories].([]string); ok {
		ev.Categories = cats
	}
	return ev, nil
}

func coerceInstant(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case *time.Time:
		if t == nil {
			return time.Time{}, ErrBadInstant
		}
		return *t, nil
	case string:
		parsed, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return time.Time{}, ErrBadInstant
		}
		return parsed, nil
	case int64:
		return time.Unix(t, 0), nil
	case int:
		return time.Unix(int64(t), 0), nil
	case nil:
		return time.Time{}, nil
	default:
		return time.Time{}, ErrBadInstant
	}
}

func stringField(rec map[string]any, key string) string {
	if s, ok := rec[key].(string); ok {
		return s
	}
	return ""
}
