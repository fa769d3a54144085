// Package ics ingests iCalendar feeds as diary events, expanding
// recurrence rules within the requested window.
package ics

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/mattparker/diary/internal/event"
)

// Parse errors.
var (
	ErrEmptyFeed = errors.New("empty ICS body")
)

// maxOccurrences caps recurrence expansion per VEVENT so a malformed
// rule cannot blow up a load.
const maxOccurrences = 1000

// fetchTimeout bounds a single feed download.
const fetchTimeout = 15 * time.Second

// Feed is an iCalendar source, either a local file or an HTTP(S) URL.
// It implements the scheduler's Source contract.
type Feed struct {
	Location string
	client   *http.Client
}

// NewFeed creates a feed for the given path or URL.
func NewFeed(location string) *Feed {
	return &Feed{
		Location: location,
		client:   &http.Client{Timeout: fetchTimeout},
	}
}

// FetchEvents downloads (or reads) the feed and returns the events
// overlapping [start, end), with recurring events expanded to concrete
// occurrences.
func (f *Feed) FetchEvents(ctx context.Context, start, end time.Time) ([]*event.Event, error) {
	body, err := f.read(ctx)
	if err != nil {
		return nil, err
	}
	return Parse(body, start, end)
}

func (f *Feed) read(ctx context.Context) ([]byte, error) {
	if strings.HasPrefix(f.Location, "http://") || strings.HasPrefix(f.Location, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.Location, nil)
		if err != nil {
			return nil, err
		}
		resp, err := f.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching feed: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetching feed: unexpected status %s", resp.Status)
		}
		return io.ReadAll(resp.Body)
	}
	return os.ReadFile(f.Location)
}

// Parse converts an ICS payload to events overlapping [start, end).
// Non-recurring VEVENTs pass through unchanged; VEVENTs with an RRULE
// are expanded to one event per occurrence within the window. Malformed
// VEVENTs are skipped, not fatal.
func Parse(body []byte, start, end time.Time) ([]*event.Event, error) {
	if len(body) == 0 {
		return nil, ErrEmptyFeed
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing calendar: %w", err)
	}

	var events []*event.Event
	for _, ve := range cal.Events() {
		evs, err := parseVEvent(ve, start, end)
		if err != nil {
			continue
		}
		events = append(events, evs...)
	}
	return events, nil
}

func parseVEvent(ve *ical.VEvent, rangeStart, rangeEnd time.Time) ([]*event.Event, error) {
	uid := ""
	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		uid = p.Value
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return nil, err
	}
	end, err := ve.GetEndAt()
	if err != nil {
		return nil, err
	}

	base, err := event.New(uid, start, end, propValue(ve, ical.ComponentPropertySummary))
	if err != nil {
		return nil, err
	}
	base.Description = propValue(ve, ical.ComponentPropertyDescription)
	base.Location = propValue(ve, ical.ComponentPropertyLocation)
	base.URL = propValue(ve, ical.ComponentPropertyUrl)
	if cats := propValue(ve, ical.ComponentPropertyCategories); cats != "" {
		base.Categories = strings.Split(cats, ",")
	}

	raw := propValue(ve, ical.ComponentPropertyRrule)
	if raw == "" {
		if base.Start.Before(rangeEnd) && base.End.After(rangeStart) {
			return []*event.Event{base}, nil
		}
		return nil, nil
	}

	return expand(base, raw, rangeStart, rangeEnd)
}

// expand materializes a recurring event's occurrences within the window.
// Each occurrence gets a UID derived from the base UID and its start, so
// occurrences stay individually addressable.
func expand(base *event.Event, rawRule string, rangeStart, rangeEnd time.Time) ([]*event.Event, error) {
	opt, err := rrule.StrToROption(rawRule)
	if err != nil {
		return nil, fmt.Errorf("parsing RRULE: %w", err)
	}
	opt.Dtstart = base.Start

	rule, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("building RRULE: %w", err)
	}

	duration := base.Duration()
	var events []*event.Event
	for _, occStart := range rule.Between(rangeStart.Add(-duration), rangeEnd, true) {
		if len(events) >= maxOccurrences {
			break
		}
		occ := *base
		occ.UID = fmt.Sprintf("%s-%d", base.UID, occStart.Unix())
		occ.Start = occStart
		occ.End = occStart.Add(duration)
		if occ.End.After(rangeStart) && occ.Start.Before(rangeEnd) {
			events = append(events, &occ)
		}
	}
	return events, nil
}

func propValue(ve *ical.VEvent, prop ical.ComponentProperty) string {
	if p := ve.GetProperty(prop); p != nil {
		return p.Value
	}
	return ""
}
