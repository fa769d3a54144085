// Package store provides SQLite persistence for diary events.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/mattparker/diary/internal/event"
)

// SQLite stores events in a SQLite database. It implements the
// scheduler's Source contract.
type SQLite struct {
	db   *sql.DB
	path string
}

// New opens (or creates) the database at path and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db, path: path}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLite) Path() string { return s.path }

// AddEvent inserts or replaces an event by UID.
func (s *SQLite) AddEvent(ctx context.Context, ev *event.Event) error {
	query := `
		INSERT OR REPLACE INTO events (
			uid, dtstart, dtend, summary, description, url, location,
			categories, back_class, detail_class
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		ev.UID,
		ev.Start.UTC().Format(time.RFC3339),
		ev.End.UTC().Format(time.RFC3339),
		ev.Summary,
		ev.Description,
		ev.URL,
		ev.Location,
		strings.Join(ev.Categories, ","),
		ev.BackClass,
		ev.DetailClass,
	)
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

// RemoveEvent deletes an event by UID. Returns false if no row matched.
func (s *SQLite) RemoveEvent(ctx context.Context, uid string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE uid = ?`, uid)
	if err != nil {
		return false, fmt.Errorf("deleting event: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking deleted rows: %w", err)
	}
	return n > 0, nil
}

// FetchEvents returns every event overlapping the [start, end) window,
// ordered by start time. It satisfies the scheduler's Source interface.
// Timestamps are compared as text, so both sides must share one offset:
// rows are written in UTC and the window is converted to match.
func (s *SQLite) FetchEvents(ctx context.Context, start, end time.Time) ([]*event.Event, error) {
	query := `
		SELECT uid, dtstart, dtend, summary, description, url, location,
		       categories, back_class, detail_class
		FROM events
		WHERE dtstart < ? AND dtend > ?
		ORDER BY dtstart
	`

	rows, err := s.db.QueryContext(ctx, query,
		end.UTC().Format(time.RFC3339),
		start.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// AllEvents returns every stored event ordered by start time.
func (s *SQLite) AllEvents(ctx context.Context) ([]*event.Event, error) {
	query := `
		SELECT uid, dtstart, dtend, summary, description, url, location,
		       categories, back_class, detail_class
		FROM events
		ORDER BY dtstart
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]*event.Event, error) {
	var events []*event.Event

	for rows.Next() {
		var (
			ev         event.Event
			startStr   string
			endStr     string
			categories string
		)
		err := rows.Scan(
			&ev.UID,
			&startStr,
			&endStr,
			&ev.Summary,
			&ev.Description,
			&ev.URL,
			&ev.Location,
			&categories,
			&ev.BackClass,
			&ev.DetailClass,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}

		if ev.Start, err = time.Parse(time.RFC3339, startStr); err != nil {
			return nil, fmt.Errorf("parsing event start: %w", err)
		}
		if ev.End, err = time.Parse(time.RFC3339, endStr); err != nil {
			return nil, fmt.Errorf("parsing event end: %w", err)
		}
		if categories != "" {
			ev.Categories = strings.Split(categories, ",")
		}

		events = append(events, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}
	return events, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}
