package store

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS events (
			uid          TEXT PRIMARY KEY,
			dtstart      TEXT NOT NULL,
			dtend        TEXT NOT NULL,
			summary      TEXT NOT NULL DEFAULT '',
			description  TEXT NOT NULL DEFAULT '',
			url          TEXT NOT NULL DEFAULT '',
			location     TEXT NOT NULL DEFAULT '',
			categories   TEXT NOT NULL DEFAULT '',
			back_class   TEXT NOT NULL DEFAULT '',
			detail_class TEXT NOT NULL DEFAULT '',
			created_at   DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_events_dtstart ON events(dtstart);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating events table: %w", err)
	}

	return nil
}
