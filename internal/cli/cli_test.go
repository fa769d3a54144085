package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mattparker/diary/internal/config"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.DBPath = filepath.Join(t.TempDir(), "diary.db")

	a := NewApp(cfg)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestAtClock(t *testing.T) {
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	got, err := atClock(day, "09:30")
	if err != nil {
		t.Fatalf("atClock failed: %v", err)
	}
	if got.Hour() != 9 || got.Minute() != 30 || got.Day() != 14 {
		t.Errorf("atClock = %v", got)
	}

	if _, err := atClock(day, "9.30"); err == nil {
		t.Error("expected an error for a malformed clock")
	}
}

func TestListRange(t *testing.T) {
	t.Run("single day", func(t *testing.T) {
		from, to, err := listRange("2026-03-14", "")
		if err != nil {
			t.Fatalf("listRange failed: %v", err)
		}
		if !to.Equal(from.AddDate(0, 0, 1)) {
			t.Errorf("single-day range = [%v, %v)", from, to)
		}
	})

	t.Run("multi day", func(t *testing.T) {
		from, to, err := listRange("2026-03-14", "2026-03-16")
		if err != nil {
			t.Fatalf("listRange failed: %v", err)
		}
		// The end date is inclusive, so the window runs to the next midnight.
		if !to.Equal(from.AddDate(0, 0, 3)) {
			t.Errorf("range = [%v, %v)", from, to)
		}
	})

	t.Run("bad date", func(t *testing.T) {
		if _, _, err := listRange("garbage", ""); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestImportFeed(t *testing.T) {
	a := newTestApp(t)
	if err := a.ensureStore(); err != nil {
		t.Fatalf("opening store: %v", err)
	}

	feed := strings.ReplaceAll(`BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//diary//test//EN
BEGIN:VEVENT
UID:imported
DTSTART:20260310T090000Z
DTEND:20260310T100000Z
SUMMARY:Imported event
END:VEVENT
END:VCALENDAR
`, "\n", "\r\n")

	path := filepath.Join(t.TempDir(), "cal.ics")
	if err := os.WriteFile(path, []byte(feed), 0o644); err != nil {
		t.Fatalf("writing feed: %v", err)
	}

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	count, err := importFeed(context.Background(), a, path, from, to)
	if err != nil {
		t.Fatalf("importFeed failed: %v", err)
	}
	if count != 1 {
		t.Errorf("imported %d events, want 1", count)
	}

	stored, err := a.store.AllEvents(context.Background())
	if err != nil {
		t.Fatalf("AllEvents failed: %v", err)
	}
	if len(stored) != 1 || stored[0].UID != "imported" {
		t.Errorf("stored events = %v", stored)
	}
}
