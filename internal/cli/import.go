package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mattparker/diary/internal/ics"
	"github.com/mattparker/diary/internal/timeutil"
)

// defaultImportDays bounds recurrence expansion when no window is given.
const defaultImportDays = 365

func (a *App) importCmd() *cobra.Command {
	var (
		startDate string
		endDate   string
	)

	cmd := &cobra.Command{
		Use:   "import [path-or-url]",
		Short: "Import events from an iCalendar feed",
		Long: `Import events from an ICS file or URL into the database.

Recurring events are expanded to individual occurrences within the
import window, which defaults to a year from today.

Example:
  diary import calendar.ics
  diary import https://example.org/team.ics --start=2026-01-01 --end=2026-03-31`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			from, err := timeutil.ParseDate(startDate)
			if err != nil {
				return err
			}
			from = timeutil.StartOfDay(from)

			to := from.AddDate(0, 0, defaultImportDays)
			if endDate != "" {
				end, err := timeutil.ParseDate(endDate)
				if err != nil {
					return err
				}
				to = timeutil.EndOfDay(end)
			}

			ctx := context.Background()
			count, err := importFeed(ctx, a, args[0], from, to)
			if err != nil {
				return err
			}

			fmt.Printf("Imported %s from %s\n", formatStats(fmt.Sprintf("%d events", count)), args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "Import window start (YYYY-MM-DD, default: today)")
	cmd.Flags().StringVar(&endDate, "end", "", "Import window end (YYYY-MM-DD, default: one year out)")

	return cmd
}

func importFeed(ctx context.Context, a *App, location string, from, to time.Time) (int, error) {
	feed := ics.NewFeed(location)
	events, err := feed.FetchEvents(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("reading feed: %w", err)
	}

	imported := 0
	for _, ev := range events {
		if err := a.store.AddEvent(ctx, ev); err != nil {
			return imported, fmt.Errorf("importing event %q: %w", ev.Summary, err)
		}
		imported++
	}
	return imported, nil
}
