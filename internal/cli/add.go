package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mattparker/diary/internal/event"
	"github.com/mattparker/diary/internal/timeutil"
)

func (a *App) addCmd() *cobra.Command {
	var (
		date        string
		start       string
		end         string
		endDate     string
		description string
		location    string
		categories  string
	)

	cmd := &cobra.Command{
		Use:   "add [summary]",
		Short: "Add a new event",
		Long: `Add a new event to the diary.

Example:
  diary add "Team standup" --date=2026-01-10 --start=09:00 --end=09:30
  diary add "Conference" --date=2026-01-10 --start=18:00 --end-date=2026-01-12 --end=14:00`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			day, err := timeutil.ParseDate(date)
			if err != nil {
				return err
			}
			endDay := day
			if endDate != "" {
				if endDay, err = timeutil.ParseDate(endDate); err != nil {
					return err
				}
			}

			startAt, err := atClock(day, start)
			if err != nil {
				return err
			}
			endAt, err := atClock(endDay, end)
			if err != nil {
				return err
			}

			ev, err := event.New("", startAt, endAt, args[0])
			if err != nil {
				return err
			}
			ev.Description = description
			ev.Location = location
			if categories != "" {
				ev.Categories = strings.Split(categories, ",")
			}

			if err := a.store.AddEvent(context.Background(), ev); err != nil {
				return fmt.Errorf("creating event: %w", err)
			}

			fmt.Printf("Created event %s: %s %s %s-%s\n",
				formatMuted(ev.UID),
				formatEvent(ev.Summary),
				ev.Start.Format("2006-01-02"),
				ev.Start.Format("15:04"),
				ev.End.Format("15:04"),
			)

			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Event date (YYYY-MM-DD, default: today)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM, required)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM, required)")
	cmd.Flags().StringVar(&endDate, "end-date", "", "End date for multi-day events (YYYY-MM-DD)")
	cmd.Flags().StringVar(&description, "description", "", "Longer description")
	cmd.Flags().StringVar(&location, "location", "", "Event location")
	cmd.Flags().StringVar(&categories, "categories", "", "Comma-separated category list")

	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

// atClock combines a date with an HH:MM clock time.
func atClock(day time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("time must be in HH:MM format, got %q", clock)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}
