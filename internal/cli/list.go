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

func (a *App) listCmd() *cobra.Command {
	var (
		startDate string
		endDate   string
		all       bool
		noColor   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events in a date range",
		Long: `List events scheduled within a date range.

If no dates are specified, lists today's events.
If only --start is specified, lists events for that single day.`,
		Example: `  diary list
  diary list --start=2026-01-15
  diary list --start=2026-01-15 --end=2026-01-20
  diary list --all`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			if err := a.ensureStore(); err != nil {
				return err
			}
			ctx := context.Background()

			var (
				events []*event.Event
				err    error
			)
			if all {
				events, err = a.store.AllEvents(ctx)
			} else {
				var from, to time.Time
				if from, to, err = listRange(startDate, endDate); err != nil {
					return err
				}
				events, err = a.store.FetchEvents(ctx, from, to)
			}
			if err != nil {
				return fmt.Errorf("listing events: %w", err)
			}

			if len(events) == 0 {
				fmt.Println("No events found in the specified date range.")
				return nil
			}

			printGrouped(events)
			fmt.Printf("\n%s\n", formatStats(fmt.Sprintf("%d events", len(events))))
			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&endDate, "end", "", "End date (YYYY-MM-DD, defaults to start date)")
	cmd.Flags().BoolVar(&all, "all", false, "List every stored event")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")

	return cmd
}

// listRange resolves the flags to a half-open [from, to) window.
func listRange(startDate, endDate string) (time.Time, time.Time, error) {
	from, err := timeutil.ParseDate(startDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	from = timeutil.StartOfDay(from)

	to := from
	if endDate != "" {
		if to, err = timeutil.ParseDate(endDate); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return from, timeutil.EndOfDay(to), nil
}

// printGrouped prints events grouped by start date.
func printGrouped(events []*event.Event) {
	var currentDate string
	for _, ev := range events {
		date := ev.Start.Format("2006-01-02")
		if date != currentDate {
			if currentDate != "" {
				fmt.Println()
			}
			fmt.Println(formatHeader(fmt.Sprintf("=== %s ===", date)))
			currentDate = date
		}

		span := fmt.Sprintf("%s-%s", ev.Start.Format("15:04"), ev.End.Format("15:04"))
		if !timeutil.SameDay(ev.Start, ev.End) {
			span = fmt.Sprintf("%s→%s %s",
				ev.Start.Format("15:04"), ev.End.Format("2006-01-02"), ev.End.Format("15:04"))
		}

		line := fmt.Sprintf("  %s  %s", span, formatEvent(ev.Summary))
		if len(ev.Categories) > 0 {
			line += "  " + formatMuted("["+strings.Join(ev.Categories, ",")+"]")
		}
		fmt.Println(line)
	}
}
