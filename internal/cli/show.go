package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mattparker/diary/internal/diary"
	"github.com/mattparker/diary/internal/ics"
	"github.com/mattparker/diary/internal/render"
	"github.com/mattparker/diary/internal/store"
	"github.com/mattparker/diary/internal/timeutil"
)

func (a *App) showCmd() *cobra.Command {
	var (
		date  string
		days  int
		hide  []string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the calendar grid",
		Long: `Show a calendar grid for a range of days.

The view starts at the beginning of the week containing --date and
covers --days columns. Events from the database and the configured
feed are laid out with overlapping events side by side.

With --watch the grid is redrawn whenever the database file changes.`,
		Example: `  diary show
  diary show --date=2026-01-15 --days=3
  diary show --hide=work`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.runShow(cmd, date, days, hide...); err != nil {
				return err
			}
			if watch || a.config.Storage.Watch {
				return a.watchShow(cmd, date, days, hide...)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Any date inside the week to show (YYYY-MM-DD, default: today)")
	cmd.Flags().IntVar(&days, "days", 0, "Number of day columns (default from config)")
	cmd.Flags().StringSliceVar(&hide, "hide", nil, "Hide events carrying these categories")
	cmd.Flags().BoolVar(&watch, "watch", false, "Redraw when the database changes")

	return cmd
}

// watchShow blocks, redrawing the grid every time the database file is
// modified, until interrupted.
func (a *App) watchShow(cmd *cobra.Command, date string, days int, hide ...string) error {
	redraw := make(chan struct{}, 1)
	w, err := store.NewWatcher(a.config.Storage.DBPath, func() {
		select {
		case redraw <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return fmt.Errorf("watching database: %w", err)
	}
	defer func() { _ = w.Close() }()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	for {
		select {
		case <-redraw:
			cmd.Println()
			if err := a.runShow(cmd, date, days, hide...); err != nil {
				return err
			}
		case <-interrupt:
			return nil
		}
	}
}

// runShow builds a scheduler for the requested window, loads every
// configured source into it, and prints the rendered grid.
func (a *App) runShow(cmd *cobra.Command, date string, days int, hide ...string) error {
	if err := a.ensureStore(); err != nil {
		return err
	}

	anchor, err := timeutil.ParseDate(date)
	if err != nil {
		return err
	}
	if days <= 0 {
		days = a.config.View.Days
	}

	start := anchor
	if days >= 7 {
		start = timeutil.WeekStart(anchor, strings.EqualFold(a.config.View.WeekStart, "sunday"))
	}

	sched := diary.NewScheduler(diary.Config{
		Start:     start,
		Days:      days,
		PxPerHour: a.config.View.PxPerHour,
	})

	for _, cat := range hide {
		sched.AddFilter("category:"+cat, diary.CategoryFilter(cat))
	}

	ctx := context.Background()
	if err := sched.Load(ctx, a.store); err != nil {
		return fmt.Errorf("loading events: %w", err)
	}
	if a.config.Feed.Location != "" {
		feed := ics.NewFeed(a.config.Feed.Location)
		if err := sched.Merge(ctx, feed); err != nil {
			return fmt.Errorf("loading feed: %w", err)
		}
	}

	startHour, endHour := a.config.DisplayHours()
	r := render.New(startHour, endHour)
	r.SetWidth(termWidth())
	cmd.Print(r.Render(sched))

	return nil
}
