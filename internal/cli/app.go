// Package cli provides the command line interface for the diary.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattparker/diary/internal/config"
	"github.com/mattparker/diary/internal/store"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config *config.Config
	store  *store.SQLite
	root   *cobra.Command
}

// NewApp creates a new CLI application with the given config.
func NewApp(cfg *config.Config) *App {
	a := &App{config: cfg}

	a.root = &cobra.Command{
		Use:   "diary",
		Short: "A calendar diary with overlap-aware day layout",
		Long: `Diary keeps a week of events in a local database and lays each
day out the way a calendar widget would: overlapping events are packed
into side-by-side lanes, and events spanning midnight are split into
per-day segments.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runShow(cmd, "", 0)
		},
	}

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.removeCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.importCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("diary %s (commit: %s)\n", Version, Commit)
		},
	}
}

// ensureStore opens the database on first use.
func (a *App) ensureStore() error {
	if a.store != nil {
		return nil
	}
	s, err := store.New(a.config.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.store = s
	return nil
}

// Close releases the database if it was opened.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}
