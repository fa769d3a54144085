package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [uid]",
		Short: "Remove an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			removed, err := a.store.RemoveEvent(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("removing event: %w", err)
			}
			if !removed {
				return fmt.Errorf("no event with uid %q", args[0])
			}

			fmt.Printf("Removed event %s\n", formatMuted(args[0]))
			return nil
		},
	}
}
