package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mattparker/diary/internal/config"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  diary config`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInteractive()
		},
	}
}

func runConfigInteractive() error {
	configPath := config.DefaultConfigPath()
	fmt.Printf("Config file: %s\n\n", configPath)

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, fileErr := os.Stat(configPath)
	if os.IsNotExist(fileErr) {
		fmt.Println("No config file found. Creating with default values...")
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("Created %s\n\n", configPath)
	}

	printConfig(cfg)

	if !promptYesNo("\nWould you like to edit the configuration?") {
		return nil
	}

	reader := bufio.NewReader(os.Stdin)

	cfg.View.Days = promptInt(reader, "View days", cfg.View.Days)
	cfg.View.PxPerHour = promptInt(reader, "Pixels per hour", cfg.View.PxPerHour)
	cfg.View.DisplayStart = promptValue(reader, "Display start", cfg.View.DisplayStart)
	cfg.View.DisplayEnd = promptValue(reader, "Display end", cfg.View.DisplayEnd)
	cfg.View.WeekStart = promptValue(reader, "Week start (monday/sunday)", cfg.View.WeekStart)
	cfg.Storage.DBPath = promptValue(reader, "Database path", cfg.Storage.DBPath)
	cfg.Feed.Location = promptValue(reader, "ICS feed (empty to disable)", cfg.Feed.Location)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println("\nConfiguration saved!")
	return nil
}

func printConfig(cfg *config.Config) {
	fmt.Println("Current configuration:")
	fmt.Println("──────────────────────")
	fmt.Println("[view]")
	fmt.Printf("  days          = %d\n", cfg.View.Days)
	fmt.Printf("  px_per_hour   = %d\n", cfg.View.PxPerHour)
	fmt.Printf("  display_start = %s\n", cfg.View.DisplayStart)
	fmt.Printf("  display_end   = %s\n", cfg.View.DisplayEnd)
	fmt.Printf("  week_start    = %s\n", cfg.View.WeekStart)
	fmt.Println("\n[storage]")
	fmt.Printf("  db_path       = %s\n", cfg.Storage.DBPath)
	if cfg.Feed.Location != "" {
		fmt.Println("\n[feed]")
		fmt.Printf("  location      = %s\n", cfg.Feed.Location)
	}
}

func promptYesNo(question string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Printf("  %s: ", label)
	} else {
		fmt.Printf("  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(reader *bufio.Reader, label string, current int) int {
	for {
		input := promptValue(reader, label, strconv.Itoa(current))
		n, err := strconv.Atoi(input)
		if err == nil && n > 0 {
			return n
		}
		fmt.Printf("  %q is not a positive number\n", input)
	}
}
