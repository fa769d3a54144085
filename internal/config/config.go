// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the application configuration.
type Config struct {
	View    ViewConfig    `toml:"view"`
	Storage StorageConfig `toml:"storage"`
	Feed    FeedConfig    `toml:"feed"`
}

// ViewConfig holds calendar display settings.
type ViewConfig struct {
	Days         int    `toml:"days"`          // number of days in the view, e.g. 7
	PxPerHour    int    `toml:"px_per_hour"`   // vertical scale for geometry calculations
	DisplayStart string `toml:"display_start"` // first hour rendered, e.g. "07:00"
	DisplayEnd   string `toml:"display_end"`   // last hour rendered, e.g. "22:00"
	AllowSpan    bool   `toml:"allow_span"`    // allow drag-created events to cross days
	WeekStart    string `toml:"week_start"`    // "monday" or "sunday"
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
	Watch  bool   `toml:"watch"` // reload when the database changes on disk
}

// FeedConfig holds iCalendar feed settings.
type FeedConfig struct {
	Location string `toml:"location"` // file path or http(s) URL, empty disables feeds
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		View: ViewConfig{
			Days:         7,
			PxPerHour:    20,
			DisplayStart: "07:00",
			DisplayEnd:   "22:00",
			AllowSpan:    false,
			WeekStart:    "monday",
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
			Watch:  false,
		},
		Feed: FeedConfig{
			Location: "",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "diary.db"
	}
	return filepath.Join(home, ".local", "share", "diary", "diary.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "diary", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	if cfg.Feed.Location != "" && !strings.Contains(cfg.Feed.Location, "://") {
		cfg.Feed.Location = expandPath(cfg.Feed.Location)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DIARY_DAYS"); v != "" {
		if n, err := parsePositiveInt(v); err == nil {
			cfg.View.Days = n
		}
	}
	if v := os.Getenv("DIARY_PX_PER_HOUR"); v != "" {
		if n, err := parsePositiveInt(v); err == nil {
			cfg.View.PxPerHour = n
		}
	}
	if v := os.Getenv("DIARY_DISPLAY_START"); v != "" {
		cfg.View.DisplayStart = v
	}
	if v := os.Getenv("DIARY_DISPLAY_END"); v != "" {
		cfg.View.DisplayEnd = v
	}
	if v := os.Getenv("DIARY_WEEK_START"); v != "" {
		cfg.View.WeekStart = v
	}
	if v := os.Getenv("DIARY_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("DIARY_FEED"); v != "" {
		cfg.Feed.Location = v
	}
}

func parsePositiveInt(s string) (int, error) {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("not a number: %q", s)
		}
		n = n*10 + int(c-'0')
	}
	if n == 0 {
		return 0, fmt.Errorf("must be positive: %q", s)
	}
	return n, nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.View.Days < 1 {
		return errors.New("view days must be at least 1")
	}
	if c.View.PxPerHour < 1 {
		return errors.New("px_per_hour must be at least 1")
	}
	if err := validateTime(c.View.DisplayStart, "display_start"); err != nil {
		return err
	}
	if err := validateTime(c.View.DisplayEnd, "display_end"); err != nil {
		return err
	}
	if c.View.DisplayStart >= c.View.DisplayEnd {
		return errors.New("display_start must be before display_end")
	}
	switch strings.ToLower(c.View.WeekStart) {
	case "monday", "sunday":
	default:
		return fmt.Errorf("week_start must be monday or sunday, got %q", c.View.WeekStart)
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	return nil
}

// validateTime checks if a time string is in HH:MM format.
func validateTime(t, field string) error {
	if len(t) != 5 || t[2] != ':' {
		return fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	hour := t[0:2]
	min := t[3:5]
	if !isDigits(hour) || !isDigits(min) {
		return fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	return nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// DisplayHours returns the configured display window as hour offsets
// from midnight, e.g. "07:00".."22:00" gives (7, 22).
func (c *Config) DisplayHours() (start, end int) {
	start = hourOf(c.View.DisplayStart)
	end = hourOf(c.View.DisplayEnd)
	return start, end
}

func hourOf(hhmm string) int {
	h := int(hhmm[0]-'0')*10 + int(hhmm[1]-'0')
	if h > 23 {
		return 23
	}
	return h
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
