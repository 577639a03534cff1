package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Brawl345/desklist/scheduler"
	"github.com/sosodev/duration"
)

type config struct {
	DatabaseURL     string
	IgnoreMigration bool
	Interval        time.Duration
	Location        *time.Location
	AppName         string
	Sound           string
}

func loadConfig() (config, error) {
	cfg := config{
		DatabaseURL: "sqlite:desklist.db",
		Interval:    scheduler.DefaultInterval,
		Location:    time.Local,
		AppName:     "Desklist",
		Sound:       "message-new-instant",
	}

	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		cfg.DatabaseURL = v
	}

	_, cfg.IgnoreMigration = os.LookupEnv("IGNORE_SQL_MIGRATION")

	if v := strings.TrimSpace(os.Getenv("REMINDER_INTERVAL")); v != "" {
		interval, err := parseInterval(v)
		if err != nil {
			return cfg, err
		}
		cfg.Interval = interval
	}

	if v := strings.TrimSpace(os.Getenv("DISPLAY_TIMEZONE")); v != "" {
		loc, err := time.LoadLocation(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid DISPLAY_TIMEZONE: %w", err)
		}
		cfg.Location = loc
	}

	if v := strings.TrimSpace(os.Getenv("NOTIFY_APP_NAME")); v != "" {
		cfg.AppName = v
	}

	// Set but empty disables the sound.
	if v, ok := os.LookupEnv("NOTIFY_SOUND"); ok {
		cfg.Sound = strings.TrimSpace(v)
	}

	return cfg, nil
}

// parseInterval accepts Go durations ("30s") and ISO-8601 durations ("PT30S").
func parseInterval(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		iso, isoErr := duration.Parse(strings.ToUpper(s))
		if isoErr != nil {
			return 0, fmt.Errorf("invalid REMINDER_INTERVAL %q", s)
		}
		d = iso.ToTimeDuration()
	}
	if d <= 0 {
		return 0, fmt.Errorf("REMINDER_INTERVAL must be positive, got %s", s)
	}
	return d, nil
}
