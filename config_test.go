package main

import (
	"testing"
	"time"

	"github.com/Brawl345/desklist/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInterval(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"30s", 30 * time.Second},
		{"1m30s", 90 * time.Second},
		{"PT30S", 30 * time.Second},
		{"pt2m", 2 * time.Minute},
	}
	for _, tt := range tests {
		got, err := parseInterval(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, in := range []string{"soon", "0s", "-5s", "PT0S"} {
		_, err := parseInterval(in)
		assert.Error(t, err, in)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REMINDER_INTERVAL", "")
	t.Setenv("DISPLAY_TIMEZONE", "")
	t.Setenv("NOTIFY_APP_NAME", "")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "sqlite:desklist.db", cfg.DatabaseURL)
	assert.Equal(t, scheduler.DefaultInterval, cfg.Interval)
	assert.Equal(t, time.Local, cfg.Location)
	assert.Equal(t, "Desklist", cfg.AppName)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite:/tmp/other.db")
	t.Setenv("REMINDER_INTERVAL", "PT1M")
	t.Setenv("DISPLAY_TIMEZONE", "Europe/Berlin")
	t.Setenv("NOTIFY_APP_NAME", "Reminders")
	t.Setenv("NOTIFY_SOUND", "")
	t.Setenv("IGNORE_SQL_MIGRATION", "1")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "sqlite:/tmp/other.db", cfg.DatabaseURL)
	assert.Equal(t, time.Minute, cfg.Interval)
	assert.Equal(t, "Europe/Berlin", cfg.Location.String())
	assert.Equal(t, "Reminders", cfg.AppName)
	assert.Empty(t, cfg.Sound)
	assert.True(t, cfg.IgnoreMigration)
}

func TestLoadConfig_InvalidTimezone(t *testing.T) {
	t.Setenv("DISPLAY_TIMEZONE", "Mars/Olympus")
	_, err := loadConfig()
	assert.Error(t, err)
}
