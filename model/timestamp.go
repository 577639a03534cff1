package model

import "time"

const (
	// TimestampLayout is the layout of reminder_queue.fire_at and of the "now"
	// value the due check compares it with. It is zero-padded and fixed-width,
	// so string comparison orders it chronologically.
	TimestampLayout = "2006-01-02T15:04:05"

	// EventTimeLayout is the layout events.event_time is written with.
	EventTimeLayout = "2006-01-02T15:04:05.000Z"

	// DisplayLayout is used for notification bodies.
	DisplayLayout = "2006-01-02 15:04"
)

// FormatTimestamp formats t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// FormatEventTime formats t in UTC using EventTimeLayout.
func FormatEventTime(t time.Time) string {
	return t.UTC().Format(EventTimeLayout)
}
