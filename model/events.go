package model

import (
	"database/sql"
	"time"
)

type EventFilter string

const (
	FilterToday     EventFilter = "today"
	FilterUpcoming  EventFilter = "upcoming"
	FilterCompleted EventFilter = "completed"
	FilterAll       EventFilter = "all"
)

type (
	Event struct {
		ID           string         `db:"id"`
		Title        string         `db:"title"`
		Description  string         `db:"description"`
		EventTime    string         `db:"event_time"`
		Completed    bool           `db:"completed"`
		RemindAt     sql.NullString `db:"remind_at"`
		RemindOnTime bool           `db:"remind_on_time"`
		CreatedAt    string         `db:"created_at"`
		UpdatedAt    string         `db:"updated_at"`
	}

	// NewEvent holds the user input needed to create an event.
	NewEvent struct {
		Title        string
		Description  string
		EventTime    time.Time
		RemindAt     *time.Time
		RemindOnTime bool
	}
)
