package model

type ReminderType string

const (
	// ReminderOnTime fires at the event time itself.
	ReminderOnTime ReminderType = "on_time"
	// ReminderAdvance fires at the user-chosen remind_at time before the event.
	ReminderAdvance ReminderType = "advance"
)

type (
	ReminderQueueEntry struct {
		ID      int64        `db:"id"`
		EventID string       `db:"event_id"`
		FireAt  string       `db:"fire_at"`
		Type    ReminderType `db:"type"`
		Fired   bool         `db:"fired"`
	}

	// DueReminder is a queue entry joined with the fields of its event
	// needed to build a notification.
	DueReminder struct {
		ID         int64        `db:"id"`
		EventID    string       `db:"event_id"`
		FireAt     string       `db:"fire_at"`
		Type       ReminderType `db:"type"`
		EventTitle string       `db:"title"`
		EventTime  string       `db:"event_time"`
	}

	Notification struct {
		Title string
		Body  string
		// Sound is a sound name understood by the notification server, empty for silence.
		Sound string
	}
)
