package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Brawl345/desklist/logger"
	"github.com/Brawl345/desklist/model"
	"github.com/jmoiron/sqlx"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
)

type eventService struct {
	*DB
	log zerolog.Logger
	now func() time.Time
}

func NewEventService(db *DB) *eventService {
	return &eventService{
		DB:  db,
		log: logger.New("eventService"),
		now: time.Now,
	}
}

// Create stores a new event together with its reminder queue entries and
// returns the generated event id.
func (db *eventService) Create(ctx context.Context, event model.NewEvent) (string, error) {
	if !db.Ready() {
		return "", model.ErrStoreNotReady
	}
	if strings.TrimSpace(event.Title) == "" {
		return "", errors.New("event title is empty")
	}

	id := xid.New().String()
	now := model.FormatEventTime(db.now())

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	const query = `INSERT INTO events
    (id, title, description, event_time, completed, remind_at, remind_on_time, created_at, updated_at)
    VALUES (?, ?, ?, ?, 0, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, query,
		id,
		event.Title,
		event.Description,
		model.FormatEventTime(event.EventTime),
		remindAtValue(event.RemindAt),
		event.RemindOnTime,
		now,
		now,
	)
	if err != nil {
		return "", fmt.Errorf("insert event: %w", err)
	}

	if err := insertReminders(ctx, tx, id, event.EventTime, event.RemindAt, event.RemindOnTime); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}

	db.log.Debug().
		Str("id", id).
		Str("event_time", model.FormatEventTime(event.EventTime)).
		Msg("Created event")

	return id, nil
}

func (db *eventService) Get(ctx context.Context, id string) (model.Event, error) {
	var event model.Event
	if !db.Ready() {
		return event, model.ErrStoreNotReady
	}

	const query = `SELECT id, title, description, event_time, completed, remind_at, remind_on_time, created_at, updated_at
	FROM events WHERE id = ?`
	err := db.GetContext(ctx, &event, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return event, model.ErrNotFound
		}
	}
	return event, err
}

func (db *eventService) List(ctx context.Context, filter model.EventFilter) ([]model.Event, error) {
	if !db.Ready() {
		return nil, model.ErrStoreNotReady
	}

	const columns = `SELECT id, title, description, event_time, completed, remind_at, remind_on_time, created_at, updated_at FROM events`

	var (
		events []model.Event
		err    error
		now    = db.now()
	)

	switch filter {
	case model.FilterToday:
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		end := start.AddDate(0, 0, 1).Add(-time.Millisecond)
		err = db.SelectContext(ctx, &events,
			columns+` WHERE event_time >= ? AND event_time <= ? AND completed = 0 ORDER BY event_time`,
			model.FormatEventTime(start), model.FormatEventTime(end),
		)
	case model.FilterUpcoming:
		err = db.SelectContext(ctx, &events,
			columns+` WHERE event_time > ? AND completed = 0 ORDER BY event_time`,
			model.FormatEventTime(now),
		)
	case model.FilterCompleted:
		err = db.SelectContext(ctx, &events, columns+` WHERE completed = 1 ORDER BY updated_at DESC`)
	case model.FilterAll, "":
		err = db.SelectContext(ctx, &events, columns+` ORDER BY event_time`)
	default:
		return nil, fmt.Errorf("unknown event filter %q", filter)
	}

	return events, err
}

// Reschedule changes the timing of an event. Pending queue entries are
// replaced, entries that already fired are kept.
func (db *eventService) Reschedule(ctx context.Context, id string, eventTime time.Time, remindAt *time.Time, remindOnTime bool) error {
	if !db.Ready() {
		return model.ErrStoreNotReady
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const query = `UPDATE events SET event_time = ?, remind_at = ?, remind_on_time = ?, updated_at = ? WHERE id = ?`
	res, err := tx.ExecContext(ctx, query,
		model.FormatEventTime(eventTime),
		remindAtValue(remindAt),
		remindOnTime,
		model.FormatEventTime(db.now()),
		id,
	)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err != nil {
		return err
	} else if affected == 0 {
		return model.ErrNotFound
	}

	const deleteQuery = `DELETE FROM reminder_queue WHERE event_id = ? AND fired = 0`
	if _, err := tx.ExecContext(ctx, deleteQuery, id); err != nil {
		return err
	}

	if err := insertReminders(ctx, tx, id, eventTime, remindAt, remindOnTime); err != nil {
		return err
	}

	return tx.Commit()
}

// SetCompleted marks an event as done or not done. Reminders of completed
// events are never due.
func (db *eventService) SetCompleted(ctx context.Context, id string, completed bool) error {
	if !db.Ready() {
		return model.ErrStoreNotReady
	}

	const query = `UPDATE events SET completed = ?, updated_at = ? WHERE id = ?`
	res, err := db.ExecContext(ctx, query, completed, model.FormatEventTime(db.now()), id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (db *eventService) Delete(ctx context.Context, id string) error {
	if !db.Ready() {
		return model.ErrStoreNotReady
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const queueQuery = `DELETE FROM reminder_queue WHERE event_id = ?`
	if _, err := tx.ExecContext(ctx, queueQuery, id); err != nil {
		return err
	}

	const query = `DELETE FROM events WHERE id = ?`
	res, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err != nil {
		return err
	} else if affected == 0 {
		return model.ErrNotFound
	}

	return tx.Commit()
}

func insertReminders(ctx context.Context, tx *sqlx.Tx, eventID string, eventTime time.Time, remindAt *time.Time, remindOnTime bool) error {
	const query = `INSERT INTO reminder_queue (event_id, fire_at, fired, type) VALUES (?, ?, 0, ?)`

	if remindOnTime {
		_, err := tx.ExecContext(ctx, query, eventID, model.FormatTimestamp(eventTime), model.ReminderOnTime)
		if err != nil {
			return fmt.Errorf("insert %s reminder: %w", model.ReminderOnTime, err)
		}
	}

	if remindAt != nil {
		_, err := tx.ExecContext(ctx, query, eventID, model.FormatTimestamp(*remindAt), model.ReminderAdvance)
		if err != nil {
			return fmt.Errorf("insert %s reminder: %w", model.ReminderAdvance, err)
		}
	}

	return nil
}

func remindAtValue(remindAt *time.Time) sql.NullString {
	if remindAt == nil {
		return sql.NullString{}
	}
	return NewNullString(model.FormatEventTime(*remindAt))
}
