package sql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Brawl345/desklist/logger"
	"github.com/Brawl345/desklist/model"
	"github.com/rs/zerolog"
)

type reminderService struct {
	*DB
	log zerolog.Logger
}

func NewReminderService(db *DB) *reminderService {
	return &reminderService{
		DB:  db,
		log: logger.New("reminderService"),
	}
}

func (db *reminderService) Ready() bool {
	return db.DB.Ready()
}

// DueReminders returns every unfired queue entry with fire_at <= now whose
// event is not completed, ordered by entry id. now must be formatted with
// model.TimestampLayout. A store that is not ready yields no reminders.
func (db *reminderService) DueReminders(ctx context.Context, now string) ([]model.DueReminder, error) {
	if !db.Ready() {
		db.log.Debug().Msg("Store not ready, skipping due check")
		return nil, nil
	}

	const query = `SELECT rq.id, rq.event_id, rq.fire_at, rq.type, e.title, e.event_time
	FROM reminder_queue rq
	JOIN events e ON rq.event_id = e.id
	WHERE rq.fired = 0
	  AND rq.fire_at <= ?
	  AND e.completed = 0
	ORDER BY rq.id`

	var reminders []model.DueReminder
	err := db.SelectContext(ctx, &reminders, query, now)
	return reminders, err
}

func (db *reminderService) MarkFired(ctx context.Context, id int64) error {
	if !db.Ready() {
		return model.ErrStoreNotReady
	}

	const query = `UPDATE reminder_queue SET fired = 1 WHERE id = ? AND fired = 0`
	res, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	var exists bool
	const existsQuery = `SELECT 1 FROM reminder_queue WHERE id = ?`
	err = db.GetContext(ctx, &exists, existsQuery, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrNotFound
		}
		return err
	}

	// Already fired, nothing to flip.
	return nil
}

func (db *reminderService) RemindersForEvent(ctx context.Context, eventID string) ([]model.ReminderQueueEntry, error) {
	if !db.Ready() {
		return nil, model.ErrStoreNotReady
	}

	const query = `SELECT id, event_id, fire_at, type, fired FROM reminder_queue WHERE event_id = ? ORDER BY id`
	var entries []model.ReminderQueueEntry
	err := db.SelectContext(ctx, &entries, query, eventID)
	return entries, err
}
