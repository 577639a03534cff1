package sql

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Brawl345/desklist/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEvent(t *testing.T, db *DB, id, title, eventTime string, completed bool) {
	t.Helper()
	const query = `INSERT INTO events (id, title, description, event_time, completed, remind_on_time, created_at, updated_at)
	VALUES (?, ?, '', ?, ?, 1, '2024-01-01T00:00:00.000Z', '2024-01-01T00:00:00.000Z')`
	_, err := db.Exec(query, id, title, eventTime, completed)
	require.NoError(t, err)
}

func seedEntry(t *testing.T, db *DB, eventID, fireAt string, fired bool) int64 {
	t.Helper()
	const query = `INSERT INTO reminder_queue (event_id, fire_at, type, fired) VALUES (?, ?, 'on_time', ?)`
	res, err := db.Exec(query, eventID, fireAt, fired)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func dueIDs(reminders []model.DueReminder) []int64 {
	ids := make([]int64, 0, len(reminders))
	for _, r := range reminders {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestDueReminders(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	service := NewReminderService(db)

	seedEvent(t, db, "e1", "Standup", "2024-01-15T09:00:00Z", false)
	seedEvent(t, db, "e2", "Done already", "2024-01-15T09:00:00Z", true)

	due := seedEntry(t, db, "e1", "2024-01-15T08:59:00", false)
	exact := seedEntry(t, db, "e1", "2024-01-15T09:00:00", false)
	seedEntry(t, db, "e1", "2024-01-15T09:00:01", false) // future
	seedEntry(t, db, "e2", "2024-01-15T08:00:00", false) // completed event
	seedEntry(t, db, "e1", "2024-01-15T08:00:00", true)  // already fired

	reminders, err := service.DueReminders(ctx, "2024-01-15T09:00:00")
	require.NoError(t, err)
	assert.Equal(t, []int64{due, exact}, dueIDs(reminders))
	assert.Equal(t, model.DueReminder{
		ID:         due,
		EventID:    "e1",
		FireAt:     "2024-01-15T08:59:00",
		Type:       model.ReminderOnTime,
		EventTitle: "Standup",
		EventTime:  "2024-01-15T09:00:00Z",
	}, reminders[0])
}

func TestDueReminders_ReadOnly(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	service := NewReminderService(db)

	seedEvent(t, db, "e1", "Standup", "2024-01-15T09:00:00Z", false)
	seedEntry(t, db, "e1", "2024-01-15T08:59:00", false)

	for i := 0; i < 2; i++ {
		reminders, err := service.DueReminders(ctx, "2024-01-15T09:00:00")
		require.NoError(t, err)
		assert.Len(t, reminders, 1)
	}
}

func TestMarkFired(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	service := NewReminderService(db)

	seedEvent(t, db, "e1", "Standup", "2024-01-15T09:00:00Z", false)
	id := seedEntry(t, db, "e1", "2024-01-15T08:59:00", false)

	require.NoError(t, service.MarkFired(ctx, id))

	reminders, err := service.DueReminders(ctx, "2024-01-15T09:00:00")
	require.NoError(t, err)
	assert.Empty(t, reminders)

	// Flipping twice is harmless and never reverts.
	require.NoError(t, service.MarkFired(ctx, id))
	entries, err := service.RemindersForEvent(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Fired)

	assert.ErrorIs(t, service.MarkFired(ctx, 999), model.ErrNotFound)
}

func TestReminderService_NotReady(t *testing.T) {
	ctx := context.Background()
	db, err := Open("sqlite:" + filepath.Join(t.TempDir(), "desklist.db"))
	require.NoError(t, err)
	defer db.Close()
	service := NewReminderService(db)

	assert.False(t, service.Ready())

	reminders, err := service.DueReminders(ctx, "2024-01-15T09:00:00")
	assert.NoError(t, err)
	assert.Empty(t, reminders)

	assert.ErrorIs(t, service.MarkFired(ctx, 1), model.ErrStoreNotReady)

	_, err = service.RemindersForEvent(ctx, "e1")
	assert.ErrorIs(t, err, model.ErrStoreNotReady)
}

func TestReminderService_NilDB(t *testing.T) {
	service := NewReminderService(nil)
	assert.False(t, service.Ready())

	reminders, err := service.DueReminders(context.Background(), "2024-01-15T09:00:00")
	assert.NoError(t, err)
	assert.Empty(t, reminders)
}
