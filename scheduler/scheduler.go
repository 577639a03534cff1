// Package scheduler delivers due reminders. A single goroutine polls the
// store on a fixed interval, shows a notification for every due reminder
// and marks it as fired. Ticks never overlap and a failing tick never stops
// the loop.
package scheduler

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Brawl345/desklist/logger"
	"github.com/Brawl345/desklist/model"
	"github.com/benbjohnson/clock"
	"github.com/rs/xid"
	"golang.org/x/exp/slices"
)

const DefaultInterval = 30 * time.Second

var log = logger.New("scheduler")

type (
	Store interface {
		Ready() bool
		DueReminders(ctx context.Context, now string) ([]model.DueReminder, error)
		MarkFired(ctx context.Context, id int64) error
	}

	Notifier interface {
		Show(ctx context.Context, n model.Notification) error
	}

	Option func(*Scheduler)

	Scheduler struct {
		store    Store
		notifier Notifier
		clock    clock.Clock
		interval time.Duration
		location *time.Location
		sound    string
	}

	// Delivery is the outcome of showing the notification for one reminder.
	Delivery struct {
		ReminderID int64
		Err        error
	}

	// Result summarises one tick.
	Result struct {
		Due    int
		Fired  int
		Failed []Delivery
	}
)

func WithClock(c clock.Clock) Option {
	return func(s *Scheduler) {
		s.clock = c
	}
}

func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithLocation sets the zone used for notification display text.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		if loc != nil {
			s.location = loc
		}
	}
}

func WithSound(sound string) Option {
	return func(s *Scheduler) {
		s.sound = sound
	}
}

// New creates a scheduler. A nil store is treated as not ready: ticks do
// nothing until a store is available.
func New(store Store, notifier Notifier, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:    store,
		notifier: notifier,
		clock:    clock.New(),
		interval: DefaultInterval,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Start runs the polling loop in a background goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	go s.Run(ctx)
}

// Run sleeps for the interval, checks reminders and repeats until ctx is
// cancelled. The next sleep only starts once the previous tick is done.
func (s *Scheduler) Run(ctx context.Context) {
	log.Info().
		Dur("interval", s.interval).
		Str("location", s.location.String()).
		Msg("Reminder scheduler started")

	for {
		timer := s.clock.Timer(s.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Info().Msg("Reminder scheduler stopped")
			return
		case <-timer.C:
		}

		s.tick(ctx)
	}
}

// tick runs one check and keeps every failure, panics included, inside it.
func (s *Scheduler) tick(ctx context.Context) {
	tickID := xid.New().String()
	tickLog := log.With().Str("tick", tickID).Logger()

	defer func() {
		if r := recover(); r != nil {
			tickLog.Error().
				Interface("panic", r).
				Msg("Reminder check panicked")
		}
	}()

	res, err := s.CheckReminders(ctx)
	if err != nil {
		tickLog.Err(err).
			Int("due", res.Due).
			Int("fired", res.Fired).
			Msg("Reminder check failed")
		return
	}

	if res.Due > 0 {
		tickLog.Info().
			Int("due", res.Due).
			Int("fired", res.Fired).
			Int("notification_failures", len(res.Failed)).
			Msg("Reminders delivered")
	}
}

// CheckReminders performs one tick: it fetches the due reminders, shows a
// notification for each and marks it as fired. Notification failures are
// reported in Result.Failed and do not stop the reminder from being marked.
// A failure to mark a reminder aborts the tick; reminders handled before it
// stay fired.
func (s *Scheduler) CheckReminders(ctx context.Context) (Result, error) {
	var res Result

	if s.store == nil || !s.store.Ready() {
		return res, nil
	}

	now := model.FormatTimestamp(s.clock.Now())
	reminders, err := s.store.DueReminders(ctx, now)
	if err != nil {
		return res, fmt.Errorf("query due reminders: %w", err)
	}

	slices.SortStableFunc(reminders, func(a, b model.DueReminder) int {
		return cmp.Compare(a.ID, b.ID)
	})
	res.Due = len(reminders)

	for _, reminder := range reminders {
		// The delivery result is inspected for logging only; the reminder
		// counts as handled even if the notification could not be shown.
		if delivery := s.deliver(ctx, reminder); delivery.Err != nil {
			log.Warn().
				Err(delivery.Err).
				Int64("id", reminder.ID).
				Str("event_id", reminder.EventID).
				Msg("Failed to show notification")
			res.Failed = append(res.Failed, delivery)
		}

		if err := s.store.MarkFired(ctx, reminder.ID); err != nil {
			return res, fmt.Errorf("mark reminder %d as fired: %w", reminder.ID, err)
		}
		res.Fired++

		log.Debug().
			Int64("id", reminder.ID).
			Str("event_id", reminder.EventID).
			Str("type", string(reminder.Type)).
			Str("fire_at", reminder.FireAt).
			Msg("Reminder fired")
	}

	return res, nil
}

func (s *Scheduler) deliver(ctx context.Context, reminder model.DueReminder) Delivery {
	if s.notifier == nil {
		return Delivery{ReminderID: reminder.ID, Err: errors.New("no notifier configured")}
	}
	return Delivery{
		ReminderID: reminder.ID,
		Err:        s.notifier.Show(ctx, s.Notification(reminder)),
	}
}

// Notification builds the notification shown for reminder.
func (s *Scheduler) Notification(reminder model.DueReminder) model.Notification {
	return model.Notification{
		Title: reminder.EventTitle,
		Body:  "Scheduled: " + DisplayTime(reminder.EventTime, s.location),
		Sound: s.sound,
	}
}
