package notify

import (
	"context"

	"github.com/Brawl345/desklist/model"
	"github.com/rs/zerolog"
)

// Log writes notifications to the log. It never fails.
type Log struct {
	log zerolog.Logger
}

func NewLog() *Log {
	return &Log{log: log}
}

func (l *Log) Show(_ context.Context, n model.Notification) error {
	l.log.Info().
		Str("title", n.Title).
		Str("body", n.Body).
		Msg("Reminder")
	return nil
}

func (l *Log) Close() error {
	return nil
}
