// Package notify shows reminder notifications on the desktop.
package notify

import (
	"context"

	"github.com/Brawl345/desklist/logger"
	"github.com/Brawl345/desklist/model"
)

var log = logger.New("notify")

type Notifier interface {
	Show(ctx context.Context, n model.Notification) error
	Close() error
}

// New connects to the freedesktop notification server on the session bus.
// Without a session bus, notifications are written to the log instead.
func New(appName string) Notifier {
	n, err := NewDBus(appName)
	if err != nil {
		log.Warn().
			Err(err).
			Msg("Desktop notifications unavailable, falling back to log output")
		return NewLog()
	}
	return n
}
