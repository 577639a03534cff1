package notify

import (
	"context"
	"errors"

	"github.com/Brawl345/desklist/model"
	"github.com/godbus/dbus/v5"
)

const (
	notificationsDest   = "org.freedesktop.Notifications"
	notificationsPath   = dbus.ObjectPath("/org/freedesktop/Notifications")
	notificationsMethod = notificationsDest + ".Notify"

	// defaultExpiry lets the notification server pick the timeout.
	defaultExpiry int32 = -1
	urgencyNormal byte  = 1
)

type DBus struct {
	conn    *dbus.Conn
	appName string
	icon    string
}

func NewDBus(appName string) (*DBus, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}
	return &DBus{
		conn:    conn,
		appName: appName,
		icon:    "appointment-soon",
	}, nil
}

func (d *DBus) Show(ctx context.Context, n model.Notification) error {
	if d.conn == nil {
		return errors.New("dbus connection closed")
	}

	obj := d.conn.Object(notificationsDest, notificationsPath)
	call := obj.CallWithContext(ctx, notificationsMethod, 0,
		d.appName,
		uint32(0), // replaces_id, 0 means a new notification
		d.icon,
		n.Title,
		n.Body,
		[]string{},
		hints(n),
		defaultExpiry,
	)
	if call.Err != nil {
		return call.Err
	}

	var id uint32
	if err := call.Store(&id); err == nil {
		log.Debug().
			Uint32("notification_id", id).
			Str("title", n.Title).
			Msg("Notification shown")
	}
	return nil
}

func (d *DBus) Close() error {
	if d.conn == nil {
		return nil
	}
	err := d.conn.Close()
	d.conn = nil
	return err
}

func hints(n model.Notification) map[string]dbus.Variant {
	h := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(urgencyNormal),
		"desktop-entry": dbus.MakeVariant("desklist"),
	}
	if n.Sound != "" {
		h["sound-name"] = dbus.MakeVariant(n.Sound)
	} else {
		h["suppress-sound"] = dbus.MakeVariant(true)
	}
	return h
}
