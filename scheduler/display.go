package scheduler

import (
	"strings"
	"time"

	"github.com/Brawl345/desklist/model"
)

// DisplayTime turns a stored event time into "YYYY-MM-DD HH:MM" in loc.
// The stored value is read as UTC, with or without a trailing "Z" and
// fractional seconds. Unparseable values are shortened to their first 16
// characters with the "T" separator replaced, or returned as-is when shorter.
func DisplayTime(raw string, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}

	// Fractional seconds are accepted by time.Parse even though the layout has none.
	t, err := time.ParseInLocation(model.TimestampLayout, strings.TrimSuffix(raw, "Z"), time.UTC)
	if err == nil {
		return t.In(loc).Format(model.DisplayLayout)
	}

	runes := []rune(raw)
	if len(runes) < len(model.DisplayLayout) {
		return raw
	}
	return strings.Replace(string(runes[:len(model.DisplayLayout)]), "T", " ", 1)
}
