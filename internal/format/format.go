// Package format produces the display strings mail templates and the attendee
// log need from event timestamps.
package format

import (
	"errors"
	"time"

	"vilma/internal/models"
)

// ErrDateOnly is returned when a clock-time string is requested for an
// all-day event value.
var ErrDateOnly = errors.New("timestamp has no time component")

// weekdayNames maps a locale to its long weekday names, indexed by
// time.Weekday (Sunday first).
var weekdayNames = map[string][7]string{
	"en": {"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	"hu": {"vasárnap", "hétfő", "kedd", "szerda", "csütörtök", "péntek", "szombat"},
}

// HourMinute returns the local HH:MM of the given event time.
func HourMinute(t models.EventTime) (string, error) {
	if t.DateOnly {
		return "", ErrDateOnly
	}
	return t.Time.Format("15:04"), nil
}

// DisplayDate returns the local calendar date as YYYY-MM-DD.
func DisplayDate(t models.EventTime) string {
	return t.Time.Format("2006-01-02")
}

// WeekdayName returns the long weekday name in the given locale.
// Unknown locales fall back to English.
func WeekdayName(t models.EventTime, locale string) string {
	names, ok := weekdayNames[locale]
	if !ok {
		names = weekdayNames["en"]
	}
	return names[t.Time.Weekday()]
}

// FileStamp returns the start-time value used to key per-event files in the
// attendee log.
func FileStamp(t models.EventTime) string {
	if t.DateOnly {
		return t.Time.Format("2006-01-02")
	}
	return t.Time.Format(time.RFC3339)
}
