package format

import (
	"errors"
	"testing"
	"time"

	"vilma/internal/models"
)

func mustTime(t *testing.T, value string) models.EventTime {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", value, err)
	}
	return models.EventTime{Time: parsed}
}

func TestHourMinute(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"2024-05-14T19:00:00+02:00", "19:00"},
		{"2024-05-14T08:05:30+02:00", "08:05"},
		{"2024-12-31T23:59:00Z", "23:59"},
	}
	for _, tt := range tests {
		got, err := HourMinute(mustTime(t, tt.value))
		if err != nil {
			t.Fatalf("HourMinute(%s): unexpected error: %v", tt.value, err)
		}
		if got != tt.want {
			t.Errorf("HourMinute(%s) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestHourMinuteDateOnly(t *testing.T) {
	allDay := models.EventTime{Time: time.Date(2024, 5, 14, 0, 0, 0, 0, time.UTC), DateOnly: true}
	if _, err := HourMinute(allDay); !errors.Is(err, ErrDateOnly) {
		t.Errorf("HourMinute(all-day) error = %v, want ErrDateOnly", err)
	}
}

func TestDisplayDate(t *testing.T) {
	if got := DisplayDate(mustTime(t, "2024-05-14T19:00:00+02:00")); got != "2024-05-14" {
		t.Errorf("DisplayDate = %q, want 2024-05-14", got)
	}
}

func TestWeekdayName(t *testing.T) {
	// 2024-05-14 is a Tuesday.
	tuesday := mustTime(t, "2024-05-14T19:00:00+02:00")
	tests := []struct {
		locale string
		want   string
	}{
		{"en", "Tuesday"},
		{"hu", "kedd"},
		{"xx", "Tuesday"}, // unknown locale falls back to English
	}
	for _, tt := range tests {
		if got := WeekdayName(tuesday, tt.locale); got != tt.want {
			t.Errorf("WeekdayName(%s) = %q, want %q", tt.locale, got, tt.want)
		}
	}
}

func TestFileStamp(t *testing.T) {
	timed := mustTime(t, "2024-05-14T19:00:00+02:00")
	if got := FileStamp(timed); got != "2024-05-14T19:00:00+02:00" {
		t.Errorf("FileStamp = %q, want 2024-05-14T19:00:00+02:00", got)
	}

	allDay := models.EventTime{Time: time.Date(2024, 5, 14, 0, 0, 0, 0, time.UTC), DateOnly: true}
	if got := FileStamp(allDay); got != "2024-05-14" {
		t.Errorf("FileStamp(all-day) = %q, want 2024-05-14", got)
	}
}
