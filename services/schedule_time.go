package services

import (
	"fmt"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

func parseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha inválida %q: se espera YYYY-MM-DD", s)
	}
	return d, nil
}

// parseTimeOfDay accepts HH:MM and HH:MM:SS.
func parseTimeOfDay(s string) (time.Time, error) {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("hora inválida %q: se espera HH:MM", s)
	}
	return t, nil
}

// normalizeTimeOfDay canonicalizes a time string to HH:MM so that slot
// equality never depends on whether the caller sent seconds.
func normalizeTimeOfDay(s string) (string, error) {
	t, err := parseTimeOfDay(s)
	if err != nil {
		return "", err
	}
	return t.Format(timeLayout), nil
}

// combineSchedule builds the full scheduled timestamp from the slot key.
func combineSchedule(date, timeOfDay string) (time.Time, error) {
	d, err := parseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	t, err := parseTimeOfDay(timeOfDay)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.Local), nil
}
