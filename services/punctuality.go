package services

import (
	"time"

	"github.com/makotocarlos/backend-inspecciones-gas/models"
)

const (
	PunctualityNotStarted = "NOT_STARTED"
	PunctualityEarly      = "EARLY"
	PunctualityOnTime     = "ON_TIME"
	PunctualityLate       = "LATE"
)

// Punctuality derives timeliness and duration metrics from the scheduled
// slot and the actual execution timestamps. It is computed on every read and
// never persisted, so it can't go stale.
func Punctuality(a *models.Appointment) models.PunctualityInfo {
	info := models.PunctualityInfo{PunctualityStatus: PunctualityNotStarted}

	if a.ActualStartTime != nil {
		scheduled, err := combineSchedule(a.ScheduledDate, a.ScheduledTime)
		if err == nil {
			minutes := int(a.ActualStartTime.Sub(scheduled).Minutes())
			info.PunctualityMinutes = &minutes
			switch {
			case minutes <= -5:
				info.PunctualityStatus = PunctualityEarly
			case minutes <= 10:
				info.PunctualityStatus = PunctualityOnTime
			default:
				info.PunctualityStatus = PunctualityLate
			}
		}
	}

	if a.ActualStartTime != nil && a.ActualEndTime != nil {
		duration := int(a.ActualEndTime.Sub(*a.ActualStartTime).Minutes())
		info.DurationMinutes = &duration
	}

	return info
}

// IsPastDue reports whether the scheduled slot has already passed.
func IsPastDue(a *models.Appointment, now time.Time) bool {
	scheduled, err := combineSchedule(a.ScheduledDate, a.ScheduledTime)
	if err != nil {
		return false
	}
	return now.After(scheduled)
}
