package services

import "github.com/makotocarlos/backend-inspecciones-gas/models"

// PriorityForDays derives a call-task priority from the signed number of
// days until the next inspection is due. Negative means overdue.
func PriorityForDays(daysUntilDue int) models.CallTaskPriority {
	switch {
	case daysUntilDue < 0:
		return models.PriorityUrgent
	case daysUntilDue <= 30:
		return models.PriorityHigh
	case daysUntilDue <= 90:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}
