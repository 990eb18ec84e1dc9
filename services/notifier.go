package services

import "github.com/makotocarlos/backend-inspecciones-gas/models"

// Appointment lifecycle events consumed by the notification system.
const (
	EventAppointmentCreated     = "appointment.created"
	EventAppointmentCancelled   = "appointment.cancelled"
	EventNeedsReschedule        = "appointment.needs_reschedule"
	EventAppointmentRescheduled = "appointment.rescheduled"
)

// Notifier hands appointment lifecycle events to the notification system.
// Delivery is best-effort: implementations log failures and never propagate
// them into the primary operation.
type Notifier interface {
	AppointmentEvent(event string, a *models.Appointment)
}

// NoopNotifier is used when the message broker is disabled.
type NoopNotifier struct{}

func (NoopNotifier) AppointmentEvent(event string, a *models.Appointment) {}
