package models

import "time"

type AppointmentStatus string

const (
	StatusPending         AppointmentStatus = "PENDING"
	StatusConfirmed       AppointmentStatus = "CONFIRMED"
	StatusInProgress      AppointmentStatus = "IN_PROGRESS"
	StatusCompleted       AppointmentStatus = "COMPLETED"
	StatusCancelled       AppointmentStatus = "CANCELLED"
	StatusRescheduled     AppointmentStatus = "RESCHEDULED"
	StatusNeedsReschedule AppointmentStatus = "NEEDS_RESCHEDULE"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted,
		StatusCancelled, StatusRescheduled, StatusNeedsReschedule:
		return true
	}
	return false
}

// Terminal statuses are sinks: no further transitions are accepted, so a
// cancelled appointment can never slip back into the conflict-checked set.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ActiveStatuses are the statuses that hold an inspector's slot. A
// RESCHEDULED appointment always carries a committed date/time, so it
// counts the same as CONFIRMED.
var ActiveStatuses = []AppointmentStatus{
	StatusPending, StatusConfirmed, StatusInProgress, StatusRescheduled,
}

func (s AppointmentStatus) Active() bool {
	for _, a := range ActiveStatuses {
		if s == a {
			return true
		}
	}
	return false
}

// Appointment is a scheduled gas-inspection field visit. Records are never
// deleted; cancellation is a status transition.
type Appointment struct {
	ID string `json:"id" db:"id"`

	ClientName  string  `json:"client_name" db:"client_name"`
	ClientPhone string  `json:"client_phone" db:"client_phone"`
	ClientEmail *string `json:"client_email,omitempty" db:"client_email"`
	ClientDNI   *string `json:"client_dni,omitempty" db:"client_dni"`

	// Resolved client identity, best-effort: booking never requires it.
	UserID *string `json:"user,omitempty" db:"user_id"`

	Address      string  `json:"address" db:"address"`
	Neighborhood *string `json:"neighborhood,omitempty" db:"neighborhood"`
	City         string  `json:"city" db:"city"`

	ScheduledDate string `json:"scheduled_date" db:"scheduled_date"`
	ScheduledTime string `json:"scheduled_time" db:"scheduled_time"`

	ActualStartTime *time.Time `json:"actual_start_time,omitempty" db:"actual_start_time"`
	ActualEndTime   *time.Time `json:"actual_end_time,omitempty" db:"actual_end_time"`

	InspectorID *string `json:"inspector,omitempty" db:"inspector_id"`
	CreatedBy   *string `json:"created_by,omitempty" db:"created_by"`

	Status AppointmentStatus `json:"status" db:"status"`

	Notes              *string `json:"notes,omitempty" db:"notes"`
	CancellationReason *string `json:"cancellation_reason,omitempty" db:"cancellation_reason"`

	InspectionID *string `json:"inspection,omitempty" db:"inspection_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PunctualityInfo is derived on every read, never stored.
type PunctualityInfo struct {
	PunctualityMinutes *int   `json:"punctuality_minutes"`
	PunctualityStatus  string `json:"punctuality_status"`
	DurationMinutes    *int   `json:"duration_minutes"`
}

type AppointmentWithDetails struct {
	Appointment
	InspectorName *string            `json:"inspector_name"`
	CreatedByName *string            `json:"created_by_name"`
	Punctuality   PunctualityInfo    `json:"punctuality"`
	IsPastDue     bool               `json:"is_past_due"`
	Inspection    *InspectionSummary `json:"inspection_summary,omitempty"`
	Task          *CallTask          `json:"reschedule_task,omitempty"`
}

type CreateAppointmentRequest struct {
	ClientName         string  `json:"client_name" binding:"required"`
	ClientPhone        string  `json:"client_phone" binding:"required"`
	ClientEmail        *string `json:"client_email,omitempty"`
	ClientDNI          *string `json:"client_dni,omitempty"`
	Address            string  `json:"address" binding:"required"`
	Neighborhood       *string `json:"neighborhood,omitempty"`
	City               *string `json:"city,omitempty"`
	ScheduledDate      string  `json:"scheduled_date" binding:"required"`
	ScheduledTime      string  `json:"scheduled_time" binding:"required"`
	InspectorID        *string `json:"inspector,omitempty"`
	Notes              *string `json:"notes,omitempty"`
	LastInspectionDate *string `json:"last_inspection_date,omitempty"`
}

type UpdateAppointmentRequest struct {
	ClientName    *string `json:"client_name,omitempty"`
	ClientPhone   *string `json:"client_phone,omitempty"`
	ClientEmail   *string `json:"client_email,omitempty"`
	ClientDNI     *string `json:"client_dni,omitempty"`
	Address       *string `json:"address,omitempty"`
	Neighborhood  *string `json:"neighborhood,omitempty"`
	City          *string `json:"city,omitempty"`
	ScheduledDate *string `json:"scheduled_date,omitempty"`
	ScheduledTime *string `json:"scheduled_time,omitempty"`
	InspectorID   *string `json:"inspector,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

type UpdateStatusRequest struct {
	Status string  `json:"status" binding:"required"`
	Reason *string `json:"reason,omitempty"`
}

type CancelAppointmentRequest struct {
	Reason *string `json:"reason,omitempty"`
}

type RescheduleRequest struct {
	ScheduledDate string  `json:"scheduled_date" binding:"required"`
	ScheduledTime string  `json:"scheduled_time" binding:"required"`
	InspectorID   *string `json:"inspector,omitempty"`
}

// InspectionSummary is the read-only view of the linked inspection record.
// Inspections are authored by the inspection module, never by this backend.
type InspectionSummary struct {
	ID                   string  `json:"id" db:"id"`
	Status               string  `json:"status" db:"status"`
	CompletionPercentage float64 `json:"completion_percentage" db:"completion_percentage"`
}
