package models

import "time"

type CallTaskType string

const (
	TaskTypeInspectionCall CallTaskType = "INSPECTION_CALL"
	TaskTypeReschedule     CallTaskType = "RESCHEDULE"
)

func (t CallTaskType) Valid() bool {
	return t == TaskTypeInspectionCall || t == TaskTypeReschedule
}

type CallTaskStatus string

const (
	TaskStatusPending              CallTaskStatus = "PENDING"
	TaskStatusInProgress           CallTaskStatus = "IN_PROGRESS"
	TaskStatusCompleted            CallTaskStatus = "COMPLETED"
	TaskStatusAppointmentScheduled CallTaskStatus = "APPOINTMENT_SCHEDULED"
	TaskStatusClientRefused        CallTaskStatus = "CLIENT_REFUSED"
	TaskStatusNoAnswer             CallTaskStatus = "NO_ANSWER"
)

func (s CallTaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted,
		TaskStatusAppointmentScheduled, TaskStatusClientRefused, TaskStatusNoAnswer:
		return true
	}
	return false
}

func (s CallTaskStatus) Terminal() bool {
	switch s {
	case TaskStatusCompleted, TaskStatusAppointmentScheduled, TaskStatusClientRefused:
		return true
	}
	return false
}

type CallTaskPriority string

const (
	PriorityLow    CallTaskPriority = "LOW"
	PriorityMedium CallTaskPriority = "MEDIUM"
	PriorityHigh   CallTaskPriority = "HIGH"
	PriorityUrgent CallTaskPriority = "URGENT"
)

func (p CallTaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Rank orders priorities for sorting, most urgent first.
func (p CallTaskPriority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	default:
		return 3
	}
}

// CallTask is an outreach assignment for a call-center agent. Client contact
// fields are a snapshot taken at creation, so the task stays actionable even
// if the directory record changes afterwards.
type CallTask struct {
	ID       string       `json:"id" db:"id"`
	TaskType CallTaskType `json:"task_type" db:"task_type"`

	SourceAppointmentID    *string `json:"source_appointment,omitempty" db:"source_appointment_id"`
	ResultingAppointmentID *string `json:"resulting_appointment,omitempty" db:"resulting_appointment_id"`

	ClientName    string  `json:"client_name" db:"client_name"`
	ClientPhone   string  `json:"client_phone" db:"client_phone"`
	ClientEmail   *string `json:"client_email,omitempty" db:"client_email"`
	ClientDNI     *string `json:"client_dni,omitempty" db:"client_dni"`
	ClientAddress *string `json:"client_address,omitempty" db:"client_address"`

	LastInspectionDate *string `json:"last_inspection_date,omitempty" db:"last_inspection_date"`
	NextInspectionDue  *string `json:"next_inspection_due,omitempty" db:"next_inspection_due"`
	DaysUntilDue       *int    `json:"days_until_due,omitempty" db:"days_until_due"`

	AssignedBy *string `json:"assigned_by,omitempty" db:"assigned_by"`
	AssignedTo *string `json:"assigned_to,omitempty" db:"assigned_to"`

	Status   CallTaskStatus   `json:"status" db:"status"`
	Priority CallTaskPriority `json:"priority" db:"priority"`

	CallAttempts int        `json:"call_attempts" db:"call_attempts"`
	LastCallDate *time.Time `json:"last_call_date,omitempty" db:"last_call_date"`
	Notes        *string    `json:"notes,omitempty" db:"notes"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type CreateCallTaskRequest struct {
	TaskType           string  `json:"task_type" binding:"required"`
	ClientName         string  `json:"client_name" binding:"required"`
	ClientPhone        string  `json:"client_phone" binding:"required"`
	ClientEmail        *string `json:"client_email,omitempty"`
	ClientDNI          *string `json:"client_dni,omitempty"`
	ClientAddress      *string `json:"client_address,omitempty"`
	LastInspectionDate *string `json:"last_inspection_date,omitempty"`
	NextInspectionDue  *string `json:"next_inspection_due,omitempty"`
	DaysUntilDue       *int    `json:"days_until_due,omitempty"`
	AssignedTo         *string `json:"assigned_to,omitempty"`
	Priority           *string `json:"priority,omitempty"`
	Notes              *string `json:"notes,omitempty"`
}

type UpdateCallTaskRequest struct {
	Status                 *string `json:"status,omitempty"`
	Notes                  *string `json:"notes,omitempty"`
	ResultingAppointmentID *string `json:"resulting_appointment,omitempty"`
	AssignedTo             *string `json:"assigned_to,omitempty"`
	Priority               *string `json:"priority,omitempty"`
	CallAttempts           *int    `json:"call_attempts,omitempty"`
}

// ClientNeedingInspection is one row of the outreach scan.
type ClientNeedingInspection struct {
	UserID             string           `json:"user_id"`
	Name               string           `json:"name"`
	Phone              string           `json:"phone"`
	Email              *string          `json:"email,omitempty"`
	DNI                *string          `json:"dni,omitempty"`
	Address            *string          `json:"address,omitempty"`
	LastInspectionDate *string          `json:"last_inspection_date,omitempty"`
	NextInspectionDue  *string          `json:"next_inspection_due,omitempty"`
	DaysUntilDue       *int             `json:"days_until_due,omitempty"`
	Priority           CallTaskPriority `json:"priority"`
	Reason             string           `json:"reason"`
}
