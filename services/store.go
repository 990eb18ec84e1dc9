package services

import "github.com/makotocarlos/backend-inspecciones-gas/models"

// AppointmentFilter narrows appointment listings. Zero values mean "no
// filter" for that field.
type AppointmentFilter struct {
	InspectorID string
	UserID      string
	Status      models.AppointmentStatus
	DateFrom    string
	DateTo      string
}

// CallTaskFilter narrows call-task listings.
type CallTaskFilter struct {
	AssignedTo          string
	Status              models.CallTaskStatus
	TaskType            models.CallTaskType
	SourceAppointmentID string
}

// Store is the persistence boundary of the scheduling core. The production
// implementation talks to Supabase over PostgREST; tests run against an
// in-memory implementation. Get methods return ErrNotFound when the ID does
// not resolve, and appointment writes return ErrConflict when they would
// violate the one-active-appointment-per-inspector-slot invariant.
type Store interface {
	InsertAppointment(a *models.Appointment) error
	UpdateAppointment(id string, fields map[string]interface{}) (*models.Appointment, error)
	GetAppointment(id string) (*models.Appointment, error)
	ListAppointments(f AppointmentFilter) ([]models.Appointment, error)
	// ListAppointmentsAtSlot returns appointments at the exact (date, time)
	// slot with a status in the given set. An empty inspectorID matches any
	// inspector (used by the availability query).
	ListAppointmentsAtSlot(inspectorID, date, timeOfDay string, statuses []models.AppointmentStatus) ([]models.Appointment, error)
	ListAppointmentsForMonth(inspectorID string, year, month int) ([]models.Appointment, error)

	GetUser(id string) (*models.User, error)
	GetUserByDNI(dni string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	InsertUser(u *models.User) error
	UpdateUser(id string, fields map[string]interface{}) error
	ListUsersByRole(role models.Role, activeOnly bool) ([]models.User, error)
	// ListClients returns active directory records with role USER.
	ListClients() ([]models.User, error)

	InsertCallTask(t *models.CallTask) error
	UpdateCallTask(id string, fields map[string]interface{}) (*models.CallTask, error)
	GetCallTask(id string) (*models.CallTask, error)
	ListCallTasks(f CallTaskFilter) ([]models.CallTask, error)
	DeleteCallTask(id string) error

	GetInspection(id string) (*models.InspectionSummary, error)
}
