// Package testutil provides an in-memory Store implementation for tests.
// It enforces the same slot-uniqueness invariant the database constraint
// guarantees in production.
package testutil

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/makotocarlos/backend-inspecciones-gas/models"
	"github.com/makotocarlos/backend-inspecciones-gas/services"
)

type MemStore struct {
	mu           sync.Mutex
	Appointments map[string]*models.Appointment
	Users        map[string]*models.User
	CallTasks    map[string]*models.CallTask
	Inspections  map[string]*models.InspectionSummary
}

func NewMemStore() *MemStore {
	return &MemStore{
		Appointments: make(map[string]*models.Appointment),
		Users:        make(map[string]*models.User),
		CallTasks:    make(map[string]*models.CallTask),
		Inspections:  make(map[string]*models.InspectionSummary),
	}
}

// AddUser seeds a directory record and returns it.
func (m *MemStore) AddUser(u models.User) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	user := u
	m.Users[u.ID] = &user
	return &user
}

func (m *MemStore) slotTaken(candidate *models.Appointment) bool {
	if candidate.InspectorID == nil || !candidate.Status.Active() {
		return false
	}
	for _, a := range m.Appointments {
		if a.ID == candidate.ID {
			continue
		}
		if a.InspectorID == nil || !a.Status.Active() {
			continue
		}
		if *a.InspectorID == *candidate.InspectorID &&
			a.ScheduledDate == candidate.ScheduledDate &&
			a.ScheduledTime == candidate.ScheduledTime {
			return true
		}
	}
	return false
}

func (m *MemStore) InsertAppointment(a *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slotTaken(a) {
		return services.ErrConflict
	}
	stored := *a
	m.Appointments[a.ID] = &stored
	return nil
}

func (m *MemStore) UpdateAppointment(id string, fields map[string]interface{}) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.Appointments[id]
	if !ok {
		return nil, services.ErrNotFound
	}

	updated := *current
	for key, value := range fields {
		applyAppointmentField(&updated, key, value)
	}
	updated.UpdatedAt = time.Now()

	if m.slotTaken(&updated) {
		return nil, services.ErrConflict
	}

	m.Appointments[id] = &updated
	result := updated
	return &result, nil
}

func applyAppointmentField(a *models.Appointment, key string, value interface{}) {
	switch key {
	case "status":
		a.Status = models.AppointmentStatus(value.(string))
	case "cancellation_reason":
		s := value.(string)
		a.CancellationReason = &s
	case "scheduled_date":
		a.ScheduledDate = value.(string)
	case "scheduled_time":
		a.ScheduledTime = value.(string)
	case "inspector_id":
		if value == nil {
			a.InspectorID = nil
		} else {
			s := value.(string)
			a.InspectorID = &s
		}
	case "notes":
		s := value.(string)
		a.Notes = &s
	case "client_name":
		a.ClientName = value.(string)
	case "client_phone":
		a.ClientPhone = value.(string)
	case "client_email":
		s := value.(string)
		a.ClientEmail = &s
	case "client_dni":
		s := value.(string)
		a.ClientDNI = &s
	case "address":
		a.Address = value.(string)
	case "neighborhood":
		s := value.(string)
		a.Neighborhood = &s
	case "city":
		a.City = value.(string)
	case "actual_start_time":
		t := value.(time.Time)
		a.ActualStartTime = &t
	case "actual_end_time":
		t := value.(time.Time)
		a.ActualEndTime = &t
	case "inspection_id":
		s := value.(string)
		a.InspectionID = &s
	}
}

func (m *MemStore) GetAppointment(id string) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Appointments[id]
	if !ok {
		return nil, services.ErrNotFound
	}
	result := *a
	return &result, nil
}

func (m *MemStore) ListAppointments(f services.AppointmentFilter) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Appointment
	for _, a := range m.Appointments {
		if f.InspectorID != "" && (a.InspectorID == nil || *a.InspectorID != f.InspectorID) {
			continue
		}
		if f.UserID != "" && (a.UserID == nil || *a.UserID != f.UserID) {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.DateFrom != "" && a.ScheduledDate < f.DateFrom {
			continue
		}
		if f.DateTo != "" && a.ScheduledDate > f.DateTo {
			continue
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ScheduledDate != out[j].ScheduledDate {
			return out[i].ScheduledDate > out[j].ScheduledDate
		}
		return out[i].ScheduledTime > out[j].ScheduledTime
	})
	return out, nil
}

func (m *MemStore) ListAppointmentsAtSlot(inspectorID, date, timeOfDay string, statuses []models.AppointmentStatus) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	statusSet := make(map[models.AppointmentStatus]bool, len(statuses))
	for _, s := range statuses {
		statusSet[s] = true
	}

	var out []models.Appointment
	for _, a := range m.Appointments {
		if a.ScheduledDate != date || a.ScheduledTime != timeOfDay {
			continue
		}
		if !statusSet[a.Status] {
			continue
		}
		if inspectorID != "" && (a.InspectorID == nil || *a.InspectorID != inspectorID) {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (m *MemStore) ListAppointmentsForMonth(inspectorID string, year, month int) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prefix := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
	var out []models.Appointment
	for _, a := range m.Appointments {
		if a.InspectorID == nil || *a.InspectorID != inspectorID {
			continue
		}
		if !strings.HasPrefix(a.ScheduledDate, prefix) {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (m *MemStore) GetUser(id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[id]
	if !ok {
		return nil, services.ErrNotFound
	}
	result := *u
	return &result, nil
}

func (m *MemStore) GetUserByDNI(dni string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if u.DNI != nil && *u.DNI == dni {
			result := *u
			return &result, nil
		}
	}
	return nil, services.ErrNotFound
}

func (m *MemStore) GetUserByEmail(email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if u.Email != nil && strings.EqualFold(*u.Email, email) {
			result := *u
			return &result, nil
		}
	}
	return nil, services.ErrNotFound
}

func (m *MemStore) GetUserByUsername(username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if u.Username == username {
			result := *u
			return &result, nil
		}
	}
	return nil, services.ErrNotFound
}

func (m *MemStore) InsertUser(u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *u
	m.Users[u.ID] = &stored
	return nil
}

func (m *MemStore) UpdateUser(id string, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.Users[id]
	if !ok {
		return services.ErrNotFound
	}
	for key, value := range fields {
		s, _ := value.(string)
		switch key {
		case "email":
			u.Email = &s
		case "dni":
			u.DNI = &s
		case "phone_number":
			u.Phone = &s
		case "address":
			u.Address = &s
		case "last_inspection_date":
			u.LastInspectionDate = &s
		case "next_inspection_due":
			u.NextInspectionDue = &s
		}
	}
	return nil
}

func (m *MemStore) ListUsersByRole(role models.Role, activeOnly bool) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.User
	for _, u := range m.Users {
		if u.Role != role {
			continue
		}
		if activeOnly && !u.IsActive {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FirstName < out[j].FirstName })
	return out, nil
}

func (m *MemStore) ListClients() ([]models.User, error) {
	return m.ListUsersByRole(models.RoleUser, true)
}

func (m *MemStore) InsertCallTask(t *models.CallTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *t
	m.CallTasks[t.ID] = &stored
	return nil
}

func (m *MemStore) UpdateCallTask(id string, fields map[string]interface{}) (*models.CallTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.CallTasks[id]
	if !ok {
		return nil, services.ErrNotFound
	}

	updated := *current
	for key, value := range fields {
		switch key {
		case "status":
			updated.Status = models.CallTaskStatus(value.(string))
		case "priority":
			updated.Priority = models.CallTaskPriority(value.(string))
		case "notes":
			s := value.(string)
			updated.Notes = &s
		case "assigned_to":
			if value == nil {
				updated.AssignedTo = nil
			} else {
				s := value.(string)
				updated.AssignedTo = &s
			}
		case "resulting_appointment_id":
			s := value.(string)
			updated.ResultingAppointmentID = &s
		case "last_call_date":
			t := value.(time.Time)
			updated.LastCallDate = &t
		case "call_attempts":
			updated.CallAttempts = value.(int)
		}
	}
	updated.UpdatedAt = time.Now()

	m.CallTasks[id] = &updated
	result := updated
	return &result, nil
}

func (m *MemStore) GetCallTask(id string) (*models.CallTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.CallTasks[id]
	if !ok {
		return nil, services.ErrNotFound
	}
	result := *t
	return &result, nil
}

func (m *MemStore) ListCallTasks(f services.CallTaskFilter) ([]models.CallTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.CallTask
	for _, t := range m.CallTasks {
		if f.AssignedTo != "" && (t.AssignedTo == nil || *t.AssignedTo != f.AssignedTo) {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.TaskType != "" && t.TaskType != f.TaskType {
			continue
		}
		if f.SourceAppointmentID != "" && (t.SourceAppointmentID == nil || *t.SourceAppointmentID != f.SourceAppointmentID) {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemStore) DeleteCallTask(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.CallTasks[id]; !ok {
		return services.ErrNotFound
	}
	delete(m.CallTasks, id)
	return nil
}

func (m *MemStore) GetInspection(id string) (*models.InspectionSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ins, ok := m.Inspections[id]
	if !ok {
		return nil, services.ErrNotFound
	}
	result := *ins
	return &result, nil
}
