package services

import (
	"encoding/json"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/makotocarlos/backend-inspecciones-gas/models"
	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"
)

// SupabaseStore implements Store over PostgREST. The double-booking
// invariant is ultimately guarded by a partial unique index on
// (inspector_id, scheduled_date, scheduled_time) filtered to active
// statuses; duplicate-key responses come back as ErrConflict so the
// check-then-insert race can never commit twice.
//
// User-directory reads are cached in a small LRU: inspector and creator
// names are resolved on every appointment serialization and the directory
// changes rarely. Appointment data is never cached.
type SupabaseStore struct {
	client *supa.Client
	users  *lru.Cache[string, models.User]
}

func NewSupabaseStore(client *supa.Client, userCacheSize int) (*SupabaseStore, error) {
	cache, err := lru.New[string, models.User](userCacheSize)
	if err != nil {
		return nil, err
	}
	return &SupabaseStore{client: client, users: cache}, nil
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "23505")
}

// escapeLikePattern neutralizes the LIKE wildcards so a directory lookup
// matches the literal value, never a pattern. Without it an email like
// first_last@x.com would also match firstXlast@x.com.
func escapeLikePattern(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func statusStrings(statuses []models.AppointmentStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func (s *SupabaseStore) InsertAppointment(a *models.Appointment) error {
	data := map[string]interface{}{
		"id":             a.ID,
		"client_name":    a.ClientName,
		"client_phone":   a.ClientPhone,
		"client_email":   a.ClientEmail,
		"client_dni":     a.ClientDNI,
		"user_id":        a.UserID,
		"address":        a.Address,
		"neighborhood":   a.Neighborhood,
		"city":           a.City,
		"scheduled_date": a.ScheduledDate,
		"scheduled_time": a.ScheduledTime,
		"inspector_id":   a.InspectorID,
		"created_by":     a.CreatedBy,
		"status":         string(a.Status),
		"notes":          a.Notes,
	}

	_, _, err := s.client.From("appointments").
		Insert(data, false, "", "", "").
		Execute()
	if isDuplicateKey(err) {
		return ErrConflict
	}
	return err
}

func (s *SupabaseStore) UpdateAppointment(id string, fields map[string]interface{}) (*models.Appointment, error) {
	data, _, err := s.client.From("appointments").
		Update(fields, "", "").
		Eq("id", id).
		Execute()
	if isDuplicateKey(err) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}

	var appointments []models.Appointment
	if err := json.Unmarshal(data, &appointments); err != nil {
		return nil, err
	}
	if len(appointments) == 0 {
		return nil, ErrNotFound
	}
	return &appointments[0], nil
}

func (s *SupabaseStore) GetAppointment(id string) (*models.Appointment, error) {
	data, _, err := s.client.From("appointments").
		Select("*", "", false).
		Eq("id", id).
		Execute()
	if err != nil {
		return nil, err
	}

	var appointments []models.Appointment
	if err := json.Unmarshal(data, &appointments); err != nil {
		return nil, err
	}
	if len(appointments) == 0 {
		return nil, ErrNotFound
	}
	return &appointments[0], nil
}

func (s *SupabaseStore) ListAppointments(f AppointmentFilter) ([]models.Appointment, error) {
	query := s.client.From("appointments").
		Select("*", "", false).
		Order("scheduled_date", &postgrest.OrderOpts{Ascending: false}).
		Order("scheduled_time", &postgrest.OrderOpts{Ascending: false})

	if f.InspectorID != "" {
		query = query.Eq("inspector_id", f.InspectorID)
	}
	if f.UserID != "" {
		query = query.Eq("user_id", f.UserID)
	}
	if f.Status != "" {
		query = query.Eq("status", string(f.Status))
	}
	if f.DateFrom != "" {
		query = query.Gte("scheduled_date", f.DateFrom)
	}
	if f.DateTo != "" {
		query = query.Lte("scheduled_date", f.DateTo)
	}

	data, _, err := query.Execute()
	if err != nil {
		return nil, err
	}

	var appointments []models.Appointment
	if err := json.Unmarshal(data, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

func (s *SupabaseStore) ListAppointmentsAtSlot(inspectorID, date, timeOfDay string, statuses []models.AppointmentStatus) ([]models.Appointment, error) {
	query := s.client.From("appointments").
		Select("*", "", false).
		Eq("scheduled_date", date).
		Eq("scheduled_time", timeOfDay).
		In("status", statusStrings(statuses))

	if inspectorID != "" {
		query = query.Eq("inspector_id", inspectorID)
	}

	data, _, err := query.Execute()
	if err != nil {
		return nil, err
	}

	var appointments []models.Appointment
	if err := json.Unmarshal(data, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

func (s *SupabaseStore) ListAppointmentsForMonth(inspectorID string, year, month int) ([]models.Appointment, error) {
	from := fmt.Sprintf("%04d-%02d-01", year, month)
	nextYear, nextMonth := year, month+1
	if nextMonth > 12 {
		nextYear, nextMonth = year+1, 1
	}
	to := fmt.Sprintf("%04d-%02d-01", nextYear, nextMonth)

	data, _, err := s.client.From("appointments").
		Select("*", "", false).
		Eq("inspector_id", inspectorID).
		Gte("scheduled_date", from).
		Lt("scheduled_date", to).
		Order("scheduled_time", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, err
	}

	var appointments []models.Appointment
	if err := json.Unmarshal(data, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

func (s *SupabaseStore) GetUser(id string) (*models.User, error) {
	if cached, ok := s.users.Get(id); ok {
		user := cached
		return &user, nil
	}

	user, err := s.getUserBy("id", id)
	if err != nil {
		return nil, err
	}
	s.users.Add(id, *user)
	return user, nil
}

func (s *SupabaseStore) GetUserByDNI(dni string) (*models.User, error) {
	return s.getUserBy("dni", dni)
}

func (s *SupabaseStore) GetUserByEmail(email string) (*models.User, error) {
	data, _, err := s.client.From("users").
		Select("*", "", false).
		Ilike("email", escapeLikePattern(email)).
		Execute()
	if err != nil {
		return nil, err
	}
	return decodeSingleUser(data)
}

func (s *SupabaseStore) GetUserByUsername(username string) (*models.User, error) {
	return s.getUserBy("username", username)
}

func (s *SupabaseStore) getUserBy(column, value string) (*models.User, error) {
	data, _, err := s.client.From("users").
		Select("*", "", false).
		Eq(column, value).
		Execute()
	if err != nil {
		return nil, err
	}
	return decodeSingleUser(data)
}

func decodeSingleUser(data []byte) (*models.User, error) {
	var users []models.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrNotFound
	}
	return &users[0], nil
}

func (s *SupabaseStore) InsertUser(u *models.User) error {
	data := map[string]interface{}{
		"id":                   u.ID,
		"username":             u.Username,
		"email":                u.Email,
		"first_name":           u.FirstName,
		"last_name":            u.LastName,
		"dni":                  u.DNI,
		"phone_number":         u.Phone,
		"address":              u.Address,
		"role":                 string(u.Role),
		"is_active":            u.IsActive,
		"last_inspection_date": u.LastInspectionDate,
	}
	_, _, err := s.client.From("users").
		Insert(data, false, "", "", "").
		Execute()
	return err
}

func (s *SupabaseStore) UpdateUser(id string, fields map[string]interface{}) error {
	_, _, err := s.client.From("users").
		Update(fields, "", "").
		Eq("id", id).
		Execute()
	if err == nil {
		s.users.Remove(id)
	}
	return err
}

func (s *SupabaseStore) ListUsersByRole(role models.Role, activeOnly bool) ([]models.User, error) {
	query := s.client.From("users").
		Select("*", "", false).
		Eq("role", string(role)).
		Order("first_name", &postgrest.OrderOpts{Ascending: true})

	if activeOnly {
		query = query.Eq("is_active", "true")
	}

	data, _, err := query.Execute()
	if err != nil {
		return nil, err
	}

	var users []models.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *SupabaseStore) ListClients() ([]models.User, error) {
	return s.ListUsersByRole(models.RoleUser, true)
}

func (s *SupabaseStore) InsertCallTask(t *models.CallTask) error {
	data := map[string]interface{}{
		"id":                       t.ID,
		"task_type":                string(t.TaskType),
		"source_appointment_id":    t.SourceAppointmentID,
		"resulting_appointment_id": t.ResultingAppointmentID,
		"client_name":              t.ClientName,
		"client_phone":             t.ClientPhone,
		"client_email":             t.ClientEmail,
		"client_dni":               t.ClientDNI,
		"client_address":           t.ClientAddress,
		"last_inspection_date":     t.LastInspectionDate,
		"next_inspection_due":      t.NextInspectionDue,
		"days_until_due":           t.DaysUntilDue,
		"assigned_by":              t.AssignedBy,
		"assigned_to":              t.AssignedTo,
		"status":                   string(t.Status),
		"priority":                 string(t.Priority),
		"call_attempts":            t.CallAttempts,
		"notes":                    t.Notes,
	}
	_, _, err := s.client.From("call_tasks").
		Insert(data, false, "", "", "").
		Execute()
	return err
}

func (s *SupabaseStore) UpdateCallTask(id string, fields map[string]interface{}) (*models.CallTask, error) {
	data, _, err := s.client.From("call_tasks").
		Update(fields, "", "").
		Eq("id", id).
		Execute()
	if err != nil {
		return nil, err
	}

	var tasks []models.CallTask
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, ErrNotFound
	}
	return &tasks[0], nil
}

func (s *SupabaseStore) GetCallTask(id string) (*models.CallTask, error) {
	data, _, err := s.client.From("call_tasks").
		Select("*", "", false).
		Eq("id", id).
		Execute()
	if err != nil {
		return nil, err
	}

	var tasks []models.CallTask
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, ErrNotFound
	}
	return &tasks[0], nil
}

func (s *SupabaseStore) ListCallTasks(f CallTaskFilter) ([]models.CallTask, error) {
	query := s.client.From("call_tasks").
		Select("*", "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: false})

	if f.AssignedTo != "" {
		query = query.Eq("assigned_to", f.AssignedTo)
	}
	if f.Status != "" {
		query = query.Eq("status", string(f.Status))
	}
	if f.TaskType != "" {
		query = query.Eq("task_type", string(f.TaskType))
	}
	if f.SourceAppointmentID != "" {
		query = query.Eq("source_appointment_id", f.SourceAppointmentID)
	}

	data, _, err := query.Execute()
	if err != nil {
		return nil, err
	}

	var tasks []models.CallTask
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *SupabaseStore) DeleteCallTask(id string) error {
	_, _, err := s.client.From("call_tasks").
		Delete("", "").
		Eq("id", id).
		Execute()
	return err
}

func (s *SupabaseStore) GetInspection(id string) (*models.InspectionSummary, error) {
	data, _, err := s.client.From("inspections").
		Select("id, status, completion_percentage", "", false).
		Eq("id", id).
		Execute()
	if err != nil {
		return nil, err
	}

	var inspections []models.InspectionSummary
	if err := json.Unmarshal(data, &inspections); err != nil {
		return nil, err
	}
	if len(inspections) == 0 {
		return nil, ErrNotFound
	}
	return &inspections[0], nil
}
