package services_test

import (
	"github.com/google/uuid"
	"github.com/makotocarlos/backend-inspecciones-gas/models"
	"github.com/makotocarlos/backend-inspecciones-gas/services"
	"github.com/makotocarlos/backend-inspecciones-gas/testutil"
)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func actor(role models.Role) models.Actor {
	return models.Actor{ID: uuid.NewString(), Role: role}
}

// fixture wires the services against a fresh in-memory store.
type fixture struct {
	store        *testutil.MemStore
	appointments *services.AppointmentService
	reschedule   *services.RescheduleService
	tasks        *services.CallTaskService
	calendar     *services.CalendarService
}

func newFixture() *fixture {
	store := testutil.NewMemStore()
	conflict := services.NewConflictChecker(store)
	reschedule := services.NewRescheduleService(store, conflict, services.NoopNotifier{})
	return &fixture{
		store:        store,
		appointments: services.NewAppointmentService(store, conflict, reschedule, services.NoopNotifier{}),
		reschedule:   reschedule,
		tasks:        services.NewCallTaskService(store),
		calendar:     services.NewCalendarService(store),
	}
}

func (f *fixture) seedInspector(first, last string) *models.User {
	return f.store.AddUser(models.User{
		ID:        uuid.NewString(),
		Username:  first + "." + last,
		FirstName: first,
		LastName:  last,
		Role:      models.RoleInspector,
		IsActive:  true,
	})
}

func (f *fixture) seedAgent(first, last string) *models.User {
	return f.store.AddUser(models.User{
		ID:        uuid.NewString(),
		Username:  first + "." + last,
		FirstName: first,
		LastName:  last,
		Role:      models.RoleCallCenter,
		IsActive:  true,
	})
}

func (f *fixture) seedClient(u models.User) *models.User {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Role = models.RoleUser
	u.IsActive = true
	return f.store.AddUser(u)
}

// seedAppointment inserts a booking directly, bypassing the service layer.
func (f *fixture) seedAppointment(a models.Appointment) *models.Appointment {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = models.StatusPending
	}
	if a.City == "" {
		a.City = "Montería"
	}
	if err := f.store.InsertAppointment(&a); err != nil {
		panic(err)
	}
	return &a
}

func createRequest(inspectorID *string, date, timeOfDay string) models.CreateAppointmentRequest {
	return models.CreateAppointmentRequest{
		ClientName:    "Laura Pérez",
		ClientPhone:   "3001234567",
		Address:       "Calle 44 #10-23",
		ScheduledDate: date,
		ScheduledTime: timeOfDay,
		InspectorID:   inspectorID,
	}
}
