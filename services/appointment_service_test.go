package services_test

import (
	"errors"
	"testing"

	"github.com/makotocarlos/backend-inspecciones-gas/models"
	"github.com/makotocarlos/backend-inspecciones-gas/services"
)

func TestCreateAppointment(t *testing.T) {
	t.Parallel()

	f := newFixture()
	inspector := f.seedInspector("Pedro", "Gómez")
	admin := actor(models.RoleAdmin)

	detail, clientLinked, err := f.appointments.Create(admin, createRequest(&inspector.ID, "2026-09-10", "10:00"))
	if err != nil {
		t.Fatalf("Create error = %v", err)
	}
	if detail.Status != models.StatusPending {
		t.Errorf("status = %s, want PENDING", detail.Status)
	}
	if detail.City != "Montería" {
		t.Errorf("city = %q, want default Montería", detail.City)
	}
	if clientLinked {
		t.Error("clientLinked = true without DNI or email, want false")
	}
	if detail.InspectorName == nil || *detail.InspectorName != "Pedro Gómez" {
		t.Errorf("inspector name = %v, want Pedro Gómez", detail.InspectorName)
	}
}

func TestCreateNormalizesTime(t *testing.T) {
	t.Parallel()

	f := newFixture()
	admin := actor(models.RoleAdmin)

	detail, _, err := f.appointments.Create(admin, createRequest(nil, "2026-09-10", "10:00:00"))
	if err != nil {
		t.Fatalf("Create error = %v", err)
	}
	if detail.ScheduledTime != "10:00" {
		t.Errorf("scheduled_time = %q, want normalized 10:00", detail.ScheduledTime)
	}
}

func TestCreateLinksClientByDNI(t *testing.T) {
	t.Parallel()

	f := newFixture()
	admin := actor(models.RoleAdmin)

	req := createRequest(nil, "2026-09-10", "10:00")
	req.ClientDNI = strPtr("1067845123")

	detail, clientLinked, err := f.appointments.Create(admin, req)
	if err != nil {
		t.Fatalf("Create error = %v", err)
	}
	if !clientLinked {
		t.Fatal("clientLinked = false with DNI, want true")
	}
	if detail.UserID == nil {
		t.Fatal("user link = nil, want provisioned client")
	}
	client, err := f.store.GetUser(*detail.UserID)
	if err != nil {
		t.Fatalf("provisioned client lookup error = %v", err)
	}
	if client.Role != models.RoleUser {
		t.Errorf("provisioned role = %s, want USER", client.Role)
	}
}

func TestCreateDoubleBookingRejected(t *testing.T) {
	t.Parallel()

	f := newFixture()
	inspector := f.seedInspector("Pedro", "Gómez")
	admin := actor(models.RoleAdmin)

	if _, _, err := f.appointments.Create(admin, createRequest(&inspector.ID, "2026-09-10", "10:00")); err != nil {
		t.Fatalf("first Create error = %v", err)
	}

	_, _, err := f.appointments.Create(admin, createRequest(&inspector.ID, "2026-09-10", "10:00"))
	if !errors.Is(err, services.ErrConflict) {
		t.Fatalf("second Create error = %v, want ErrConflict", err)
	}

	// Same slot with seconds appended must still collide.
	_, _, err = f.appointments.Create(admin, createRequest(&inspector.ID, "2026-09-10", "10:00:00"))
	if !errors.Is(err, services.ErrConflict) {
		t.Fatalf("Create with seconds error = %v, want ErrConflict", err)
	}

	// A different inspector is free to take the slot.
	other := f.seedInspector("Ana", "Ruiz")
	if _, _, err := f.appointments.Create(admin, createRequest(&other.ID, "2026-09-10", "10:00")); err != nil {
		t.Errorf("Create for other inspector error = %v", err)
	}
}

func TestCancelledSlotReusable(t *testing.T) {
	t.Parallel()

	f := newFixture()
	inspector := f.seedInspector("Pedro", "Gómez")
	admin := actor(models.RoleAdmin)

	first, _, err := f.appointments.Create(admin, createRequest(&inspector.ID, "2026-09-10", "10:00"))
	if err != nil {
		t.Fatalf("Create error = %v", err)
	}
	if _, err := f.appointments.Cancel(admin, first.ID, nil); err != nil {
		t.Fatalf("Cancel error = %v", err)
	}

	if _, _, err := f.appointments.Create(admin, createRequest(&inspector.ID, "2026-09-10", "10:00")); err != nil {
		t.Errorf("Create on freed slot error = %v", err)
	}
}

func TestCancelDefaultsReasonAndKeepsData(t *testing.T) {
	t.Parallel()

	f := newFixture()
	admin := actor(models.RoleAdmin)

	created, _, err := f.appointments.Create(admin, createRequest(nil, "2026-09-10", "10:00"))
	if err != nil {
		t.Fatalf("Create error = %v", err)
	}

	cancelled, err := f.appointments.Cancel(admin, created.ID, nil)
	if err != nil {
		t.Fatalf("Cancel error = %v", err)
	}
	if cancelled.Status != models.StatusCancelled {
		t.Errorf("status = %s, want CANCELLED", cancelled.Status)
	}
	if cancelled.CancellationReason == nil || *cancelled.CancellationReason != "Sin razón especificada" {
		t.Errorf("cancellation reason = %v, want default placeholder", cancelled.CancellationReason)
	}
	if cancelled.ClientName != created.ClientName || cancelled.ScheduledDate != created.ScheduledDate {
		t.Error("cancellation mutated fields beyond status and reason")
	}
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	t.Parallel()

	f := newFixture()
	admin := actor(models.RoleAdmin)

	created, _, err := f.appointments.Create(admin, createRequest(nil, "2026-09-10", "10:00"))
	if err != nil {
		t.Fatalf("Create error = %v", err)
	}

	if _, err := f.appointments.UpdateStatus(admin, created.ID, "APROBADA", nil); !services.IsValidation(err) {
		t.Fatalf("UpdateStatus(unknown) error = %v, want validation error", err)
	}

	stored, err := f.store.GetAppointment(created.ID)
	if err != nil {
		t.Fatalf("GetAppointment error = %v", err)
	}
	if stored.Status != models.StatusPending {
		t.Errorf("stored status = %s after rejected transition, want PENDING", stored.Status)
	}
}

func TestUpdateStatusTerminalIsSink(t *testing.T) {
	t.Parallel()

	f := newFixture()
	admin := actor(models.RoleAdmin)

	created, _, err := f.appointments.Create(admin, createRequest(nil, "2026-09-10", "10:00"))
	if err != nil {
		t.Fatalf("Create error = %v", err)
	}
	if _, err := f.appointments.Cancel(admin, created.ID, strPtr("cliente viajó")); err != nil {
		t.Fatalf("Cancel error = %v", err)
	}

	if _, err := f.appointments.UpdateStatus(admin, created.ID, string(models.StatusConfirmed), nil); !services.IsValidation(err) {
		t.Fatalf("UpdateStatus on cancelled error = %v, want validation error", err)
	}
}

func TestUpdateStatusRescheduledNeedsWorkflow(t *testing.T) {
	t.Parallel()

	f := newFixture()
	admin := actor(models.RoleAdmin)

	created, _, err := f.appointments.Create(admin, createRequest(nil, "2026-09-10", "10:00"))
	if err != nil {
		t.Fatalf("Create error = %v", err)
	}

	if _, err := f.appointments.UpdateStatus(admin, created.ID, string(models.StatusRescheduled), nil); !services.IsValidation(err) {
		t.Fatalf("UpdateStatus(RESCHEDULED) error = %v, want validation error", err)
	}
}

func TestUpdateStatusStampsExecutionTimes(t *testing.T) {
	t.Parallel()

	f := newFixture()
	inspector := f.seedInspector("Pedro", "Gómez")
	admin := actor(models.RoleAdmin)

	created, _, err := f.appointments.Create(admin, createRequest(&inspector.ID, "2026-09-10", "10:00"))
	if err != nil {
		t.Fatalf("Create error = %v", err)
	}

	started, err := f.appointments.UpdateStatus(admin, created.ID, string(models.StatusInProgress), nil)
	if err != nil {
		t.Fatalf("UpdateStatus(IN_PROGRESS) error = %v", err)
	}
	if started.ActualStartTime == nil {
		t.Fatal("actual_start_time = nil after IN_PROGRESS, want timestamp")
	}

	completed, err := f.appointments.UpdateStatus(admin, created.ID, string(models.StatusCompleted), nil)
	if err != nil {
		t.Fatalf("UpdateStatus(COMPLETED) error = %v", err)
	}
	if completed.ActualEndTime == nil {
		t.Fatal("actual_end_time = nil after COMPLETED, want timestamp")
	}
}

func TestUpdateStatusInspectorOwnership(t *testing.T) {
	t.Parallel()

	f := newFixture()
	inspector := f.seedInspector("Pedro", "Gómez")
	admin := actor(models.RoleAdmin)

	created, _, err := f.appointments.Create(admin, createRequest(&inspector.ID, "2026-09-10", "10:00"))
	if err != nil {
		t.Fatalf("Create error = %v", err)
	}

	stranger := models.Actor{ID: "otro-inspector", Role: models.RoleInspector}
	if _, err := f.appointments.UpdateStatus(stranger, created.ID, string(models.StatusConfirmed), nil); !errors.Is(err, services.ErrPermissionDenied) {
		t.Fatalf("UpdateStatus by other inspector error = %v, want ErrPermissionDenied", err)
	}

	owner := models.Actor{ID: inspector.ID, Role: models.RoleInspector}
	if _, err := f.appointments.UpdateStatus(owner, created.ID, string(models.StatusConfirmed), nil); err != nil {
		t.Errorf("UpdateStatus by assigned inspector error = %v", err)
	}
}

func TestUpdateStatusReactivationConflict(t *testing.T) {
	t.Parallel()

	f := newFixture()
	inspector := f.seedInspector("Pedro", "Gómez")
	admin := actor(models.RoleAdmin)

	first, _, err := f.appointments.Create(admin, createRequest(&inspector.ID, "2026-09-10", "10:00"))
	if err != nil {
		t.Fatalf("Create error = %v", err)
	}

	// NEEDS_RESCHEDULE releases the slot and another booking takes it.
	if _, _, err := f.reschedule.MarkNeedsReschedule(admin, first.ID, "cliente ausente"); err != nil {
		t.Fatalf("MarkNeedsReschedule error = %v", err)
	}
	if _, _, err := f.appointments.Create(admin, createRequest(&inspector.ID, "2026-09-10", "10:00")); err != nil {
		t.Fatalf("Create on freed slot error = %v", err)
	}

	// Reactivating the first booking onto the now-taken slot must fail.
	if _, err := f.appointments.UpdateStatus(admin, first.ID, string(models.StatusConfirmed), nil); !errors.Is(err, services.ErrConflict) {
		t.Fatalf("UpdateStatus reactivation error = %v, want ErrConflict", err)
	}

	stored, err := f.store.GetAppointment(first.ID)
	if err != nil {
		t.Fatalf("GetAppointment error = %v", err)
	}
	if stored.Status != models.StatusNeedsReschedule {
		t.Errorf("status after rejected reactivation = %s, want NEEDS_RESCHEDULE", stored.Status)
	}
}

func TestUpdateReRunsConflictCheck(t *testing.T) {
	t.Parallel()

	f := newFixture()
	inspector := f.seedInspector("Pedro", "Gómez")
	admin := actor(models.RoleAdmin)

	if _, _, err := f.appointments.Create(admin, createRequest(&inspector.ID, "2026-09-10", "10:00")); err != nil {
		t.Fatalf("Create error = %v", err)
	}
	second, _, err := f.appointments.Create(admin, createRequest(&inspector.ID, "2026-09-10", "14:00"))
	if err != nil {
		t.Fatalf("Create error = %v", err)
	}

	// Moving the second booking onto the occupied slot must fail.
	_, err = f.appointments.Update(admin, second.ID, models.UpdateAppointmentRequest{
		ScheduledTime: strPtr("10:00"),
	})
	if !errors.Is(err, services.ErrConflict) {
		t.Fatalf("Update onto occupied slot error = %v, want ErrConflict", err)
	}

	// Re-saving its own slot excludes itself from the check.
	if _, err := f.appointments.Update(admin, second.ID, models.UpdateAppointmentRequest{
		ScheduledTime: strPtr("14:00"),
	}); err != nil {
		t.Errorf("Update keeping own slot error = %v", err)
	}
}

func TestListVisibilityByRole(t *testing.T) {
	t.Parallel()

	f := newFixture()
	inspector := f.seedInspector("Pedro", "Gómez")
	client := f.seedClient(models.User{Username: "laura", FirstName: "Laura", LastName: "Pérez"})

	f.seedAppointment(models.Appointment{
		ClientName: "Laura Pérez", ClientPhone: "3001234567",
		Address: "Calle 44", ScheduledDate: "2026-09-10", ScheduledTime: "10:00",
		InspectorID: &inspector.ID, UserID: &client.ID,
	})
	f.seedAppointment(models.Appointment{
		ClientName: "Jorge Díaz", ClientPhone: "3017654321",
		Address: "Carrera 5", ScheduledDate: "2026-09-11", ScheduledTime: "11:00",
	})

	all, err := f.appointments.List(actor(models.RoleAdmin), services.AppointmentFilter{})
	if err != nil {
		t.Fatalf("List as admin error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("admin sees %d appointments, want 2", len(all))
	}

	own, err := f.appointments.List(models.Actor{ID: inspector.ID, Role: models.RoleInspector}, services.AppointmentFilter{})
	if err != nil {
		t.Fatalf("List as inspector error = %v", err)
	}
	if len(own) != 1 {
		t.Fatalf("inspector sees %d appointments, want 1", len(own))
	}
	if own[0].InspectorID == nil || *own[0].InspectorID != inspector.ID {
		t.Error("inspector listing contains a foreign assignment")
	}

	mine, err := f.appointments.List(models.Actor{ID: client.ID, Role: models.RoleUser}, services.AppointmentFilter{})
	if err != nil {
		t.Fatalf("List as client error = %v", err)
	}
	if len(mine) != 1 {
		t.Errorf("client sees %d appointments, want 1", len(mine))
	}
}

func TestAvailableInspectors(t *testing.T) {
	t.Parallel()

	f := newFixture()
	busy := f.seedInspector("Pedro", "Gómez")
	free := f.seedInspector("Ana", "Ruiz")
	admin := actor(models.RoleAdmin)

	if _, _, err := f.appointments.Create(admin, createRequest(&busy.ID, "2026-09-10", "10:00")); err != nil {
		t.Fatalf("Create error = %v", err)
	}

	available, err := f.appointments.AvailableInspectors("2026-09-10", "10:00")
	if err != nil {
		t.Fatalf("AvailableInspectors error = %v", err)
	}
	if len(available) != 1 {
		t.Fatalf("available = %d inspectors, want 1", len(available))
	}
	if available[0].ID != free.ID {
		t.Errorf("available inspector = %s, want %s", available[0].ID, free.ID)
	}

	// Both free at another slot.
	available, err = f.appointments.AvailableInspectors("2026-09-10", "15:00")
	if err != nil {
		t.Fatalf("AvailableInspectors error = %v", err)
	}
	if len(available) != 2 {
		t.Errorf("available = %d inspectors at free slot, want 2", len(available))
	}
}

func TestCreateRequiresCallCenterRole(t *testing.T) {
	t.Parallel()

	f := newFixture()

	_, _, err := f.appointments.Create(actor(models.RoleInspector), createRequest(nil, "2026-09-10", "10:00"))
	if !errors.Is(err, services.ErrPermissionDenied) {
		t.Fatalf("Create as inspector error = %v, want ErrPermissionDenied", err)
	}
}

func TestCreateUnknownInspectorRejected(t *testing.T) {
	t.Parallel()

	f := newFixture()
	admin := actor(models.RoleAdmin)

	_, _, err := f.appointments.Create(admin, createRequest(strPtr("no-existe"), "2026-09-10", "10:00"))
	if !services.IsValidation(err) {
		t.Fatalf("Create with unknown inspector error = %v, want validation error", err)
	}
}
