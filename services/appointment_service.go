package services

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/makotocarlos/backend-inspecciones-gas/models"
)

const defaultCity = "Montería"

const defaultCancellationReason = "Sin razón especificada"

// AppointmentService owns the appointment lifecycle: booking with conflict
// prevention, role-filtered queries, status transitions and cancellation.
// Every method takes the acting identity explicitly.
type AppointmentService struct {
	store      Store
	resolver   *ClientResolver
	conflict   *ConflictChecker
	reschedule *RescheduleService
	notifier   Notifier
}

func NewAppointmentService(store Store, conflict *ConflictChecker, reschedule *RescheduleService, notifier Notifier) *AppointmentService {
	return &AppointmentService{
		store:      store,
		resolver:   NewClientResolver(store),
		conflict:   conflict,
		reschedule: reschedule,
		notifier:   notifier,
	}
}

// Create books a new appointment. Client identity resolution is best-effort
// and never blocks the booking; the conflict check runs before persistence
// whenever an inspector is assigned. The returned bool reports whether a
// client identity was linked.
func (s *AppointmentService) Create(actor models.Actor, req models.CreateAppointmentRequest) (*models.AppointmentWithDetails, bool, error) {
	if !Can(actor.Role, OpCreateAppointment) {
		return nil, false, ErrPermissionDenied
	}

	if _, err := parseDate(req.ScheduledDate); err != nil {
		return nil, false, validationf("scheduled_date", "%v", err)
	}
	timeOfDay, err := normalizeTimeOfDay(req.ScheduledTime)
	if err != nil {
		return nil, false, validationf("scheduled_time", "%v", err)
	}

	if req.InspectorID != nil && *req.InspectorID != "" {
		if _, err := s.verifyInspector(*req.InspectorID); err != nil {
			return nil, false, err
		}
		if err := s.conflict.Check(*req.InspectorID, req.ScheduledDate, timeOfDay, ""); err != nil {
			return nil, false, err
		}
	} else {
		req.InspectorID = nil
	}

	client := s.resolver.Resolve(ClientContact{
		Name:               req.ClientName,
		Phone:              req.ClientPhone,
		Email:              req.ClientEmail,
		DNI:                req.ClientDNI,
		Address:            &req.Address,
		LastInspectionDate: req.LastInspectionDate,
	})

	city := defaultCity
	if req.City != nil && *req.City != "" {
		city = *req.City
	}

	now := time.Now()
	appointment := &models.Appointment{
		ID:            uuid.NewString(),
		ClientName:    req.ClientName,
		ClientPhone:   req.ClientPhone,
		ClientEmail:   req.ClientEmail,
		ClientDNI:     req.ClientDNI,
		Address:       req.Address,
		Neighborhood:  req.Neighborhood,
		City:          city,
		ScheduledDate: req.ScheduledDate,
		ScheduledTime: timeOfDay,
		InspectorID:   req.InspectorID,
		CreatedBy:     &actor.ID,
		Status:        models.StatusPending,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if client != nil {
		appointment.UserID = &client.ID
	}

	if err := s.store.InsertAppointment(appointment); err != nil {
		return nil, false, err
	}

	s.notifier.AppointmentEvent(EventAppointmentCreated, appointment)

	return s.withDetails(appointment), client != nil, nil
}

// Get retrieves one appointment, enforcing role-based visibility.
func (s *AppointmentService) Get(actor models.Actor, id string) (*models.AppointmentWithDetails, error) {
	appointment, err := s.store.GetAppointment(id)
	if err != nil {
		return nil, err
	}
	if !canAccessAppointment(actor, appointment) {
		return nil, ErrPermissionDenied
	}
	return s.withDetails(appointment), nil
}

// List returns appointments visible to the actor: elevated roles see all,
// inspectors their assignments, clients their own.
func (s *AppointmentService) List(actor models.Actor, filter AppointmentFilter) ([]models.AppointmentWithDetails, error) {
	if !Can(actor.Role, OpListAppointments) {
		switch actor.Role {
		case models.RoleInspector:
			filter.InspectorID = actor.ID
		default:
			filter.UserID = actor.ID
		}
	}

	appointments, err := s.store.ListAppointments(filter)
	if err != nil {
		return nil, err
	}

	details := make([]models.AppointmentWithDetails, 0, len(appointments))
	for i := range appointments {
		details = append(details, *s.withDetails(&appointments[i]))
	}
	return details, nil
}

// Update applies a partial edit. Changing the slot or the inspector re-runs
// the conflict check, excluding the record itself.
func (s *AppointmentService) Update(actor models.Actor, id string, req models.UpdateAppointmentRequest) (*models.AppointmentWithDetails, error) {
	if !Can(actor.Role, OpUpdateAppointment) {
		return nil, ErrPermissionDenied
	}

	appointment, err := s.store.GetAppointment(id)
	if err != nil {
		return nil, err
	}
	if appointment.Status.Terminal() {
		return nil, validationf("status", "la cita está en estado %s y no puede modificarse", appointment.Status)
	}

	date := appointment.ScheduledDate
	if req.ScheduledDate != nil {
		if _, err := parseDate(*req.ScheduledDate); err != nil {
			return nil, validationf("scheduled_date", "%v", err)
		}
		date = *req.ScheduledDate
	}
	timeOfDay := appointment.ScheduledTime
	if req.ScheduledTime != nil {
		timeOfDay, err = normalizeTimeOfDay(*req.ScheduledTime)
		if err != nil {
			return nil, validationf("scheduled_time", "%v", err)
		}
	}
	inspectorID := appointment.InspectorID
	if req.InspectorID != nil {
		if *req.InspectorID == "" {
			inspectorID = nil
		} else {
			if _, err := s.verifyInspector(*req.InspectorID); err != nil {
				return nil, err
			}
			inspectorID = req.InspectorID
		}
	}

	if inspectorID != nil {
		if err := s.conflict.Check(*inspectorID, date, timeOfDay, appointment.ID); err != nil {
			return nil, err
		}
	}

	fields := map[string]interface{}{
		"scheduled_date": date,
		"scheduled_time": timeOfDay,
	}
	if inspectorID != nil {
		fields["inspector_id"] = *inspectorID
	} else if appointment.InspectorID != nil {
		fields["inspector_id"] = nil
	}
	if req.ClientName != nil {
		fields["client_name"] = *req.ClientName
	}
	if req.ClientPhone != nil {
		fields["client_phone"] = *req.ClientPhone
	}
	if req.ClientEmail != nil {
		fields["client_email"] = *req.ClientEmail
	}
	if req.ClientDNI != nil {
		fields["client_dni"] = *req.ClientDNI
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.Neighborhood != nil {
		fields["neighborhood"] = *req.Neighborhood
	}
	if req.City != nil {
		fields["city"] = *req.City
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}

	updated, err := s.store.UpdateAppointment(id, fields)
	if err != nil {
		return nil, err
	}
	return s.withDetails(updated), nil
}

// Cancel moves the appointment to CANCELLED without destroying any other
// field. A missing reason falls back to a placeholder, never blocking the
// transition.
func (s *AppointmentService) Cancel(actor models.Actor, id string, reason *string) (*models.AppointmentWithDetails, error) {
	if !Can(actor.Role, OpCancelAppointment) {
		return nil, ErrPermissionDenied
	}

	appointment, err := s.store.GetAppointment(id)
	if err != nil {
		return nil, err
	}
	if appointment.Status.Terminal() {
		return nil, validationf("status", "la cita ya está en estado %s", appointment.Status)
	}

	cancellationReason := defaultCancellationReason
	if reason != nil && *reason != "" {
		cancellationReason = *reason
	}

	updated, err := s.store.UpdateAppointment(id, map[string]interface{}{
		"status":              string(models.StatusCancelled),
		"cancellation_reason": cancellationReason,
	})
	if err != nil {
		return nil, err
	}

	s.notifier.AppointmentEvent(EventAppointmentCancelled, updated)

	return s.withDetails(updated), nil
}

// UpdateStatus applies a status transition. Values outside the enum are
// rejected, terminal states are sinks, and a NEEDS_RESCHEDULE target runs
// the reschedule workflow so the follow-up call task is spawned with it.
// RESCHEDULED can only be reached by committing a new slot through the
// reschedule resolution.
func (s *AppointmentService) UpdateStatus(actor models.Actor, id string, target string, reason *string) (*models.AppointmentWithDetails, error) {
	if !Can(actor.Role, OpUpdateStatus) {
		return nil, ErrPermissionDenied
	}

	status := models.AppointmentStatus(target)
	if !status.Valid() {
		return nil, validationf("status", "estado inválido: %q", target)
	}

	appointment, err := s.store.GetAppointment(id)
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RoleInspector &&
		(appointment.InspectorID == nil || *appointment.InspectorID != actor.ID) {
		return nil, ErrPermissionDenied
	}
	if appointment.Status.Terminal() {
		return nil, validationf("status", "la cita está en estado %s y no admite transiciones", appointment.Status)
	}

	switch status {
	case models.StatusCancelled:
		return s.Cancel(actor, id, reason)
	case models.StatusNeedsReschedule:
		markReason := defaultCancellationReason
		if reason != nil && *reason != "" {
			markReason = *reason
		}
		updated, _, err := s.reschedule.MarkNeedsReschedule(actor, id, markReason)
		if err != nil {
			return nil, err
		}
		return s.withDetails(updated), nil
	case models.StatusRescheduled:
		return nil, validationf("status", "usa el endpoint de reagendamiento para confirmar una nueva fecha")
	}

	// Re-entering an active status from one that does not hold the slot
	// must pass the availability check again; someone may have booked the
	// freed slot in the meantime.
	if status.Active() && !appointment.Status.Active() && appointment.InspectorID != nil {
		if err := s.conflict.Check(*appointment.InspectorID, appointment.ScheduledDate, appointment.ScheduledTime, appointment.ID); err != nil {
			return nil, err
		}
	}

	fields := map[string]interface{}{"status": string(status)}
	now := time.Now()
	if status == models.StatusInProgress && appointment.ActualStartTime == nil {
		fields["actual_start_time"] = now
	}
	if status == models.StatusCompleted && appointment.ActualEndTime == nil {
		fields["actual_end_time"] = now
	}

	updated, err := s.store.UpdateAppointment(id, fields)
	if err != nil {
		return nil, err
	}
	return s.withDetails(updated), nil
}

// AvailableInspectors answers the availability query for a slot.
func (s *AppointmentService) AvailableInspectors(date, timeOfDay string) ([]models.InspectorInfo, error) {
	if date == "" || timeOfDay == "" {
		return nil, validationf("date", "fecha y hora son requeridas")
	}
	if _, err := parseDate(date); err != nil {
		return nil, validationf("date", "%v", err)
	}
	normalized, err := normalizeTimeOfDay(timeOfDay)
	if err != nil {
		return nil, validationf("time", "%v", err)
	}
	return s.conflict.AvailableInspectors(date, normalized)
}

// NeedsReschedule lists appointments waiting for a new slot, each with its
// open reschedule task attached.
func (s *AppointmentService) NeedsReschedule(actor models.Actor) ([]models.AppointmentWithDetails, error) {
	if !Can(actor.Role, OpViewNeedsSchedule) {
		return nil, ErrPermissionDenied
	}

	appointments, err := s.store.ListAppointments(AppointmentFilter{Status: models.StatusNeedsReschedule})
	if err != nil {
		return nil, err
	}

	details := make([]models.AppointmentWithDetails, 0, len(appointments))
	for i := range appointments {
		detail := s.withDetails(&appointments[i])
		tasks, err := s.store.ListCallTasks(CallTaskFilter{
			TaskType:            models.TaskTypeReschedule,
			SourceAppointmentID: appointments[i].ID,
		})
		if err == nil {
			for j := range tasks {
				if !tasks[j].Status.Terminal() {
					detail.Task = &tasks[j]
					break
				}
			}
		}
		details = append(details, *detail)
	}
	return details, nil
}

func (s *AppointmentService) verifyInspector(id string) (*models.User, error) {
	inspector, err := s.store.GetUser(id)
	if err == ErrNotFound {
		return nil, validationf("inspector", "inspector no encontrado")
	}
	if err != nil {
		return nil, err
	}
	if inspector.Role != models.RoleInspector {
		return nil, validationf("inspector", "el usuario no es un inspector")
	}
	return inspector, nil
}

// withDetails decorates an appointment with resolved names, the derived
// punctuality metrics and the linked inspection summary.
func (s *AppointmentService) withDetails(a *models.Appointment) *models.AppointmentWithDetails {
	detail := &models.AppointmentWithDetails{
		Appointment: *a,
		Punctuality: Punctuality(a),
		IsPastDue:   IsPastDue(a, time.Now()),
	}

	if a.InspectorID != nil {
		if inspector, err := s.store.GetUser(*a.InspectorID); err == nil {
			name := inspector.FullName()
			detail.InspectorName = &name
		}
	}
	if a.CreatedBy != nil {
		if creator, err := s.store.GetUser(*a.CreatedBy); err == nil {
			name := creator.FullName()
			detail.CreatedByName = &name
		}
	}
	if a.InspectionID != nil {
		inspection, err := s.store.GetInspection(*a.InspectionID)
		if err == nil {
			detail.Inspection = inspection
		} else if err != ErrNotFound {
			log.Printf("[AppointmentService] inspection lookup failed for %s: %v", *a.InspectionID, err)
		}
	}
	return detail
}

func canAccessAppointment(actor models.Actor, a *models.Appointment) bool {
	switch actor.Role {
	case models.RoleAdmin, models.RoleCallCenter, models.RoleCallCenterAdmin:
		return true
	case models.RoleInspector:
		return a.InspectorID != nil && *a.InspectorID == actor.ID
	default:
		return a.UserID != nil && *a.UserID == actor.ID
	}
}
