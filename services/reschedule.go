package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/makotocarlos/backend-inspecciones-gas/models"
)

// RescheduleService moves appointments into NEEDS_RESCHEDULE, spawns the
// follow-up call task and later commits the new slot.
type RescheduleService struct {
	store    Store
	conflict *ConflictChecker
	notifier Notifier
}

func NewRescheduleService(store Store, conflict *ConflictChecker, notifier Notifier) *RescheduleService {
	return &RescheduleService{store: store, conflict: conflict, notifier: notifier}
}

// MarkNeedsReschedule transitions a non-terminal appointment into
// NEEDS_RESCHEDULE and creates a RESCHEDULE call task carrying a snapshot of
// the client contact data.
func (s *RescheduleService) MarkNeedsReschedule(actor models.Actor, appointmentID, reason string) (*models.Appointment, *models.CallTask, error) {
	appointment, err := s.store.GetAppointment(appointmentID)
	if err != nil {
		return nil, nil, err
	}
	if appointment.Status.Terminal() {
		return nil, nil, validationf("status", "la cita está en estado %s y no puede reagendarse", appointment.Status)
	}

	updated, err := s.store.UpdateAppointment(appointmentID, map[string]interface{}{
		"status": string(models.StatusNeedsReschedule),
	})
	if err != nil {
		return nil, nil, err
	}

	address := appointment.Address
	now := time.Now()
	task := &models.CallTask{
		ID:                  uuid.NewString(),
		TaskType:            models.TaskTypeReschedule,
		SourceAppointmentID: &appointment.ID,
		ClientName:          appointment.ClientName,
		ClientPhone:         appointment.ClientPhone,
		ClientEmail:         appointment.ClientEmail,
		ClientDNI:           appointment.ClientDNI,
		ClientAddress:       &address,
		AssignedBy:          &actor.ID,
		Status:              models.TaskStatusPending,
		Priority:            models.PriorityHigh,
		Notes:               &reason,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.store.InsertCallTask(task); err != nil {
		return nil, nil, err
	}

	s.notifier.AppointmentEvent(EventNeedsReschedule, updated)

	return updated, task, nil
}

// Resolve commits a new slot for an appointment in NEEDS_RESCHEDULE. On
// conflict or unknown inspector the appointment keeps waiting; on success it
// moves to RESCHEDULED, a timestamped note is appended and the open
// reschedule task (if any) is closed as APPOINTMENT_SCHEDULED pointing back
// at the appointment.
func (s *RescheduleService) Resolve(actor models.Actor, appointmentID string, req models.RescheduleRequest) (*models.Appointment, error) {
	if !Can(actor.Role, OpReschedule) {
		return nil, ErrPermissionDenied
	}

	appointment, err := s.store.GetAppointment(appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.Status != models.StatusNeedsReschedule {
		return nil, validationf("status", "la cita no está pendiente de reagendamiento")
	}

	if _, err := parseDate(req.ScheduledDate); err != nil {
		return nil, validationf("scheduled_date", "%v", err)
	}
	timeOfDay, err := normalizeTimeOfDay(req.ScheduledTime)
	if err != nil {
		return nil, validationf("scheduled_time", "%v", err)
	}

	inspectorID := appointment.InspectorID
	if req.InspectorID != nil && *req.InspectorID != "" {
		inspector, err := s.store.GetUser(*req.InspectorID)
		if err != nil {
			return nil, err
		}
		if inspector.Role != models.RoleInspector {
			return nil, validationf("inspector", "el usuario no es un inspector")
		}
		inspectorID = req.InspectorID
	}

	if inspectorID != nil {
		if err := s.conflict.Check(*inspectorID, req.ScheduledDate, timeOfDay, appointment.ID); err != nil {
			return nil, err
		}
	}

	note := fmt.Sprintf("[Reagendada %s] %s %s",
		time.Now().Format(time.RFC3339), req.ScheduledDate, timeOfDay)
	if appointment.Notes != nil && *appointment.Notes != "" {
		note = *appointment.Notes + "\n" + note
	}

	fields := map[string]interface{}{
		"scheduled_date": req.ScheduledDate,
		"scheduled_time": timeOfDay,
		"status":         string(models.StatusRescheduled),
		"notes":          note,
	}
	if inspectorID != nil {
		fields["inspector_id"] = *inspectorID
	}

	updated, err := s.store.UpdateAppointment(appointmentID, fields)
	if err != nil {
		return nil, err
	}

	s.closeRescheduleTask(appointment.ID)
	s.notifier.AppointmentEvent(EventAppointmentRescheduled, updated)

	return updated, nil
}

func (s *RescheduleService) closeRescheduleTask(appointmentID string) {
	tasks, err := s.store.ListCallTasks(CallTaskFilter{
		TaskType:            models.TaskTypeReschedule,
		SourceAppointmentID: appointmentID,
	})
	if err != nil {
		return
	}
	for i := range tasks {
		if tasks[i].Status.Terminal() {
			continue
		}
		s.store.UpdateCallTask(tasks[i].ID, map[string]interface{}{
			"status":                   string(models.TaskStatusAppointmentScheduled),
			"resulting_appointment_id": appointmentID,
		})
	}
}
