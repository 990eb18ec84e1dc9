package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/makotocarlos/backend-inspecciones-gas/models"
)

// CallTaskService manages outreach tasks: dispatcher creation, agent
// updates and the dispatcher-only deletion path.
type CallTaskService struct {
	store Store
}

func NewCallTaskService(store Store) *CallTaskService {
	return &CallTaskService{store: store}
}

// Create registers a new outreach task. Only dispatchers may create tasks;
// assigned_to may stay empty for later claiming.
func (s *CallTaskService) Create(actor models.Actor, req models.CreateCallTaskRequest) (*models.CallTask, error) {
	if !Can(actor.Role, OpCreateCallTask) {
		return nil, ErrPermissionDenied
	}

	taskType := models.CallTaskType(req.TaskType)
	if !taskType.Valid() {
		return nil, validationf("task_type", "tipo de tarea inválido: %q", req.TaskType)
	}

	priority := models.PriorityMedium
	if req.DaysUntilDue != nil {
		priority = PriorityForDays(*req.DaysUntilDue)
	}
	if req.Priority != nil {
		priority = models.CallTaskPriority(*req.Priority)
		if !priority.Valid() {
			return nil, validationf("priority", "prioridad inválida: %q", *req.Priority)
		}
	}

	if req.AssignedTo != nil && *req.AssignedTo != "" {
		if err := s.verifyAgent(*req.AssignedTo); err != nil {
			return nil, err
		}
	} else {
		req.AssignedTo = nil
	}

	now := time.Now()
	task := &models.CallTask{
		ID:                 uuid.NewString(),
		TaskType:           taskType,
		ClientName:         req.ClientName,
		ClientPhone:        req.ClientPhone,
		ClientEmail:        req.ClientEmail,
		ClientDNI:          req.ClientDNI,
		ClientAddress:      req.ClientAddress,
		LastInspectionDate: req.LastInspectionDate,
		NextInspectionDue:  req.NextInspectionDue,
		DaysUntilDue:       req.DaysUntilDue,
		AssignedBy:         &actor.ID,
		AssignedTo:         req.AssignedTo,
		Status:             models.TaskStatusPending,
		Priority:           priority,
		Notes:              req.Notes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.store.InsertCallTask(task); err != nil {
		return nil, err
	}
	return task, nil
}

// Get returns one task. Agents only see tasks assigned to them.
func (s *CallTaskService) Get(actor models.Actor, id string) (*models.CallTask, error) {
	task, err := s.store.GetCallTask(id)
	if err != nil {
		return nil, err
	}
	if !s.canAccessTask(actor, task) {
		return nil, ErrPermissionDenied
	}
	return task, nil
}

// List returns tasks visible to the actor, dispatcher filters applied.
func (s *CallTaskService) List(actor models.Actor, filter CallTaskFilter) ([]models.CallTask, error) {
	if !Can(actor.Role, OpListAllCallTasks) {
		if actor.Role != models.RoleCallCenter {
			return nil, ErrPermissionDenied
		}
		filter.AssignedTo = actor.ID
	}
	return s.store.ListCallTasks(filter)
}

// Update mutates a task. The assigned agent may change status, notes and
// the resulting appointment; reassignment, reprioritization and explicit
// attempt-counter corrections require dispatcher capability. A transition
// to IN_PROGRESS stamps last_call_date and increments call_attempts in the
// same write as the status, so no concurrent read can observe one without
// the other.
func (s *CallTaskService) Update(actor models.Actor, id string, req models.UpdateCallTaskRequest) (*models.CallTask, error) {
	task, err := s.store.GetCallTask(id)
	if err != nil {
		return nil, err
	}
	if !s.canAccessTask(actor, task) {
		return nil, ErrPermissionDenied
	}

	fields := make(map[string]interface{})

	if req.AssignedTo != nil || req.Priority != nil || req.CallAttempts != nil {
		if !Can(actor.Role, OpReassignCallTask) {
			return nil, ErrPermissionDenied
		}
		if req.AssignedTo != nil {
			if *req.AssignedTo != "" {
				if err := s.verifyAgent(*req.AssignedTo); err != nil {
					return nil, err
				}
				fields["assigned_to"] = *req.AssignedTo
			} else {
				fields["assigned_to"] = nil
			}
		}
		if req.Priority != nil {
			priority := models.CallTaskPriority(*req.Priority)
			if !priority.Valid() {
				return nil, validationf("priority", "prioridad inválida: %q", *req.Priority)
			}
			fields["priority"] = string(priority)
		}
	}

	if req.Status != nil {
		status := models.CallTaskStatus(*req.Status)
		if !status.Valid() {
			return nil, validationf("status", "estado inválido: %q", *req.Status)
		}
		if task.Status.Terminal() {
			return nil, validationf("status", "la tarea está en estado %s y no admite transiciones", task.Status)
		}
		fields["status"] = string(status)
		if status == models.TaskStatusInProgress {
			fields["last_call_date"] = time.Now()
			fields["call_attempts"] = task.CallAttempts + 1
		}
	}

	// Applied after the status block so an explicit correction wins over
	// the IN_PROGRESS auto-increment.
	if req.CallAttempts != nil {
		if *req.CallAttempts < 0 {
			return nil, validationf("call_attempts", "el contador no puede ser negativo")
		}
		fields["call_attempts"] = *req.CallAttempts
	}

	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if req.ResultingAppointmentID != nil {
		if _, err := s.store.GetAppointment(*req.ResultingAppointmentID); err != nil {
			return nil, err
		}
		fields["resulting_appointment_id"] = *req.ResultingAppointmentID
	}

	if len(fields) == 0 {
		return task, nil
	}
	return s.store.UpdateCallTask(id, fields)
}

// Delete removes a task. Dispatcher only; agents cannot delete.
func (s *CallTaskService) Delete(actor models.Actor, id string) error {
	if !Can(actor.Role, OpDeleteCallTask) {
		return ErrPermissionDenied
	}
	if _, err := s.store.GetCallTask(id); err != nil {
		return err
	}
	return s.store.DeleteCallTask(id)
}

// Agents lists the active call-center agents for assignment pickers.
func (s *CallTaskService) Agents(actor models.Actor) ([]models.AgentInfo, error) {
	if !Can(actor.Role, OpListAgents) {
		return nil, ErrPermissionDenied
	}

	users, err := s.store.ListUsersByRole(models.RoleCallCenter, true)
	if err != nil {
		return nil, err
	}

	agents := make([]models.AgentInfo, 0, len(users))
	for _, u := range users {
		agent := models.AgentInfo{ID: u.ID, Name: u.FullName(), IsActive: u.IsActive}
		if u.Email != nil {
			agent.Email = *u.Email
		}
		if u.Phone != nil {
			agent.Phone = *u.Phone
		}
		agents = append(agents, agent)
	}
	return agents, nil
}

func (s *CallTaskService) canAccessTask(actor models.Actor, task *models.CallTask) bool {
	if IsDispatcher(actor.Role) {
		return true
	}
	if actor.Role == models.RoleCallCenter {
		return task.AssignedTo != nil && *task.AssignedTo == actor.ID
	}
	return false
}

func (s *CallTaskService) verifyAgent(id string) error {
	agent, err := s.store.GetUser(id)
	if err == ErrNotFound {
		return validationf("assigned_to", "agente no encontrado")
	}
	if err != nil {
		return err
	}
	if agent.Role != models.RoleCallCenter && agent.Role != models.RoleCallCenterAdmin {
		return validationf("assigned_to", "el usuario no es un agente de call center")
	}
	return nil
}
