package services

import "github.com/makotocarlos/backend-inspecciones-gas/models"

// Operation names every role-gated action in the scheduling core. Access is
// resolved through a single capability table instead of ad-hoc role string
// comparisons at each call site.
type Operation string

const (
	OpCreateAppointment  Operation = "appointment.create"
	OpListAppointments   Operation = "appointment.list_all"
	OpUpdateAppointment  Operation = "appointment.update"
	OpCancelAppointment  Operation = "appointment.cancel"
	OpUpdateStatus       Operation = "appointment.update_status"
	OpReschedule         Operation = "appointment.reschedule"
	OpViewNeedsSchedule  Operation = "appointment.view_needs_reschedule"
	OpViewAnyCalendar    Operation = "calendar.view_any"
	OpCreateCallTask     Operation = "calltask.create"
	OpReassignCallTask   Operation = "calltask.reassign"
	OpDeleteCallTask     Operation = "calltask.delete"
	OpListAllCallTasks   Operation = "calltask.list_all"
	OpScanClients        Operation = "clients.scan"
	OpListAgents         Operation = "agents.list"
)

var dispatcherRoles = []models.Role{models.RoleAdmin, models.RoleCallCenterAdmin}

var callCenterRoles = []models.Role{
	models.RoleAdmin, models.RoleCallCenter, models.RoleCallCenterAdmin,
}

var capabilities = map[Operation][]models.Role{
	OpCreateAppointment: callCenterRoles,
	OpListAppointments:  callCenterRoles,
	OpUpdateAppointment: callCenterRoles,
	OpCancelAppointment: callCenterRoles,
	// Inspectors may update the status of their own assignments; the
	// ownership check lives in the appointment service.
	OpUpdateStatus: {
		models.RoleAdmin, models.RoleCallCenter, models.RoleCallCenterAdmin,
		models.RoleInspector,
	},
	OpReschedule:        callCenterRoles,
	OpViewNeedsSchedule: callCenterRoles,
	OpViewAnyCalendar:   callCenterRoles,
	OpCreateCallTask:    dispatcherRoles,
	OpReassignCallTask:  dispatcherRoles,
	OpDeleteCallTask:    dispatcherRoles,
	OpListAllCallTasks:  dispatcherRoles,
	OpScanClients:       dispatcherRoles,
	OpListAgents:        dispatcherRoles,
}

// Can reports whether the role is allowed to perform the operation.
func Can(role models.Role, op Operation) bool {
	for _, r := range capabilities[op] {
		if r == role {
			return true
		}
	}
	return false
}

// IsDispatcher reports whether the role may create, reassign and delete
// call tasks.
func IsDispatcher(role models.Role) bool {
	for _, r := range dispatcherRoles {
		if r == role {
			return true
		}
	}
	return false
}
