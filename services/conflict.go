package services

import "github.com/makotocarlos/backend-inspecciones-gas/models"

// ConflictChecker enforces the core invariant: an inspector can hold at most
// one active appointment per (date, time) slot. The pre-check here produces
// the user-facing error; the database closes the remaining race window with
// a partial unique index on (inspector_id, scheduled_date, scheduled_time)
// over the active statuses, surfaced by the store as ErrConflict.
type ConflictChecker struct {
	store Store
}

func NewConflictChecker(store Store) *ConflictChecker {
	return &ConflictChecker{store: store}
}

// Check fails with ErrConflict when the inspector already holds an active
// appointment at the slot. excludeID skips the record being edited.
func (c *ConflictChecker) Check(inspectorID, date, timeOfDay, excludeID string) error {
	conflicts, err := c.store.ListAppointmentsAtSlot(inspectorID, date, timeOfDay, models.ActiveStatuses)
	if err != nil {
		return err
	}
	for _, a := range conflicts {
		if a.ID != excludeID {
			return ErrConflict
		}
	}
	return nil
}

// AvailableInspectors returns every active inspector with no active
// appointment at the slot: the set difference between all inspectors and the
// busy ones.
func (c *ConflictChecker) AvailableInspectors(date, timeOfDay string) ([]models.InspectorInfo, error) {
	inspectors, err := c.store.ListUsersByRole(models.RoleInspector, true)
	if err != nil {
		return nil, err
	}

	busy, err := c.store.ListAppointmentsAtSlot("", date, timeOfDay, models.ActiveStatuses)
	if err != nil {
		return nil, err
	}
	busyIDs := make(map[string]bool, len(busy))
	for _, a := range busy {
		if a.InspectorID != nil {
			busyIDs[*a.InspectorID] = true
		}
	}

	available := make([]models.InspectorInfo, 0, len(inspectors))
	for _, ins := range inspectors {
		if busyIDs[ins.ID] {
			continue
		}
		info := models.InspectorInfo{ID: ins.ID, Name: ins.FullName()}
		if ins.Email != nil {
			info.Email = *ins.Email
		}
		if ins.Phone != nil {
			info.Phone = *ins.Phone
		}
		if ins.LicenseNumber != nil {
			info.LicenseNumber = *ins.LicenseNumber
		}
		available = append(available, info)
	}
	return available, nil
}
