package services

import (
	"sort"
	"time"

	"github.com/makotocarlos/backend-inspecciones-gas/models"
)

// A day with this many non-cancelled appointments is considered fully
// booked.
const busyThreshold = 8

// CalendarService produces the per-day monthly occupancy view for an
// inspector.
type CalendarService struct {
	store Store
}

func NewCalendarService(store Store) *CalendarService {
	return &CalendarService{store: store}
}

// InspectorSchedule builds the calendar for (month, year). Inspectors query
// their own calendar by passing an empty inspectorID; elevated roles may
// query any inspector by ID.
func (s *CalendarService) InspectorSchedule(actor models.Actor, inspectorID string, month, year int) (*models.InspectorSchedule, error) {
	if inspectorID == "" {
		if actor.Role != models.RoleInspector {
			return nil, validationf("inspector", "se requiere el ID del inspector")
		}
		inspectorID = actor.ID
	} else if actor.Role == models.RoleInspector && inspectorID != actor.ID {
		return nil, ErrPermissionDenied
	} else if actor.Role != models.RoleInspector && !Can(actor.Role, OpViewAnyCalendar) {
		return nil, ErrPermissionDenied
	}

	if month < 1 || month > 12 {
		return nil, validationf("month", "mes inválido: %d", month)
	}
	if year < 2000 || year > 2100 {
		return nil, validationf("year", "año inválido: %d", year)
	}

	inspector, err := s.store.GetUser(inspectorID)
	if err != nil {
		return nil, err
	}
	if inspector.Role != models.RoleInspector {
		return nil, ErrNotFound
	}

	appointments, err := s.store.ListAppointmentsForMonth(inspectorID, year, month)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string][]models.CalendarAppointment)
	summary := models.ScheduleSummary{}
	for _, a := range appointments {
		if a.Status == models.StatusCancelled {
			continue
		}
		byDate[a.ScheduledDate] = append(byDate[a.ScheduledDate], models.CalendarAppointment{
			ID:            a.ID,
			ScheduledTime: a.ScheduledTime,
			ClientName:    a.ClientName,
			Address:       a.Address,
			Status:        a.Status,
		})
		summary.Total++
		switch a.Status {
		case models.StatusCompleted:
			summary.Completed++
		case models.StatusPending:
			summary.Pending++
		}
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	daysInMonth := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.Local).Day()

	days := make([]models.CalendarDay, 0, daysInMonth)
	for dayNum := 1; dayNum <= daysInMonth; dayNum++ {
		date := time.Date(year, time.Month(month), dayNum, 0, 0, 0, 0, time.Local)
		dateStr := date.Format(dateLayout)

		entries := byDate[dateStr]
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].ScheduledTime < entries[j].ScheduledTime
		})

		days = append(days, models.CalendarDay{
			Date:         dateStr,
			Appointments: entries,
			Count:        len(entries),
			IsBusy:       len(entries) >= busyThreshold,
			IsToday:      date.Equal(today),
			IsPast:       date.Before(today),
		})
	}

	summary.AvailableSlots = busyThreshold*daysInMonth - summary.Total

	return &models.InspectorSchedule{
		InspectorID:   inspectorID,
		InspectorName: inspector.FullName(),
		Month:         month,
		Year:          year,
		Days:          days,
		Summary:       summary,
	}, nil
}
