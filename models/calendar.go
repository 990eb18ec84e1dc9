package models

// CalendarAppointment is the slim per-day entry in an inspector's schedule.
type CalendarAppointment struct {
	ID            string            `json:"id"`
	ScheduledTime string            `json:"scheduled_time"`
	ClientName    string            `json:"client_name"`
	Address       string            `json:"address"`
	Status        AppointmentStatus `json:"status"`
}

type CalendarDay struct {
	Date         string                `json:"date"`
	Appointments []CalendarAppointment `json:"appointments"`
	Count        int                   `json:"count"`
	IsBusy       bool                  `json:"is_busy"`
	IsToday      bool                  `json:"is_today"`
	IsPast       bool                  `json:"is_past"`
}

type ScheduleSummary struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	Pending        int `json:"pending"`
	AvailableSlots int `json:"available_slots"`
}

type InspectorSchedule struct {
	InspectorID   string          `json:"inspector_id"`
	InspectorName string          `json:"inspector_name"`
	Month         int             `json:"month"`
	Year          int             `json:"year"`
	Days          []CalendarDay   `json:"days"`
	Summary       ScheduleSummary `json:"summary"`
}
