package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/makotocarlos/backend-inspecciones-gas/services"
)

type ScheduleHandler struct {
	appointments *services.AppointmentService
	calendar     *services.CalendarService
}

func NewScheduleHandler(appointments *services.AppointmentService, calendar *services.CalendarService) *ScheduleHandler {
	return &ScheduleHandler{appointments: appointments, calendar: calendar}
}

// AvailableInspectors lists inspectors free at the given slot.
func (h *ScheduleHandler) AvailableInspectors(c *gin.Context) {
	inspectors, err := h.appointments.AvailableInspectors(c.Query("date"), c.Query("time"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"inspectors": inspectors,
	})
}

// InspectorSchedule returns the monthly calendar. Inspectors reach their own
// calendar without an ID; elevated roles pass the inspector in the path.
func (h *ScheduleHandler) InspectorSchedule(c *gin.Context) {
	actor := actorFrom(c)

	now := time.Now()
	month := int(now.Month())
	year := now.Year()
	if v := c.Query("month"); v != "" {
		month, _ = strconv.Atoi(v)
	}
	if v := c.Query("year"); v != "" {
		year, _ = strconv.Atoi(v)
	}

	schedule, err := h.calendar.InspectorSchedule(actor, c.Param("id"), month, year)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"schedule": schedule,
	})
}
