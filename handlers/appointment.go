package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/makotocarlos/backend-inspecciones-gas/models"
	"github.com/makotocarlos/backend-inspecciones-gas/services"
)

type AppointmentHandler struct {
	appointments *services.AppointmentService
	reschedule   *services.RescheduleService
}

func NewAppointmentHandler(appointments *services.AppointmentService, reschedule *services.RescheduleService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments, reschedule: reschedule}
}

// List returns appointments visible to the caller, with optional status,
// date range and inspector filters.
func (h *AppointmentHandler) List(c *gin.Context) {
	actor := actorFrom(c)

	filter := services.AppointmentFilter{
		Status:      models.AppointmentStatus(c.Query("status")),
		DateFrom:    c.Query("date_from"),
		DateTo:      c.Query("date_to"),
		InspectorID: c.Query("inspector"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		respondError(c, &services.ValidationError{Fields: map[string]string{"status": "estado inválido"}})
		return
	}

	appointments, err := h.appointments.List(actor, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"appointments": appointments,
	})
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	actor := actorFrom(c)

	var req models.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Error:   "Datos de la cita inválidos",
			Errors:  err.Error(),
		})
		return
	}

	appointment, clientLinked, err := h.appointments.Create(actor, req)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Cita creada exitosamente"
	if clientLinked {
		message = "Cita creada exitosamente y cliente registrado"
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":        true,
		"message":        message,
		"appointment":    appointment,
		"client_created": clientLinked,
	})
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	actor := actorFrom(c)

	appointment, err := h.appointments.Get(actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"appointment": appointment,
	})
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	actor := actorFrom(c)

	var req models.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Error:   "Datos de la cita inválidos",
			Errors:  err.Error(),
		})
		return
	}

	appointment, err := h.appointments.Update(actor, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Cita actualizada exitosamente",
		"appointment": appointment,
	})
}

// Cancel handles DELETE: the record is never removed, it transitions to
// CANCELLED with a reason.
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	actor := actorFrom(c)

	var req models.CancelAppointmentRequest
	// The body is optional; a missing reason falls back to a placeholder.
	c.ShouldBindJSON(&req)

	appointment, err := h.appointments.Cancel(actor, c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Cita cancelada exitosamente",
		"appointment": appointment,
	})
}

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	actor := actorFrom(c)

	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Error:   "Estado requerido",
			Errors:  err.Error(),
		})
		return
	}

	appointment, err := h.appointments.UpdateStatus(actor, c.Param("id"), req.Status, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Estado actualizado a " + string(appointment.Status),
		"appointment": appointment,
	})
}

// NeedsReschedule lists appointments waiting for a new slot, each with its
// open reschedule task.
func (h *AppointmentHandler) NeedsReschedule(c *gin.Context) {
	actor := actorFrom(c)

	appointments, err := h.appointments.NeedsReschedule(actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"appointments": appointments,
	})
}

// Reschedule commits a new slot for an appointment in NEEDS_RESCHEDULE.
func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	actor := actorFrom(c)

	var req models.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Error:   "Fecha y hora son requeridas",
			Errors:  err.Error(),
		})
		return
	}

	appointment, err := h.reschedule.Resolve(actor, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Cita reagendada exitosamente",
		"appointment": appointment,
	})
}
