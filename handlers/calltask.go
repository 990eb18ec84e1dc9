package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/makotocarlos/backend-inspecciones-gas/models"
	"github.com/makotocarlos/backend-inspecciones-gas/services"
)

type CallTaskHandler struct {
	tasks *services.CallTaskService
	scan  services.ScanConfig
}

func NewCallTaskHandler(tasks *services.CallTaskService, scan services.ScanConfig) *CallTaskHandler {
	return &CallTaskHandler{tasks: tasks, scan: scan}
}

func (h *CallTaskHandler) List(c *gin.Context) {
	actor := actorFrom(c)

	filter := services.CallTaskFilter{
		AssignedTo: c.Query("assigned_to"),
		Status:     models.CallTaskStatus(c.Query("status")),
		TaskType:   models.CallTaskType(c.Query("task_type")),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		respondError(c, &services.ValidationError{Fields: map[string]string{"status": "estado inválido"}})
		return
	}
	if filter.TaskType != "" && !filter.TaskType.Valid() {
		respondError(c, &services.ValidationError{Fields: map[string]string{"task_type": "tipo inválido"}})
		return
	}

	tasks, err := h.tasks.List(actor, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tasks":   tasks,
	})
}

func (h *CallTaskHandler) Create(c *gin.Context) {
	actor := actorFrom(c)

	var req models.CreateCallTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Error:   "Datos de la tarea inválidos",
			Errors:  err.Error(),
		})
		return
	}

	task, err := h.tasks.Create(actor, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Tarea creada exitosamente",
		"task":    task,
	})
}

func (h *CallTaskHandler) Get(c *gin.Context) {
	actor := actorFrom(c)

	task, err := h.tasks.Get(actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"task":    task,
	})
}

func (h *CallTaskHandler) Update(c *gin.Context) {
	actor := actorFrom(c)

	var req models.UpdateCallTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Error:   "Datos de la tarea inválidos",
			Errors:  err.Error(),
		})
		return
	}

	task, err := h.tasks.Update(actor, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Tarea actualizada exitosamente",
		"task":    task,
	})
}

func (h *CallTaskHandler) Delete(c *gin.Context) {
	actor := actorFrom(c)

	if err := h.tasks.Delete(actor, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Tarea eliminada exitosamente",
	})
}

// ClientsNeedingInspection runs the outreach scan over the client directory.
func (h *CallTaskHandler) ClientsNeedingInspection(c *gin.Context) {
	actor := actorFrom(c)

	clients, err := h.tasks.ClientsNeedingInspection(actor, h.scan)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"clients": clients,
	})
}

// ListAgents returns the active call-center agents.
func (h *CallTaskHandler) ListAgents(c *gin.Context) {
	actor := actorFrom(c)

	agents, err := h.tasks.Agents(actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"agents":  agents,
	})
}
