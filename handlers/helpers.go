package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/makotocarlos/backend-inspecciones-gas/models"
	"github.com/makotocarlos/backend-inspecciones-gas/services"
)

// actorFrom rebuilds the acting identity from the claims the auth
// middleware stored in the context.
func actorFrom(c *gin.Context) models.Actor {
	actor := models.Actor{}
	if v, ok := c.Get("user_id"); ok {
		actor.ID, _ = v.(string)
	}
	if v, ok := c.Get("role"); ok {
		if role, ok := v.(string); ok {
			actor.Role = models.Role(role)
		}
	}
	if v, ok := c.Get("email"); ok {
		actor.Email, _ = v.(string)
	}
	if v, ok := c.Get("full_name"); ok {
		actor.FullName, _ = v.(string)
	}
	return actor
}

// respondError maps service errors onto the JSON envelope: validation and
// conflict → 400, permission → 403, not found → 404, everything else → 500
// without leaking internals.
func respondError(c *gin.Context, err error) {
	var validation *services.ValidationError
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Error:   validation.Error(),
			Errors:  validation.Fields,
		})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Error:   err.Error(),
		})
	case errors.Is(err, services.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, models.Response{
			Success: false,
			Error:   err.Error(),
		})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, models.Response{
			Success: false,
			Error:   err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Error:   "Error interno del servidor",
		})
	}
}
