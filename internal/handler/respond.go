package handler

import (
	"errors"
	"net/http"

	"sprintdeck/internal/middleware"
	"sprintdeck/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// currentUserID pulls the authenticated principal out of the context. It
// writes the error response itself, callers just return on !ok.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return uuid.Nil, false
	}
	userID, ok := v.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return uuid.Nil, false
	}
	return userID, true
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " format"})
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps the service error taxonomy to HTTP statuses. Anything
// outside the taxonomy is a store failure; the deletion saga's aggregated
// errors land here too and the caller is expected to retry those.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, service.ErrPreconditionFailed):
		status = http.StatusPreconditionFailed
	case errors.Is(err, service.ErrInvalidOperation),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrIncompleteChildren),
		errors.Is(err, service.ErrInvalidDateRange):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
