package handler

import (
	"net/http"
	"time"

	"sprintdeck/internal/service"

	"github.com/gin-gonic/gin"
)

type SprintHandler struct {
	sprints *service.SprintService
}

func NewSprintHandler(sprints *service.SprintService) *SprintHandler {
	return &SprintHandler{sprints: sprints}
}

type CreateSprintRequest struct {
	Name      string    `json:"name" binding:"required"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

type UpdateSprintRequest struct {
	Name      *string    `json:"name"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Status    *string    `json:"status" binding:"omitempty,oneof=TO_DO IN_PROGRESS DONE"`
}

type SprintResponse struct {
	ID                   string `json:"id"`
	ProjectID            string `json:"project_id"`
	Name                 string `json:"name"`
	StartDate            string `json:"start_date"`
	EndDate              string `json:"end_date"`
	Status               string `json:"status"`
	TotalStoryPoints     int    `json:"total_story_points"`
	CompletedStoryPoints int    `json:"completed_story_points"`
}

func toSprintResponse(r *service.SprintRollup) SprintResponse {
	return SprintResponse{
		ID:                   r.Sprint.ID.String(),
		ProjectID:            r.Sprint.ProjectID.String(),
		Name:                 r.Sprint.Name,
		StartDate:            r.Sprint.StartDate.Format(time.RFC3339),
		EndDate:              r.Sprint.EndDate.Format(time.RFC3339),
		Status:               r.Sprint.Status,
		TotalStoryPoints:     r.TotalStoryPoints,
		CompletedStoryPoints: r.CompletedStoryPoints,
	}
}

// Create creates a sprint in the project, starting in TO_DO.
func (h *SprintHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateSprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	sprint, err := h.sprints.Create(c.Request.Context(), projectID, userID, service.SprintInput{
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toSprintResponse(&service.SprintRollup{Sprint: *sprint}))
}

func (h *SprintHandler) GetByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	sprintID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	rollup, err := h.sprints.Get(c.Request.Context(), sprintID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSprintResponse(rollup))
}

func (h *SprintHandler) GetByProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	rollups, err := h.sprints.ListByProject(c.Request.Context(), projectID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]SprintResponse, len(rollups))
	for i := range rollups {
		response[i] = toSprintResponse(&rollups[i])
	}
	c.JSON(http.StatusOK, response)
}

// Update merges fields; status changes go through the lifecycle guard.
func (h *SprintHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	sprintID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateSprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	sprint, err := h.sprints.Update(c.Request.Context(), sprintID, userID, service.SprintUpdate{
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSprintResponse(&service.SprintRollup{Sprint: *sprint}))
}

// Delete removes the sprint; its tasks are detached, not deleted.
func (h *SprintHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	sprintID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.sprints.Delete(c.Request.Context(), sprintID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sprint deleted successfully"})
}
