package handler

import (
	"net/http"
	"time"

	"sprintdeck/internal/model"
	"sprintdeck/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskHandler struct {
	tasks *service.TaskService
}

func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

type CreateTaskRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Status      string    `json:"status" binding:"omitempty,oneof=TO_DO IN_PROGRESS DONE"`
	StoryPoints int       `json:"story_points" binding:"omitempty,min=0"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	DueDate     time.Time `json:"due_date" binding:"required"`
	SprintID    *string   `json:"sprint_id" binding:"omitempty,uuid"`
	AssigneeID  *string   `json:"assignee_id" binding:"omitempty,uuid"`
}

type UpdateTaskRequest struct {
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	Status        *string    `json:"status" binding:"omitempty,oneof=TO_DO IN_PROGRESS DONE"`
	StoryPoints   *int       `json:"story_points" binding:"omitempty,min=0"`
	StartDate     *time.Time `json:"start_date"`
	DueDate       *time.Time `json:"due_date"`
	SprintID      *string    `json:"sprint_id" binding:"omitempty,uuid"`
	ClearSprint   bool       `json:"clear_sprint"`
	AssigneeID    *string    `json:"assignee_id" binding:"omitempty,uuid"`
	ClearAssignee bool       `json:"clear_assignee"`
}

type TaskResponse struct {
	ID          string  `json:"id"`
	ProjectID   string  `json:"project_id"`
	SprintID    *string `json:"sprint_id,omitempty"`
	AssigneeID  *string `json:"assignee_id,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	StoryPoints int     `json:"story_points"`
	StartDate   string  `json:"start_date"`
	DueDate     string  `json:"due_date"`
}

func toTaskResponse(t *model.Task) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID.String(),
		ProjectID:   t.ProjectID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		StoryPoints: t.StoryPoints,
		StartDate:   t.StartDate.Format(time.RFC3339),
		DueDate:     t.DueDate.Format(time.RFC3339),
	}
	if t.SprintID != nil {
		s := t.SprintID.String()
		resp.SprintID = &s
	}
	if t.AssigneeID != nil {
		a := t.AssigneeID.String()
		resp.AssigneeID = &a
	}
	return resp
}

func parseOptionalUUID(c *gin.Context, raw *string, name string) (*uuid.UUID, bool) {
	if raw == nil {
		return nil, true
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " format"})
		return nil, false
	}
	return &id, true
}

// Create creates a task in the project. Dates are validated against the
// linked sprint's window, the assignee must be a project member.
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	sprintID, ok := parseOptionalUUID(c, req.SprintID, "sprint ID")
	if !ok {
		return
	}
	assigneeID, ok := parseOptionalUUID(c, req.AssigneeID, "assignee ID")
	if !ok {
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), projectID, userID, service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		StoryPoints: req.StoryPoints,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		SprintID:    sprintID,
		AssigneeID:  assigneeID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTaskResponse(task))
}

func (h *TaskHandler) GetByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.tasks.Get(c.Request.Context(), taskID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskResponse(task))
}

func (h *TaskHandler) GetByProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	tasks, err := h.tasks.ListByProject(c.Request.Context(), projectID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TaskResponse, len(tasks))
	for i := range tasks {
		response[i] = toTaskResponse(&tasks[i])
	}
	c.JSON(http.StatusOK, response)
}

func (h *TaskHandler) GetBySprint(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	sprintID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	tasks, err := h.tasks.ListBySprint(c.Request.Context(), sprintID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TaskResponse, len(tasks))
	for i := range tasks {
		response[i] = toTaskResponse(&tasks[i])
	}
	c.JSON(http.StatusOK, response)
}

// Update merges fields; sprint moves and date changes re-run the containment
// check.
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	sprintID, ok := parseOptionalUUID(c, req.SprintID, "sprint ID")
	if !ok {
		return
	}
	assigneeID, ok := parseOptionalUUID(c, req.AssigneeID, "assignee ID")
	if !ok {
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), taskID, userID, service.TaskUpdate{
		Title:         req.Title,
		Description:   req.Description,
		Status:        req.Status,
		StoryPoints:   req.StoryPoints,
		StartDate:     req.StartDate,
		DueDate:       req.DueDate,
		SprintID:      sprintID,
		ClearSprint:   req.ClearSprint,
		AssigneeID:    assigneeID,
		ClearAssignee: req.ClearAssignee,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskResponse(task))
}

func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), taskID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
