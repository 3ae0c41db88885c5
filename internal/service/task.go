package service

import (
	"context"
	"fmt"
	"time"

	"sprintdeck/internal/model"

	"github.com/google/uuid"
)

// TaskService owns task CRUD in the task store and implements the two
// contracts the other stores consume: DeleteProjectRelatedItems and
// ClearAssignee.
type TaskService struct {
	tasks   TaskStore
	sprints SprintStore
	access  ProjectAccess
}

func NewTaskService(tasks TaskStore, sprints SprintStore, access ProjectAccess) *TaskService {
	return &TaskService{
		tasks:   tasks,
		sprints: sprints,
		access:  access,
	}
}

var _ ProjectPurger = (*TaskService)(nil)

type TaskInput struct {
	Title       string
	Description string
	Status      string
	StoryPoints int
	StartDate   time.Time
	DueDate     time.Time
	SprintID    *uuid.UUID
	AssigneeID  *uuid.UUID
}

// TaskUpdate merges non-nil fields. ClearSprint/ClearAssignee drop the
// respective reference; they win over the corresponding id field.
type TaskUpdate struct {
	Title         *string
	Description   *string
	Status        *string
	StoryPoints   *int
	StartDate     *time.Time
	DueDate       *time.Time
	SprintID      *uuid.UUID
	ClearSprint   bool
	AssigneeID    *uuid.UUID
	ClearAssignee bool
}

func (s *TaskService) Create(ctx context.Context, projectID, requestedBy uuid.UUID, in TaskInput) (*model.Task, error) {
	if err := s.requireMember(ctx, projectID, requestedBy); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = model.StatusToDo
	}
	task := &model.Task{
		ProjectID:   projectID,
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		StoryPoints: in.StoryPoints,
		StartDate:   in.StartDate,
		DueDate:     in.DueDate,
		SprintID:    in.SprintID,
		AssigneeID:  in.AssigneeID,
	}

	sprint, err := s.resolveSprint(ctx, projectID, in.SprintID)
	if err != nil {
		return nil, err
	}
	if in.AssigneeID != nil {
		if err := s.requireAssigneeMember(ctx, projectID, *in.AssigneeID); err != nil {
			return nil, err
		}
	}
	if err := ValidateTaskDates(task, sprint); err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Get(ctx context.Context, taskID, requestedBy uuid.UUID) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("%w: task %s", ErrNotFound, taskID)
	}
	if err := s.requireMember(ctx, task.ProjectID, requestedBy); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) ListByProject(ctx context.Context, projectID, requestedBy uuid.UUID) ([]model.Task, error) {
	if err := s.requireMember(ctx, projectID, requestedBy); err != nil {
		return nil, err
	}
	return s.tasks.GetByProject(ctx, projectID)
}

func (s *TaskService) ListBySprint(ctx context.Context, sprintID, requestedBy uuid.UUID) ([]model.Task, error) {
	sprint, err := s.sprints.GetByID(ctx, sprintID)
	if err != nil {
		return nil, err
	}
	if sprint == nil {
		return nil, fmt.Errorf("%w: sprint %s", ErrNotFound, sprintID)
	}
	if err := s.requireMember(ctx, sprint.ProjectID, requestedBy); err != nil {
		return nil, err
	}
	return s.tasks.GetBySprint(ctx, sprintID)
}

// Update merges the non-nil fields. Moving the task between sprints or
// touching its dates re-triggers the date-containment check against the
// sprint it ends up linked to.
func (s *TaskService) Update(ctx context.Context, taskID, requestedBy uuid.UUID, upd TaskUpdate) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("%w: task %s", ErrNotFound, taskID)
	}
	if err := s.requireMember(ctx, task.ProjectID, requestedBy); err != nil {
		return nil, err
	}

	if upd.Title != nil {
		task.Title = *upd.Title
	}
	if upd.Description != nil {
		task.Description = *upd.Description
	}
	if upd.Status != nil {
		task.Status = *upd.Status
	}
	if upd.StoryPoints != nil {
		task.StoryPoints = *upd.StoryPoints
	}
	if upd.StartDate != nil {
		task.StartDate = *upd.StartDate
	}
	if upd.DueDate != nil {
		task.DueDate = *upd.DueDate
	}

	switch {
	case upd.ClearSprint:
		task.SprintID = nil
	case upd.SprintID != nil:
		task.SprintID = upd.SprintID
	}
	sprint, err := s.resolveSprint(ctx, task.ProjectID, task.SprintID)
	if err != nil {
		return nil, err
	}

	switch {
	case upd.ClearAssignee:
		task.AssigneeID = nil
	case upd.AssigneeID != nil:
		if err := s.requireAssigneeMember(ctx, task.ProjectID, *upd.AssigneeID); err != nil {
			return nil, err
		}
		task.AssigneeID = upd.AssigneeID
	}

	if err := ValidateTaskDates(task, sprint); err != nil {
		return nil, err
	}
	task.UpdatedAt = time.Now().UTC()

	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, taskID, requestedBy uuid.UUID) error {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if task == nil {
		return fmt.Errorf("%w: task %s", ErrNotFound, taskID)
	}
	if err := s.requireMember(ctx, task.ProjectID, requestedBy); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, taskID)
}

// DeleteProjectRelatedItems removes the project's footprint in the task
// store: tasks first, then sprints. Both deletes are no-ops on re-run.
func (s *TaskService) DeleteProjectRelatedItems(ctx context.Context, projectID uuid.UUID) error {
	if err := s.tasks.DeleteByProject(ctx, projectID); err != nil {
		return fmt.Errorf("delete tasks of project %s: %w", projectID, err)
	}
	if err := s.sprints.DeleteByProject(ctx, projectID); err != nil {
		return fmt.Errorf("delete sprints of project %s: %w", projectID, err)
	}
	return nil
}

// ClearAssignee drops the user's assignee references. Tasks are never
// deleted on account of their assignee going away.
func (s *TaskService) ClearAssignee(ctx context.Context, userID uuid.UUID) error {
	return s.tasks.ClearAssignee(ctx, userID)
}

// resolveSprint loads the sprint behind a weak reference and checks it
// belongs to the task's project. A nil id resolves to no sprint.
func (s *TaskService) resolveSprint(ctx context.Context, projectID uuid.UUID, sprintID *uuid.UUID) (*model.Sprint, error) {
	if sprintID == nil {
		return nil, nil
	}
	sprint, err := s.sprints.GetByID(ctx, *sprintID)
	if err != nil {
		return nil, err
	}
	if sprint == nil {
		return nil, fmt.Errorf("%w: sprint %s", ErrNotFound, *sprintID)
	}
	if sprint.ProjectID != projectID {
		return nil, fmt.Errorf("%w: sprint belongs to a different project", ErrInvalidOperation)
	}
	return sprint, nil
}

func (s *TaskService) requireMember(ctx context.Context, projectID, userID uuid.UUID) error {
	ok, err := s.access.IsMember(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: user is not a member of this project", ErrForbidden)
	}
	return nil
}

func (s *TaskService) requireAssigneeMember(ctx context.Context, projectID, assigneeID uuid.UUID) error {
	ok, err := s.access.IsMember(ctx, projectID, assigneeID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: assignee must be a project member", ErrPreconditionFailed)
	}
	return nil
}
