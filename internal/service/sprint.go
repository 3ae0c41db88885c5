package service

import (
	"context"
	"fmt"
	"time"

	"sprintdeck/internal/model"

	"github.com/google/uuid"
)

// SprintService owns sprint CRUD in the task store. Every mutation checks
// project membership through the project store's access contract and passes
// the lifecycle guards before writing.
type SprintService struct {
	sprints SprintStore
	tasks   TaskStore
	access  ProjectAccess
}

func NewSprintService(sprints SprintStore, tasks TaskStore, access ProjectAccess) *SprintService {
	return &SprintService{
		sprints: sprints,
		tasks:   tasks,
		access:  access,
	}
}

type SprintInput struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

type SprintUpdate struct {
	Name      *string
	StartDate *time.Time
	EndDate   *time.Time
	Status    *string
}

// SprintRollup carries the sprint plus its story-point totals computed from
// the linked tasks.
type SprintRollup struct {
	Sprint               model.Sprint
	TotalStoryPoints     int
	CompletedStoryPoints int
}

func (s *SprintService) Create(ctx context.Context, projectID, requestedBy uuid.UUID, in SprintInput) (*model.Sprint, error) {
	if err := s.requireMember(ctx, projectID, requestedBy); err != nil {
		return nil, err
	}
	if err := ValidateSprintWindow(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}

	sprint := &model.Sprint{
		ProjectID: projectID,
		Name:      in.Name,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Status:    model.StatusToDo,
	}
	if err := s.sprints.Create(ctx, sprint); err != nil {
		return nil, err
	}
	return sprint, nil
}

func (s *SprintService) Get(ctx context.Context, sprintID, requestedBy uuid.UUID) (*SprintRollup, error) {
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
	return s.rollup(ctx, *sprint)
}

func (s *SprintService) ListByProject(ctx context.Context, projectID, requestedBy uuid.UUID) ([]SprintRollup, error) {
	if err := s.requireMember(ctx, projectID, requestedBy); err != nil {
		return nil, err
	}
	sprints, err := s.sprints.GetByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	rollups := make([]SprintRollup, 0, len(sprints))
	for _, sprint := range sprints {
		r, err := s.rollup(ctx, sprint)
		if err != nil {
			return nil, err
		}
		rollups = append(rollups, *r)
	}
	return rollups, nil
}

// Update merges the non-nil fields. A status change runs through the
// transition table, and completing the sprint additionally requires every
// linked task to be DONE.
func (s *SprintService) Update(ctx context.Context, sprintID, requestedBy uuid.UUID, upd SprintUpdate) (*model.Sprint, error) {
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

	if upd.Status != nil {
		if err := ValidateSprintTransition(sprint.Status, *upd.Status); err != nil {
			return nil, err
		}
		if *upd.Status == model.StatusDone && sprint.Status != model.StatusDone {
			unfinished, err := s.tasks.CountUnfinishedBySprint(ctx, sprintID)
			if err != nil {
				return nil, err
			}
			if unfinished > 0 {
				return nil, fmt.Errorf("%w: %d task(s) still open", ErrIncompleteChildren, unfinished)
			}
		}
		sprint.Status = *upd.Status
	}
	if upd.Name != nil {
		sprint.Name = *upd.Name
	}
	if upd.StartDate != nil {
		sprint.StartDate = *upd.StartDate
	}
	if upd.EndDate != nil {
		sprint.EndDate = *upd.EndDate
	}
	if err := ValidateSprintWindow(sprint.StartDate, sprint.EndDate); err != nil {
		return nil, err
	}

	if err := s.sprints.Save(ctx, sprint); err != nil {
		return nil, err
	}
	return sprint, nil
}

// Delete detaches the sprint's tasks first (the task→sprint link is a weak
// reference, tasks themselves survive) and then removes the sprint.
func (s *SprintService) Delete(ctx context.Context, sprintID, requestedBy uuid.UUID) error {
	sprint, err := s.sprints.GetByID(ctx, sprintID)
	if err != nil {
		return err
	}
	if sprint == nil {
		return fmt.Errorf("%w: sprint %s", ErrNotFound, sprintID)
	}
	if err := s.requireMember(ctx, sprint.ProjectID, requestedBy); err != nil {
		return err
	}

	if err := s.tasks.DetachSprint(ctx, sprintID); err != nil {
		return err
	}
	return s.sprints.Delete(ctx, sprintID)
}

func (s *SprintService) rollup(ctx context.Context, sprint model.Sprint) (*SprintRollup, error) {
	tasks, err := s.tasks.GetBySprint(ctx, sprint.ID)
	if err != nil {
		return nil, err
	}
	r := &SprintRollup{Sprint: sprint}
	for _, task := range tasks {
		r.TotalStoryPoints += task.StoryPoints
		if task.Status == model.StatusDone {
			r.CompletedStoryPoints += task.StoryPoints
		}
	}
	return r, nil
}

func (s *SprintService) requireMember(ctx context.Context, projectID, userID uuid.UUID) error {
	ok, err := s.access.IsMember(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: user is not a member of this project", ErrForbidden)
	}
	return nil
}
