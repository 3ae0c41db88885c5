package service

import (
	"context"
	"fmt"
	"time"

	"sprintdeck/internal/model"

	"github.com/google/uuid"
)

// ProjectService owns project-level CRUD in the project store. Creation and
// deletion are the two operations that reach across stores: creation checks
// the owner against the user store, deletion delegates the sprint/task purge
// to the task store before dropping local rows.
type ProjectService struct {
	projects ProjectStore
	members  MembershipStore
	users    UserDirectory
	tasks    ProjectPurger
}

func NewProjectService(projects ProjectStore, members MembershipStore, users UserDirectory, tasks ProjectPurger) *ProjectService {
	return &ProjectService{
		projects: projects,
		members:  members,
		users:    users,
		tasks:    tasks,
	}
}

type ProjectInput struct {
	Name        string
	Description string
}

type ProjectUpdate struct {
	Name        *string
	Description *string
	Status      *string
}

// CreateProject creates the project and the owner's own membership row in a
// single store transaction. Succession assumes the owner is always present in
// the membership set, so a project must never exist without that row, even
// transiently.
func (s *ProjectService) CreateProject(ctx context.Context, ownerID uuid.UUID, in ProjectInput) (*model.Project, error) {
	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, ownerID)
	}

	project := &model.Project{
		Name:        in.Name,
		Description: in.Description,
		Status:      model.ProjectInProgress,
		OwnerID:     ownerID,
	}
	membership := &model.Membership{
		UserID:   ownerID,
		JoinedAt: time.Now().UTC(),
	}
	if err := s.projects.CreateWithOwner(ctx, project, membership); err != nil {
		return nil, err
	}
	return project, nil
}

// Get returns the project to any of its members.
func (s *ProjectService) Get(ctx context.Context, projectID, requestedBy uuid.UUID) (*model.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, projectID)
	}
	if err := s.requireMember(ctx, project, requestedBy); err != nil {
		return nil, err
	}
	return project, nil
}

// ListForUser returns every project the user holds an active membership in,
// in join order. Owned projects are included through the owner's own row.
func (s *ProjectService) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Project, error) {
	memberships, err := s.members.ActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	projects := make([]model.Project, 0, len(memberships))
	for _, m := range memberships {
		project, err := s.projects.GetByID(ctx, m.ProjectID)
		if err != nil {
			return nil, err
		}
		if project != nil {
			projects = append(projects, *project)
		}
	}
	return projects, nil
}

func (s *ProjectService) ListOwned(ctx context.Context, ownerID uuid.UUID) ([]model.Project, error) {
	return s.projects.FindByOwner(ctx, ownerID)
}

// Update merges the non-nil fields. Any member may update the project.
func (s *ProjectService) Update(ctx context.Context, projectID, requestedBy uuid.UUID, upd ProjectUpdate) (*model.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, projectID)
	}
	if err := s.requireMember(ctx, project, requestedBy); err != nil {
		return nil, err
	}

	if upd.Name != nil {
		project.Name = *upd.Name
	}
	if upd.Description != nil {
		project.Description = *upd.Description
	}
	if upd.Status != nil {
		if *upd.Status != model.ProjectInProgress && *upd.Status != model.ProjectDone {
			return nil, fmt.Errorf("%w: unknown project status %q", ErrInvalidTransition, *upd.Status)
		}
		project.Status = *upd.Status
	}
	if err := s.projects.Save(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes the project and its whole footprint: the task store's
// sprints and tasks first, then the membership rows, then the project row.
// Owner only. Each step is safe to re-run if a later one fails.
func (s *ProjectService) Delete(ctx context.Context, projectID, requestedBy uuid.UUID) error {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project == nil {
		return fmt.Errorf("%w: project %s", ErrNotFound, projectID)
	}
	if project.OwnerID != requestedBy {
		return fmt.Errorf("%w: only the project owner can delete the project", ErrForbidden)
	}

	if err := s.tasks.DeleteProjectRelatedItems(ctx, projectID); err != nil {
		return fmt.Errorf("delete project %s related items: %w", projectID, err)
	}
	if err := s.members.DeleteByProject(ctx, projectID); err != nil {
		return fmt.Errorf("delete project %s memberships: %w", projectID, err)
	}
	return s.projects.Delete(ctx, projectID)
}

func (s *ProjectService) requireMember(ctx context.Context, project *model.Project, userID uuid.UUID) error {
	if project.OwnerID == userID {
		return nil
	}
	membership, err := s.members.Active(ctx, project.ID, userID)
	if err != nil {
		return err
	}
	if membership == nil {
		return fmt.Errorf("%w: user is not a member of this project", ErrForbidden)
	}
	return nil
}
