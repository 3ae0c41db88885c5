package service

import (
	"context"
	"fmt"
	"log"

	"sprintdeck/internal/model"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

// UserService runs the cascading deletion saga: remove a user's footprint
// from all three stores, or transfer project ownership where the project can
// survive. The stores share no transaction log, so every step is written to
// be safe to re-run and the caller retries the whole operation on a partial
// failure.
type UserService struct {
	users      UserStore
	projects   ProjectStore
	members    MembershipStore
	taskStore  ProjectPurger
	succession SuccessorPicker
}

func NewUserService(users UserStore, projects ProjectStore, members MembershipStore, taskStore ProjectPurger, succession SuccessorPicker) *UserService {
	return &UserService{
		users:      users,
		projects:   projects,
		members:    members,
		taskStore:  taskStore,
		succession: succession,
	}
}

// DeleteUser removes the user everywhere, in this order:
//
//  1. owned projects are either handed to a successor or, when the owner is
//     the sole member, deleted together with their sprints and tasks;
//  2. the user's remaining membership rows are soft-deleted;
//  3. the task store clears the user's assignee references;
//  4. the user row itself goes last, and only if everything above succeeded.
//
// Without force, owning any project is a Conflict: cascading past ownership
// must be an explicit caller decision. Per-store failures are collected and
// returned as one aggregated error; the user row stays so the caller can
// retry, and every step tolerates the partial progress of a previous run.
func (s *UserService) DeleteUser(ctx context.Context, userID uuid.UUID, force bool) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	owned, err := s.projects.FindByOwner(ctx, userID)
	if err != nil {
		return err
	}
	if !force && len(owned) > 0 {
		return fmt.Errorf("%w: user owns projects, force delete to proceed", ErrConflict)
	}

	var errs *multierror.Error
	for i := range owned {
		if err := s.releaseProject(ctx, &owned[i], userID); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("project %s: %w", owned[i].ID, err))
		}
	}

	memberships, err := s.members.ActiveByUser(ctx, userID)
	if err != nil {
		errs = multierror.Append(errs, fmt.Errorf("list memberships: %w", err))
	} else {
		for _, m := range memberships {
			if err := s.members.SoftDelete(ctx, m.ID); err != nil {
				errs = multierror.Append(errs, fmt.Errorf("leave project %s: %w", m.ProjectID, err))
			}
		}
	}

	if err := s.taskStore.ClearAssignee(ctx, userID); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("clear assignee: %w", err))
	}

	if err := errs.ErrorOrNil(); err != nil {
		log.Printf("deleteUser %s left partial state, caller should retry: %v", userID, err)
		return err
	}
	return s.users.Delete(ctx, userID)
}

// releaseProject resolves one owned project: promote the earliest remaining
// member, or delete the project outright when nobody is left. Once this
// starts mutating the project it runs to completion or reports a retryable
// error; there is no rollback of store-local writes.
func (s *UserService) releaseProject(ctx context.Context, project *model.Project, ownerID uuid.UUID) error {
	successorID, ok, err := s.succession.ChooseSuccessor(ctx, project.ID, ownerID)
	if err != nil {
		return err
	}
	if !ok {
		// Sole member: the project cannot survive. Children first, then
		// membership rows, then the project itself, so a retry after a
		// mid-way failure finds only work that is still undone.
		if err := s.taskStore.DeleteProjectRelatedItems(ctx, project.ID); err != nil {
			return err
		}
		if err := s.members.DeleteByProject(ctx, project.ID); err != nil {
			return err
		}
		return s.projects.Delete(ctx, project.ID)
	}

	project.OwnerID = successorID
	return s.projects.Save(ctx, project)
}
