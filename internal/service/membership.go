package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sprintdeck/internal/model"
	"sprintdeck/internal/repository"

	"github.com/google/uuid"
)

// MembershipService is the per-project ledger of who belongs to a project,
// plus the succession rules applied when the owner goes away. Ownership is a
// field on the project, not a membership flag; the owner is implicitly always
// a member.
type MembershipService struct {
	projects ProjectStore
	members  MembershipStore
	users    UserDirectory
}

func NewMembershipService(projects ProjectStore, members MembershipStore, users UserDirectory) *MembershipService {
	return &MembershipService{
		projects: projects,
		members:  members,
		users:    users,
	}
}

var _ ProjectAccess = (*MembershipService)(nil)
var _ SuccessorPicker = (*MembershipService)(nil)

// IsMember reports whether the user holds an active membership or owns the
// project. A missing project is NotFound, not a plain false, so callers can
// distinguish "no such project" from "not allowed in".
func (s *MembershipService) IsMember(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return false, err
	}
	if project == nil {
		return false, fmt.Errorf("%w: project %s", ErrNotFound, projectID)
	}
	if project.OwnerID == userID {
		return true, nil
	}
	membership, err := s.members.Active(ctx, projectID, userID)
	if err != nil {
		return false, err
	}
	return membership != nil, nil
}

// AddMember inserts a fresh membership row for the user. Only the owner may
// add members. Re-adding a previously removed member produces a new row with
// a later JoinedAt on purpose: a returning member must never outrank a
// continuously present one in the succession order.
func (s *MembershipService) AddMember(ctx context.Context, projectID, newUserID, requestedBy uuid.UUID) (*model.Membership, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, projectID)
	}
	if project.OwnerID != requestedBy {
		return nil, fmt.Errorf("%w: only the project owner can add members", ErrForbidden)
	}

	user, err := s.users.GetByID(ctx, newUserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, newUserID)
	}

	membership := &model.Membership{
		ProjectID: projectID,
		UserID:    newUserID,
		JoinedAt:  time.Now().UTC(),
	}
	if err := s.members.Insert(ctx, membership); err != nil {
		if errors.Is(err, repository.ErrDuplicateMembership) {
			return nil, fmt.Errorf("%w: user is already a member of this project", ErrConflict)
		}
		return nil, err
	}
	return membership, nil
}

// RemoveMember soft-deletes the member's row. The owner cannot be removed as
// a plain member; ownership has to be transferred first, or the project
// deleted.
func (s *MembershipService) RemoveMember(ctx context.Context, projectID, memberID, requestedBy uuid.UUID) error {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project == nil {
		return fmt.Errorf("%w: project %s", ErrNotFound, projectID)
	}
	if project.OwnerID != requestedBy {
		return fmt.Errorf("%w: only the project owner can remove members", ErrForbidden)
	}
	if memberID == project.OwnerID {
		return fmt.Errorf("%w: cannot remove the project owner from members", ErrInvalidOperation)
	}

	membership, err := s.members.Active(ctx, projectID, memberID)
	if err != nil {
		return err
	}
	if membership == nil {
		return fmt.Errorf("%w: user %s is not a member of project %s", ErrNotFound, memberID, projectID)
	}
	return s.members.SoftDelete(ctx, membership.ID)
}

// ListMembers returns the project's full membership history, deleted rows
// included. Any member may look.
func (s *MembershipService) ListMembers(ctx context.Context, projectID, requestedBy uuid.UUID) ([]model.Membership, error) {
	ok, err := s.IsMember(ctx, projectID, requestedBy)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: user is not a member of this project", ErrForbidden)
	}
	return s.members.AllByProject(ctx, projectID)
}

// ChooseSuccessor returns the active member with the earliest JoinedAt other
// than the excluded user. The store returns rows ordered by joined_at then by
// serial id, so ties resolve to insertion order. ok is false when no other
// member exists and the project has to be deleted rather than transferred.
func (s *MembershipService) ChooseSuccessor(ctx context.Context, projectID, excluding uuid.UUID) (uuid.UUID, bool, error) {
	memberships, err := s.members.ActiveByProject(ctx, projectID)
	if err != nil {
		return uuid.Nil, false, err
	}
	for _, m := range memberships {
		if m.UserID != excluding {
			return m.UserID, true, nil
		}
	}
	return uuid.Nil, false, nil
}

// TransferOwnership points the project at a new owner. The new owner must
// already hold an active membership. Membership rows are untouched: the old
// owner stays a regular member until explicitly removed.
func (s *MembershipService) TransferOwnership(ctx context.Context, projectID, newOwnerID, requestedBy uuid.UUID) (*model.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, projectID)
	}
	if project.OwnerID != requestedBy {
		return nil, fmt.Errorf("%w: only the project owner can transfer ownership", ErrForbidden)
	}

	membership, err := s.members.Active(ctx, projectID, newOwnerID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, fmt.Errorf("%w: new owner must be an active project member", ErrPreconditionFailed)
	}

	project.OwnerID = newOwnerID
	if err := s.projects.Save(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}
