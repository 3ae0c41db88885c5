package service

import (
	"context"

	"sprintdeck/internal/model"

	"github.com/google/uuid"
)

// The three stores are independently owned and only ever reached through
// these synchronous contracts. Services hold the narrowest interface that
// covers their calls; the gorm repositories satisfy them in production and
// tests swap in fakes.

// UserDirectory is the consumed slice of the user store.
type UserDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// UserStore extends the directory with the mutations the deletion saga needs.
type UserStore interface {
	UserDirectory
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProjectStore interface {
	CreateWithOwner(ctx context.Context, project *model.Project, owner *model.Membership) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Project, error)
	Save(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type MembershipStore interface {
	Insert(ctx context.Context, membership *model.Membership) error
	Active(ctx context.Context, projectID, userID uuid.UUID) (*model.Membership, error)
	ActiveByProject(ctx context.Context, projectID uuid.UUID) ([]model.Membership, error)
	ActiveByUser(ctx context.Context, userID uuid.UUID) ([]model.Membership, error)
	AllByProject(ctx context.Context, projectID uuid.UUID) ([]model.Membership, error)
	SoftDelete(ctx context.Context, id uint) error
	DeleteByProject(ctx context.Context, projectID uuid.UUID) error
}

type SprintStore interface {
	Create(ctx context.Context, sprint *model.Sprint) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Sprint, error)
	GetByProject(ctx context.Context, projectID uuid.UUID) ([]model.Sprint, error)
	Save(ctx context.Context, sprint *model.Sprint) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByProject(ctx context.Context, projectID uuid.UUID) error
}

type TaskStore interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	GetByProject(ctx context.Context, projectID uuid.UUID) ([]model.Task, error)
	GetBySprint(ctx context.Context, sprintID uuid.UUID) ([]model.Task, error)
	CountUnfinishedBySprint(ctx context.Context, sprintID uuid.UUID) (int64, error)
	Save(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	DetachSprint(ctx context.Context, sprintID uuid.UUID) error
	ClearAssignee(ctx context.Context, userID uuid.UUID) error
	DeleteByProject(ctx context.Context, projectID uuid.UUID) error
}

// ProjectPurger is the consumed slice of the task store: remove a project's
// footprint, or a user's assignee references. TaskService implements it.
type ProjectPurger interface {
	DeleteProjectRelatedItems(ctx context.Context, projectID uuid.UUID) error
	ClearAssignee(ctx context.Context, userID uuid.UUID) error
}

// ProjectAccess is the authorization contract exposed by the project store's
// side of the house to the task-store services.
type ProjectAccess interface {
	IsMember(ctx context.Context, projectID, userID uuid.UUID) (bool, error)
}

// SuccessorPicker decides the next owner when the current one is removed.
type SuccessorPicker interface {
	ChooseSuccessor(ctx context.Context, projectID, excluding uuid.UUID) (uuid.UUID, bool, error)
}
