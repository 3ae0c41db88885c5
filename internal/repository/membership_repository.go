package repository

import (
	"context"
	"errors"

	"sprintdeck/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// Insert adds a membership row. The active-pair check is re-validated inside
// a transaction so two concurrent joins cannot both succeed; the partial
// unique index on (project_id, user_id) WHERE NOT deleted backs this up at
// the store level.
func (r *MembershipRepository) Insert(ctx context.Context, membership *model.Membership) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Membership
		err := tx.Where("project_id = ? AND user_id = ? AND deleted = false",
			membership.ProjectID, membership.UserID).First(&existing).Error
		if err == nil {
			return ErrDuplicateMembership
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(membership).Error
	})
}

// Active returns the non-deleted membership for the pair, or nil if none.
func (r *MembershipRepository) Active(ctx context.Context, projectID, userID uuid.UUID) (*model.Membership, error) {
	var membership model.Membership
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ? AND deleted = false", projectID, userID).
		First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// ActiveByProject returns the project's non-deleted memberships in join
// order: joined_at ascending, serial id as the tie-break.
func (r *MembershipRepository) ActiveByProject(ctx context.Context, projectID uuid.UUID) ([]model.Membership, error) {
	var memberships []model.Membership
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND deleted = false", projectID).
		Order("joined_at ASC, id ASC").
		Find(&memberships).Error
	return memberships, err
}

func (r *MembershipRepository) ActiveByUser(ctx context.Context, userID uuid.UUID) ([]model.Membership, error) {
	var memberships []model.Membership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND deleted = false", userID).
		Order("joined_at ASC, id ASC").
		Find(&memberships).Error
	return memberships, err
}

// AllByProject returns every membership row for the project, deleted ones
// included, for the member history view.
func (r *MembershipRepository) AllByProject(ctx context.Context, projectID uuid.UUID) ([]model.Membership, error) {
	var memberships []model.Membership
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("joined_at ASC, id ASC").
		Find(&memberships).Error
	return memberships, err
}

// SoftDelete marks a row deleted; the row itself stays to preserve join
// history. Marking an already-deleted row again is a no-op.
func (r *MembershipRepository) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&model.Membership{}).
		Where("id = ?", id).
		Update("deleted", true).Error
}

// DeleteByProject hard-deletes every membership row of a project. Only used
// when the project itself is being removed.
func (r *MembershipRepository) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&model.Membership{}).Error
}
