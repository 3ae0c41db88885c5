package repository

import (
	"context"
	"errors"

	"sprintdeck/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SprintRepository struct {
	db *gorm.DB
}

func NewSprintRepository(db *gorm.DB) *SprintRepository {
	return &SprintRepository{db: db}
}

func (r *SprintRepository) Create(ctx context.Context, sprint *model.Sprint) error {
	return r.db.WithContext(ctx).Create(sprint).Error
}

func (r *SprintRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Sprint, error) {
	var sprint model.Sprint
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&sprint).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sprint, nil
}

func (r *SprintRepository) GetByProject(ctx context.Context, projectID uuid.UUID) ([]model.Sprint, error) {
	var sprints []model.Sprint
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("start_date").Find(&sprints).Error
	return sprints, err
}

func (r *SprintRepository) Save(ctx context.Context, sprint *model.Sprint) error {
	return r.db.WithContext(ctx).Save(sprint).Error
}

func (r *SprintRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Sprint{}, "id = ?", id).Error
}

func (r *SprintRepository) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&model.Sprint{}).Error
}
