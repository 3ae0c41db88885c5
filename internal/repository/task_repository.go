package repository

import (
	"context"
	"errors"

	"sprintdeck/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) GetByProject(ctx context.Context, projectID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("created_at").Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) GetBySprint(ctx context.Context, sprintID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).Where("sprint_id = ?", sprintID).Order("created_at").Find(&tasks).Error
	return tasks, err
}

// CountUnfinishedBySprint counts tasks in the sprint that are not DONE yet.
// The sprint may only complete when this reaches zero.
func (r *TaskRepository) CountUnfinishedBySprint(ctx context.Context, sprintID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("sprint_id = ? AND status <> ?", sprintID, model.StatusDone).
		Count(&count).Error
	return count, err
}

func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id).Error
}

// DetachSprint clears the weak sprint reference on every task linked to the
// sprint. Tasks survive their sprint's deletion.
func (r *TaskRepository) DetachSprint(ctx context.Context, sprintID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Task{}).
		Where("sprint_id = ?", sprintID).
		Update("sprint_id", nil).Error
}

// ClearAssignee drops the assignee reference from every task assigned to the
// user. Clearing when nothing is assigned is a no-op, which keeps the
// deletion saga re-runnable.
func (r *TaskRepository) ClearAssignee(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Task{}).
		Where("assignee_id = ?", userID).
		Update("assignee_id", nil).Error
}

func (r *TaskRepository) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&model.Task{}).Error
}
