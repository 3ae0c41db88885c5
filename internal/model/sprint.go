package model

import (
	"time"

	"github.com/google/uuid"
)

// Work item statuses, shared by sprints and tasks.
const (
	StatusToDo       = "TO_DO"
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
)

// Sprint lives in the task store. ProjectID references the project store by
// id only.
type Sprint struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"not null"`
	StartDate time.Time `gorm:"not null"`
	EndDate   time.Time `gorm:"not null"`
	Status    string    `gorm:"not null;check:status IN ('TO_DO', 'IN_PROGRESS', 'DONE')"`
}
