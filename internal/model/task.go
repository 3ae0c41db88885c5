package model

import (
	"time"

	"github.com/google/uuid"
)

// Task lives in the task store. SprintID is a weak reference: it is cleared,
// never cascaded, when the sprint goes away. AssigneeID points at the user
// store by id only and is likewise cleared when that user is deleted.
type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ProjectID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	SprintID    *uuid.UUID `gorm:"type:uuid;index"`
	AssigneeID  *uuid.UUID `gorm:"type:uuid;index"`
	Title       string     `gorm:"not null"`
	Description string
	Status      string    `gorm:"not null;check:status IN ('TO_DO', 'IN_PROGRESS', 'DONE')"`
	StoryPoints int       `gorm:"not null;default:0"`
	StartDate   time.Time `gorm:"not null"`
	DueDate     time.Time `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time
}
