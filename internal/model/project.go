package model

import (
	"time"

	"github.com/google/uuid"
)

// Project statuses
const (
	ProjectInProgress = "IN_PROGRESS"
	ProjectDone       = "DONE"
)

// Project lives in the project store. OwnerID points at a user in the user
// store; there is no cross-store foreign key, only the id.
type Project struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string    `gorm:"not null"`
	Description string
	Status      string    `gorm:"not null;check:status IN ('IN_PROGRESS', 'DONE')"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time
}
