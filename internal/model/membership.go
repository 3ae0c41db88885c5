package model

import (
	"time"

	"github.com/google/uuid"
)

// Membership records that a user joined a project. Rows are soft-deleted so
// join order survives a member leaving and rejoining: succession picks the
// member with the earliest JoinedAt, and a returning member gets a fresh row
// with a later JoinedAt. The serial ID doubles as the insertion-order
// tie-break when two rows share a JoinedAt instant.
type Membership struct {
	ID        uint      `gorm:"primaryKey"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	JoinedAt  time.Time `gorm:"not null"`
	Deleted   bool      `gorm:"not null;default:false"`

	Project Project `gorm:"foreignKey:ProjectID"`
}
