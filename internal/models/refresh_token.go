package models

import (
	"time"

	"gorm.io/gorm"
)

// RefreshToken is a server-tracked, single-use session record. The row is
// deleted when the token is consumed on refresh or revoked on logout.
type RefreshToken struct {
	gorm.Model

	Token     string    `gorm:"uniqueIndex;not null"`
	UserID    uint      `gorm:"not null;index"`
	ExpiresAt time.Time `gorm:"not null;index"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
