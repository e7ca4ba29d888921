package models

import "gorm.io/gorm"

type Task struct {
	gorm.Model

	Title        string `gorm:"not null"`
	Description  string
	ProjectID    uint  `gorm:"not null;index"`
	AssignedToID *uint `gorm:"index"`
	CreatedByID  uint  `gorm:"not null;index"`

	// Relationships
	Project    Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	AssignedTo *User   `gorm:"foreignKey:AssignedToID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	CreatedBy  User    `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
