package model

import (
	"time"

	"github.com/google/uuid"
)

type Department struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key"`
	Name      string     `gorm:"not null"`
	HeadID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Head      *User      `gorm:"foreignKey:HeadID;constraint:OnDelete:CASCADE"`
	Employees []Employee `gorm:"foreignKey:DepartmentID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
