package model

import (
	"time"

	"github.com/google/uuid"
)

type Goal struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Employee    *Employee `gorm:"foreignKey:EmployeeID"`
	Title       string    `gorm:"not null"`
	Description string    `gorm:"not null"`
	TargetDate  time.Time `gorm:"type:date;not null"`
	Achieved    bool      `gorm:"default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
