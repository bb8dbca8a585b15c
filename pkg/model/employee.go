package model

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex"`
	User           *User          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	DepartmentID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	Department     *Department    `gorm:"foreignKey:DepartmentID"`
	DateJoined     time.Time      `gorm:"type:date;not null"`
	Position       string         `gorm:"not null"`
	IsActive       bool           `gorm:"default:true"`
	Tasks          []Task         `gorm:"foreignKey:AssignedToID;constraint:OnDelete:CASCADE"`
	TimeLogs       []TimeLog      `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
	Goals          []Goal         `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
	JournalEntries []JournalEntry `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
