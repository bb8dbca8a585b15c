package model

import (
	"time"

	"github.com/google/uuid"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID           uuid.UUID    `gorm:"type:uuid;primary_key"`
	Title        string       `gorm:"not null"`
	Description  string       `gorm:"not null"`
	AssignedToID uuid.UUID    `gorm:"type:uuid;not null;index"`
	AssignedTo   *Employee    `gorm:"foreignKey:AssignedToID"`
	DueDate      time.Time    `gorm:"type:date;not null"`
	Completed    bool         `gorm:"default:false"`
	Priority     TaskPriority `gorm:"type:varchar(6);default:'Medium'"`
	TimeLogs     []TimeLog    `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
