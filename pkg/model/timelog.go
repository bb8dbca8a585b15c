package model

import (
	"time"

	"github.com/google/uuid"
)

type TimeLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	TaskID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Task       *Task     `gorm:"foreignKey:TaskID"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index"`
	Employee   *Employee `gorm:"foreignKey:EmployeeID"`
	StartTime  time.Time `gorm:"not null"`
	EndTime    time.Time `gorm:"not null"`
	// Duration is derived from EndTime - StartTime at creation, never
	// taken from the client.
	Duration  time.Duration `gorm:"not null"`
	CreatedAt time.Time
}
