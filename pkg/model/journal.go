package model

import (
	"time"

	"github.com/google/uuid"
)

type JournalEntry struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_journal_employee_date"`
	Employee   *Employee `gorm:"foreignKey:EmployeeID"`
	EntryDate  time.Time `gorm:"type:date;not null;uniqueIndex:idx_journal_employee_date"`
	Content    string    `gorm:"not null"`
	CreatedAt  time.Time
}
