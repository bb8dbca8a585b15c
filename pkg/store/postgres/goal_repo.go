package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/orgtrack/orgtrack/pkg/model"
)

type GoalRepository struct {
	db *gorm.DB
}

func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

func (r *GoalRepository) Create(ctx context.Context, goal *model.Goal) error {
	return r.db.WithContext(ctx).Create(goal).Error
}

func (r *GoalRepository) ListByEmployee(ctx context.Context, employeeID string) ([]model.Goal, error) {
	var goals []model.Goal
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("target_date ASC").
		Find(&goals).Error
	return goals, err
}

type JournalRepository struct {
	db *gorm.DB
}

func NewJournalRepository(db *gorm.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

func (r *JournalRepository) Create(ctx context.Context, entry *model.JournalEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *JournalRepository) ExistsForDate(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.JournalEntry{}).
		Where("employee_id = ? AND entry_date = ?", employeeID, date).
		Count(&count).Error
	return count > 0, err
}

func (r *JournalRepository) ListByEmployee(ctx context.Context, employeeID string) ([]model.JournalEntry, error) {
	var entries []model.JournalEntry
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("entry_date DESC").
		Find(&entries).Error
	return entries, err
}
