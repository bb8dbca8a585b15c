package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/orgtrack/orgtrack/pkg/model"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByUser returns tasks assigned to the employee linked to the given
// user, the ownership filter behind the dashboard.
func (r *TaskRepository) ListByUser(ctx context.Context, userID string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Joins("JOIN employees ON employees.id = tasks.assigned_to_id").
		Where("employees.user_id = ?", userID).
		Order("tasks.due_date ASC").
		Find(&tasks).Error
	return tasks, err
}

type TimeLogRepository struct {
	db *gorm.DB
}

func NewTimeLogRepository(db *gorm.DB) *TimeLogRepository {
	return &TimeLogRepository{db: db}
}

func (r *TimeLogRepository) Create(ctx context.Context, log *model.TimeLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *TimeLogRepository) ListByTask(ctx context.Context, taskID string) ([]model.TimeLog, error) {
	var logs []model.TimeLog
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("start_time ASC").
		Find(&logs).Error
	return logs, err
}
