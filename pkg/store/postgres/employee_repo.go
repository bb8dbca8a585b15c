package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/orgtrack/orgtrack/pkg/model"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Create(ctx context.Context, employee *model.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Department").
		First(&employee, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// GetByUserID resolves the caller's own employee record. Handlers use this
// instead of trusting employee ids from the request body.
func (r *EmployeeRepository) GetByUserID(ctx context.Context, userID string) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).First(&employee, "user_id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *EmployeeRepository) ExistsForUser(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Employee{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count > 0, err
}

func (r *EmployeeRepository) List(ctx context.Context, page, pageSize int) ([]model.Employee, int64, int, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Employee{}).Count(&total).Error; err != nil {
		return nil, 0, 0, err
	}

	page, pageSize = clampPage(page, pageSize, total)

	var employees []model.Employee
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Department").
		Order("created_at ASC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&employees).Error

	return employees, total, page, err
}
