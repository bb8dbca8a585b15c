package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/orgtrack/orgtrack/pkg/model"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) Create(ctx context.Context, department *model.Department) error {
	return r.db.WithContext(ctx).Create(department).Error
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id string) (*model.Department, error) {
	var department model.Department
	err := r.db.WithContext(ctx).
		Preload("Head").
		First(&department, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &department, nil
}

func (r *DepartmentRepository) Update(ctx context.Context, department *model.Department) error {
	return r.db.WithContext(ctx).Save(department).Error
}

// Delete removes the department; employees and their tasks, time logs,
// goals and journal entries go with it through the FK cascade.
func (r *DepartmentRepository) Delete(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&model.Department{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

func (r *DepartmentRepository) List(ctx context.Context) ([]model.Department, error) {
	var departments []model.Department
	err := r.db.WithContext(ctx).
		Preload("Head").
		Order("name ASC").
		Find(&departments).Error
	return departments, err
}
