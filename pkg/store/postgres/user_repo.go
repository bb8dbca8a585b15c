package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/orgtrack/orgtrack/pkg/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&total).Error
	return total, err
}

// List returns one page of users ordered by username. The requested page is
// clamped to the last valid page; the page actually served is returned.
func (r *UserRepository) List(ctx context.Context, page, pageSize int) ([]model.User, int64, int, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, 0, err
	}

	page, pageSize = clampPage(page, pageSize, total)

	var users []model.User
	err := r.db.WithContext(ctx).
		Order("username ASC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&users).Error

	return users, total, page, err
}
