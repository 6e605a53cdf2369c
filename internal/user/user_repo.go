package user

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=user_repo.go -destination=mock/user_repo_mock.go -package=mock
type Repository interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindActive(ctx context.Context) ([]User, error)
	FindManagerOf(ctx context.Context, userID string) (*User, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	return &u, err
}

func (r *repository) FindActive(ctx context.Context) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}

func (r *repository) FindManagerOf(ctx context.Context, userID string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	if u.ManagerID == nil {
		return nil, gorm.ErrRecordNotFound
	}

	var manager User
	err = r.db.WithContext(ctx).First(&manager, "id = ?", u.ManagerID.String()).Error
	return &manager, err
}
