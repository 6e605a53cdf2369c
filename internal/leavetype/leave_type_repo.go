package leavetype

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_type_repo.go -destination=mock/leave_type_repo_mock.go -package=mock
type Repository interface {
	FindByID(ctx context.Context, id string) (*LeaveType, error)
	FindByName(ctx context.Context, name string) (*LeaveType, error)
	FindByCode(ctx context.Context, code string) (*LeaveType, error)
	FindActive(ctx context.Context) ([]LeaveType, error)
	ListNames(ctx context.Context) ([]string, error)
	Create(ctx context.Context, t *LeaveType) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveType, error) {
	var t LeaveType
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	return &t, err
}

func (r *repository) FindByName(ctx context.Context, name string) (*LeaveType, error) {
	var t LeaveType
	err := r.db.WithContext(ctx).First(&t, "name = ?", name).Error
	return &t, err
}

func (r *repository) FindByCode(ctx context.Context, code string) (*LeaveType, error) {
	var t LeaveType
	err := r.db.WithContext(ctx).First(&t, "code = ?", code).Error
	return &t, err
}

func (r *repository) FindActive(ctx context.Context) ([]LeaveType, error) {
	var types []LeaveType
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&types).Error
	return types, err
}

func (r *repository) ListNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&LeaveType{}).
		Where("active = ?", true).
		Order("name ASC").
		Pluck("name", &names).Error
	return names, err
}

func (r *repository) Create(ctx context.Context, t *LeaveType) error {
	return r.db.WithContext(ctx).Create(t).Error
}
