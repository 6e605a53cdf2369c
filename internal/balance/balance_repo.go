package balance

import (
	"context"
	"database/sql"

	"go-leave/internal/shared/connection"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, b *LeaveBalance) error
	FindByUserAndType(ctx context.Context, userID, leaveTypeID string) (*LeaveBalance, error)
	// FindByUserAndTypeForUpdate takes a row-level lock so credit and debit
	// on the same (user, leaveType) pair never interleave. Must be called
	// inside a transaction.
	FindByUserAndTypeForUpdate(ctx context.Context, userID, leaveTypeID string) (*LeaveBalance, error)
	FindAllByUser(ctx context.Context, userID string) ([]LeaveBalance, error)
	Update(ctx context.Context, b *LeaveBalance) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.GORMOverTx(tx)}
}

func (r *repository) Create(ctx context.Context, b *LeaveBalance) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) FindByUserAndType(ctx context.Context, userID, leaveTypeID string) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("leave_type_id = ?", leaveTypeID).
		First(&b).Error
	return &b, err
}

func (r *repository) FindByUserAndTypeForUpdate(ctx context.Context, userID, leaveTypeID string) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Where("leave_type_id = ?", leaveTypeID).
		First(&b).Error
	return &b, err
}

func (r *repository) FindAllByUser(ctx context.Context, userID string) ([]LeaveBalance, error) {
	var balances []LeaveBalance
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&balances).Error
	return balances, err
}

func (r *repository) Update(ctx context.Context, b *LeaveBalance) error {
	return r.db.WithContext(ctx).Save(b).Error
}
