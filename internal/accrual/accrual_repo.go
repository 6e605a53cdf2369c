package accrual

import (
	"context"
	"database/sql"
	"time"

	"go-leave/internal/shared/connection"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=accrual_repo.go -destination=mock/accrual_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *AccrualEntry) error
	// ExistsInPeriod reports whether an entry with the given status was
	// already written for [from, to). This is the engine's idempotency
	// guard; the unique index is the backstop.
	ExistsInPeriod(ctx context.Context, userID, leaveTypeID, status string, from, to time.Time) (bool, error)
	// SumActiveUnexpired totals days of ACTIVE entries whose expiry lies
	// after the cutoff, the carryover-eligible amount at year end.
	SumActiveUnexpired(ctx context.Context, userID, leaveTypeID string, cutoff time.Time) (decimal.Decimal, error)
	FindByUser(ctx context.Context, userID string) ([]AccrualEntry, error)
	// ExpireOutdated flips ACTIVE entries whose expiry has passed to
	// EXPIRED and returns how many rows changed.
	ExpireOutdated(ctx context.Context, now time.Time) (int64, error)
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

func (r *repository) Create(ctx context.Context, e *AccrualEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) ExistsInPeriod(ctx context.Context, userID, leaveTypeID, status string, from, to time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&AccrualEntry{}).
		Where("user_id = ?", userID).
		Where("leave_type_id = ?", leaveTypeID).
		Where("status = ?", status).
		Where("accrual_date >= ? AND accrual_date < ?", from, to).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) SumActiveUnexpired(ctx context.Context, userID, leaveTypeID string, cutoff time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&AccrualEntry{}).
		Select("SUM(days_accrued)").
		Where("user_id = ?", userID).
		Where("leave_type_id = ?", leaveTypeID).
		Where("status = ?", StatusActive).
		Where("expiry_date > ?", cutoff).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *repository) FindByUser(ctx context.Context, userID string) ([]AccrualEntry, error) {
	var entries []AccrualEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("accrual_date DESC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) ExpireOutdated(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&AccrualEntry{}).
		Where("status = ?", StatusActive).
		Where("expiry_date <= ?", now).
		Update("status", StatusExpired)
	return res.RowsAffected, res.Error
}
