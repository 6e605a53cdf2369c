package accrual

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go-leave/internal/balance"
	"go-leave/internal/leavetype"
	"go-leave/internal/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Engine converts elapsed calendar time into entitlement. RunMonthly is
// invoked by the worker at the first instant of each month; re-running it
// for the same month is safe, the period guard and the unique index
// prevent double-granting.
//
//go:generate mockgen -source=accrual_engine.go -destination=mock/accrual_engine_mock.go -package=mock
type Engine interface {
	RunMonthly(ctx context.Context, now time.Time) error
	ExpireOutdated(ctx context.Context, now time.Time) (int64, error)
}

type engine struct {
	db          *sql.DB
	repo        Repository
	balanceRepo balance.Repository
	typeRepo    leavetype.Repository
	userRepo    user.Repository
	rdb         *redis.Client
	logger      *zap.Logger
}

func NewEngine(
	db *sql.DB,
	repo Repository,
	balanceRepo balance.Repository,
	typeRepo leavetype.Repository,
	userRepo user.Repository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Engine {
	l := zap.L().Named("accrual.engine")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("accrual.engine")
	}
	return &engine{
		db:          db,
		repo:        repo,
		balanceRepo: balanceRepo,
		typeRepo:    typeRepo,
		userRepo:    userRepo,
		rdb:         rdb,
		logger:      l,
	}
}

func (e *engine) RunMonthly(ctx context.Context, now time.Time) error {
	monthStart := startOfMonth(now)

	types, err := e.typeRepo.FindActive(ctx)
	if err != nil {
		e.logger.Error("accrual run list leave types failed", zap.Error(err))
		return err
	}

	users, err := e.userRepo.FindActive(ctx)
	if err != nil {
		e.logger.Error("accrual run list users failed", zap.Error(err))
		return err
	}

	e.logger.Info("monthly accrual run started",
		zap.String("period", monthStart.Format("2006-01")),
		zap.Int("users", len(users)),
	)

	var processed, failed int
	for _, u := range users {
		for _, lt := range types {
			if !lt.Accruable() {
				continue
			}
			// Kegagalan satu user tidak boleh menggagalkan batch;
			// entry yang hilang akan dicoba lagi di run berikutnya.
			if err := e.processUserAccrual(ctx, u, lt, monthStart); err != nil {
				failed++
				e.logger.Error("user accrual failed",
					zap.String("user_id", u.ID.String()),
					zap.String("leave_type", lt.Code),
					zap.String("period", monthStart.Format("2006-01")),
					zap.Error(err),
				)
				continue
			}
			processed++
		}
	}

	e.logger.Info("monthly accrual run finished",
		zap.String("period", monthStart.Format("2006-01")),
		zap.Int("processed", processed),
		zap.Int("failed", failed),
	)
	return nil
}

// processUserAccrual grants one user one month of entitlement for one
// leave type inside a single transaction: the January carryover first,
// then the monthly grant, with the balance row locked throughout.
func (e *engine) processUserAccrual(ctx context.Context, u user.User, lt leavetype.LeaveType, monthStart time.Time) error {
	nextMonth := monthStart.AddDate(0, 1, 0)

	exists, err := e.repo.ExistsInPeriod(ctx, u.ID.String(), lt.ID.String(), StatusActive, monthStart, nextMonth)
	if err != nil {
		return err
	}
	if exists {
		e.logger.Debug("accrual already granted for period, skipping",
			zap.String("user_id", u.ID.String()),
			zap.String("leave_type", lt.Code),
			zap.String("period", monthStart.Format("2006-01")),
		)
		return nil
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := e.repo.WithTx(tx)
	qbalance := e.balanceRepo.WithTx(tx)

	b, err := e.lockOrSeedBalance(ctx, qbalance, u, lt)
	if err != nil {
		return err
	}

	if monthStart.Month() == time.January {
		if err := e.handleYearEndCarryover(ctx, qtx, u, lt, b, monthStart, nextMonth); err != nil {
			return err
		}
	}

	entry := &AccrualEntry{
		ID:          uuid.New(),
		UserID:      u.ID,
		LeaveTypeID: lt.ID,
		DaysAccrued: lt.MonthlyAccrual,
		AccrualDate: monthStart,
		ExpiryDate:  monthStart.AddDate(1, 0, 0),
		Status:      StatusActive,
	}
	if err := qtx.Create(ctx, entry); err != nil {
		if isDuplicateAccrual(err) {
			e.logger.Warn("concurrent accrual detected, skipping",
				zap.String("user_id", u.ID.String()),
				zap.String("period", monthStart.Format("2006-01")),
			)
			return nil
		}
		return err
	}

	b.ApplyCredit(lt.MonthlyAccrual, monthStart)
	if err := qbalance.Update(ctx, b); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	e.invalidateBalanceCache(ctx, u.ID.String())

	e.logger.Info("monthly accrual granted",
		zap.String("user_id", u.ID.String()),
		zap.String("leave_type", lt.Code),
		zap.String("days", lt.MonthlyAccrual.String()),
		zap.String("period", monthStart.Format("2006-01")),
	)
	return nil
}

// handleYearEndCarryover sums the still-active prior-cycle grants, caps
// the sum at the type's ceiling, and credits it with a short-lived
// CARRIED_OVER entry.
func (e *engine) handleYearEndCarryover(
	ctx context.Context,
	qtx Repository,
	u user.User,
	lt leavetype.LeaveType,
	b *balance.LeaveBalance,
	monthStart, nextMonth time.Time,
) error {
	done, err := e.repo.ExistsInPeriod(ctx, u.ID.String(), lt.ID.String(), StatusCarriedOver, monthStart, nextMonth)
	if err != nil {
		return err
	}
	if done {
		return nil
	}

	// Entries that expired with the old year carry nothing over.
	cutoff := monthStart.AddDate(0, 0, -1)
	eligible, err := e.repo.SumActiveUnexpired(ctx, u.ID.String(), lt.ID.String(), cutoff)
	if err != nil {
		return err
	}
	if !eligible.IsPositive() {
		return nil
	}

	carried := lt.CapCarryover(eligible)

	entry := &AccrualEntry{
		ID:          uuid.New(),
		UserID:      u.ID,
		LeaveTypeID: lt.ID,
		DaysAccrued: carried,
		AccrualDate: monthStart,
		ExpiryDate:  endOfFollowingMonth(monthStart),
		Status:      StatusCarriedOver,
	}
	if err := qtx.Create(ctx, entry); err != nil {
		if isDuplicateAccrual(err) {
			return nil
		}
		return err
	}

	b.ApplyCarryover(carried, monthStart)

	e.logger.Info("year-end carryover granted",
		zap.String("user_id", u.ID.String()),
		zap.String("leave_type", lt.Code),
		zap.String("eligible", eligible.String()),
		zap.String("carried", carried.String()),
	)
	return nil
}

func (e *engine) ExpireOutdated(ctx context.Context, now time.Time) (int64, error) {
	expired, err := e.repo.ExpireOutdated(ctx, now)
	if err != nil {
		e.logger.Error("expire outdated accruals failed", zap.Error(err))
		return 0, err
	}
	if expired > 0 {
		e.logger.Info("expired outdated accruals", zap.Int64("count", expired))
	}
	return expired, nil
}

func (e *engine) lockOrSeedBalance(ctx context.Context, qbalance balance.Repository, u user.User, lt leavetype.LeaveType) (*balance.LeaveBalance, error) {
	b, err := qbalance.FindByUserAndTypeForUpdate(ctx, u.ID.String(), lt.ID.String())
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	b = &balance.LeaveBalance{
		ID:          uuid.New(),
		UserID:      u.ID,
		LeaveTypeID: lt.ID,
		TotalDays:   lt.DefaultBalance,
	}
	b.Recompute()

	if err := qbalance.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (e *engine) invalidateBalanceCache(ctx context.Context, userID string) {
	if e.rdb == nil {
		return
	}
	cacheKey := balance.GetUserBalancesKey(userID)
	if err := e.rdb.Del(ctx, cacheKey).Err(); err != nil {
		e.logger.Error("failed to invalidate balance cache",
			zap.String("key", cacheKey),
			zap.Error(err),
		)
	}
}

func isDuplicateAccrual(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_accrual_user_type_date_status"
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_accrual_user_type_date_status")
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// endOfFollowingMonth is the carryover expiry: carried days must be spent
// by the end of the month after the run month.
func endOfFollowingMonth(monthStart time.Time) time.Time {
	return startOfMonth(monthStart).AddDate(0, 2, 0).AddDate(0, 0, -1)
}
