package balance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/leavetype"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	UserBalancesKeyPrefix = "leave:balances:"

	balanceCacheTTL = 10 * time.Minute
)

func GetUserBalancesKey(userID string) string {
	return UserBalancesKeyPrefix + userID
}

// Service is the Balance Ledger: the only writer-facing surface for
// entitlement. Credit is called by the accrual engine, Debit by the
// approval workflow; both run in a transaction that locks the one
// balance row they touch.
//
//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	Get(ctx context.Context, userID, leaveTypeID string) (BalanceResponse, error)
	GetAllForUser(ctx context.Context, userID string) ([]BalanceResponse, error)
	Credit(ctx context.Context, userID, leaveTypeID string, days decimal.Decimal, accrualDate time.Time) error
	CreditCarryover(ctx context.Context, userID, leaveTypeID string, days decimal.Decimal, carryoverDate time.Time) error
	Debit(ctx context.Context, userID, leaveTypeID string, days decimal.Decimal) error
	// DebitTx debits inside a caller-owned transaction so the approval
	// workflow can commit the request row and the balance row atomically.
	// The caller commits and invalidates the cache.
	DebitTx(ctx context.Context, tx *sql.Tx, userID, leaveTypeID string, days decimal.Decimal) error
	InvalidateCache(ctx context.Context, userID string)
}

type service struct {
	db       *sql.DB
	repo     Repository
	typeRepo leavetype.Repository
	rdb      *redis.Client
	sf       *singleflight.Group
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	typeRepo leavetype.Repository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		typeRepo: typeRepo,
		rdb:      rdb,
		sf:       &singleflight.Group{},
		logger:   l,
	}
}

func (s *service) Get(ctx context.Context, userID, leaveTypeID string) (BalanceResponse, error) {
	b, err := s.repo.FindByUserAndType(ctx, userID, leaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BalanceResponse{}, balanceerrors.ErrBalanceNotFound
		}
		return BalanceResponse{}, err
	}
	return mapToResponse(*b), nil
}

func (s *service) GetAllForUser(ctx context.Context, userID string) ([]BalanceResponse, error) {
	cacheKey := GetUserBalancesKey(userID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []BalanceResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (any, error) {
		balances, err := s.repo.FindAllByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		resp := mapToListResponse(balances)

		if s.rdb != nil {
			if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
				if setErr := s.rdb.Set(ctx, cacheKey, payload, balanceCacheTTL).Err(); setErr != nil {
					s.logger.Error("cache balances failed",
						zap.String("key", cacheKey),
						zap.Error(setErr),
					)
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]BalanceResponse), nil
}

func (s *service) Credit(ctx context.Context, userID, leaveTypeID string, days decimal.Decimal, accrualDate time.Time) error {
	return s.mutate(ctx, userID, leaveTypeID, days, func(b *LeaveBalance) error {
		b.ApplyCredit(days, accrualDate)
		return nil
	}, true)
}

func (s *service) CreditCarryover(ctx context.Context, userID, leaveTypeID string, days decimal.Decimal, carryoverDate time.Time) error {
	return s.mutate(ctx, userID, leaveTypeID, days, func(b *LeaveBalance) error {
		b.ApplyCarryover(days, carryoverDate)
		return nil
	}, true)
}

func (s *service) Debit(ctx context.Context, userID, leaveTypeID string, days decimal.Decimal) error {
	return s.mutate(ctx, userID, leaveTypeID, days, func(b *LeaveBalance) error {
		return b.ApplyDebit(days)
	}, false)
}

func (s *service) DebitTx(ctx context.Context, tx *sql.Tx, userID, leaveTypeID string, days decimal.Decimal) error {
	if !days.IsPositive() {
		return balanceerrors.ErrInvalidAmount
	}

	qtx := s.repo.WithTx(tx)

	b, err := qtx.FindByUserAndTypeForUpdate(ctx, userID, leaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return balanceerrors.ErrBalanceNotFound
		}
		s.logger.Error("balance lookup failed",
			zap.String("user_id", userID),
			zap.String("leave_type_id", leaveTypeID),
			zap.Error(err),
		)
		return err
	}

	if err := b.ApplyDebit(days); err != nil {
		s.logger.Warn("balance debit rejected",
			zap.String("user_id", userID),
			zap.String("leave_type_id", leaveTypeID),
			zap.String("days", days.String()),
			zap.Error(err),
		)
		return err
	}

	if err := qtx.Update(ctx, b); err != nil {
		s.logger.Error("balance persist failed",
			zap.String("balance_id", b.ID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) InvalidateCache(ctx context.Context, userID string) {
	s.invalidateCache(ctx, userID)
}

// mutate runs one ledger mutation in its own transaction with the balance
// row locked. createMissing seeds a new row from the leave type's default
// balance; debits on a missing row fail instead.
func (s *service) mutate(
	ctx context.Context,
	userID, leaveTypeID string,
	days decimal.Decimal,
	apply func(b *LeaveBalance) error,
	createMissing bool,
) error {
	if _, err := uuid.Parse(userID); err != nil {
		return balanceerrors.ErrInvalidUserID
	}
	if _, err := uuid.Parse(leaveTypeID); err != nil {
		return balanceerrors.ErrInvalidLeaveTypeID
	}
	if !days.IsPositive() {
		return balanceerrors.ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("balance mutation begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	b, err := qtx.FindByUserAndTypeForUpdate(ctx, userID, leaveTypeID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("balance lookup failed",
				zap.String("user_id", userID),
				zap.String("leave_type_id", leaveTypeID),
				zap.Error(err),
			)
			return err
		}
		if !createMissing {
			return balanceerrors.ErrBalanceNotFound
		}
		b, err = s.seedBalance(ctx, qtx, userID, leaveTypeID)
		if err != nil {
			return err
		}
	}

	if err := apply(b); err != nil {
		s.logger.Warn("balance mutation rejected",
			zap.String("user_id", userID),
			zap.String("leave_type_id", leaveTypeID),
			zap.String("days", days.String()),
			zap.Error(err),
		)
		return err
	}

	if err := qtx.Update(ctx, b); err != nil {
		s.logger.Error("balance persist failed",
			zap.String("balance_id", b.ID.String()),
			zap.Error(err),
		)
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("balance mutation commit failed", zap.Error(err))
		return err
	}

	s.invalidateCache(ctx, userID)

	s.logger.Info("balance updated",
		zap.String("user_id", userID),
		zap.String("leave_type_id", leaveTypeID),
		zap.String("remaining_days", b.RemainingDays.String()),
	)
	return nil
}

func (s *service) seedBalance(ctx context.Context, qtx Repository, userID, leaveTypeID string) (*LeaveBalance, error) {
	lt, err := s.typeRepo.FindByID(ctx, leaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, balanceerrors.ErrInvalidLeaveTypeID
		}
		return nil, err
	}

	b := &LeaveBalance{
		ID:          uuid.New(),
		UserID:      uuid.MustParse(userID),
		LeaveTypeID: uuid.MustParse(leaveTypeID),
		TotalDays:   lt.DefaultBalance,
	}
	b.Recompute()

	if err := qtx.Create(ctx, b); err != nil {
		s.logger.Error("seed balance failed",
			zap.String("user_id", userID),
			zap.String("leave_type_id", leaveTypeID),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("seeded leave balance",
		zap.String("user_id", userID),
		zap.String("leave_type_id", leaveTypeID),
		zap.String("default_balance", lt.DefaultBalance.String()),
	)
	return b, nil
}

func (s *service) invalidateCache(ctx context.Context, userID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetUserBalancesKey(userID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate balance cache",
			zap.String("key", cacheKey),
			zap.Error(err),
		)
	}
}
