package leaverequest_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-leave/internal/balance"
	"go-leave/internal/leaverequest"
	"go-leave/internal/leavetype"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeTypeRepository struct {
	findByIDFn   func(ctx context.Context, id string) (*leavetype.LeaveType, error)
	findByNameFn func(ctx context.Context, name string) (*leavetype.LeaveType, error)
	listNamesFn  func(ctx context.Context) ([]string, error)
}

func (f *fakeTypeRepository) FindByID(ctx context.Context, id string) (*leavetype.LeaveType, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTypeRepository) FindByName(ctx context.Context, name string) (*leavetype.LeaveType, error) {
	if f.findByNameFn != nil {
		return f.findByNameFn(ctx, name)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTypeRepository) FindByCode(ctx context.Context, code string) (*leavetype.LeaveType, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTypeRepository) FindActive(ctx context.Context) ([]leavetype.LeaveType, error) {
	return nil, nil
}

func (f *fakeTypeRepository) ListNames(ctx context.Context) ([]string, error) {
	if f.listNamesFn != nil {
		return f.listNamesFn(ctx)
	}
	return nil, nil
}

func (f *fakeTypeRepository) Create(ctx context.Context, t *leavetype.LeaveType) error {
	return nil
}

type fakeBalanceRepository struct {
	findByUserAndTypeFn func(ctx context.Context, userID, leaveTypeID string) (*balance.LeaveBalance, error)
}

func (f *fakeBalanceRepository) WithTx(tx *sql.Tx) balance.Repository {
	return f
}

func (f *fakeBalanceRepository) Create(ctx context.Context, b *balance.LeaveBalance) error {
	return nil
}

func (f *fakeBalanceRepository) FindByUserAndType(ctx context.Context, userID, leaveTypeID string) (*balance.LeaveBalance, error) {
	if f.findByUserAndTypeFn != nil {
		return f.findByUserAndTypeFn(ctx, userID, leaveTypeID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBalanceRepository) FindByUserAndTypeForUpdate(ctx context.Context, userID, leaveTypeID string) (*balance.LeaveBalance, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBalanceRepository) FindAllByUser(ctx context.Context, userID string) ([]balance.LeaveBalance, error) {
	return nil, nil
}

func (f *fakeBalanceRepository) Update(ctx context.Context, b *balance.LeaveBalance) error {
	return nil
}

func ptoLeaveType() *leavetype.LeaveType {
	return &leavetype.LeaveType{
		ID:              uuid.New(),
		Name:            "Paid Time Off",
		Code:            "PTO",
		MonthlyAccrual:  decimal.RequireFromString("1.66"),
		MaxCarryForward: decimal.NewFromInt(5),
		Active:          true,
	}
}

func balanceWithRemaining(userID string, lt *leavetype.LeaveType, remaining int64) *balance.LeaveBalance {
	b := &balance.LeaveBalance{
		ID:          uuid.New(),
		UserID:      uuid.MustParse(userID),
		LeaveTypeID: lt.ID,
		TotalDays:   decimal.NewFromInt(remaining),
	}
	b.Recompute()
	return b
}

func TestValidator_Validate(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()
	now := time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)

	t.Run("success three inclusive days against five remaining", func(t *testing.T) {
		lt := ptoLeaveType()
		typeRepo := &fakeTypeRepository{
			findByNameFn: func(ctx context.Context, name string) (*leavetype.LeaveType, error) {
				assert.Equal(t, "Paid Time Off", name)
				return lt, nil
			},
		}
		balanceRepo := &fakeBalanceRepository{
			findByUserAndTypeFn: func(ctx context.Context, uid, tid string) (*balance.LeaveBalance, error) {
				assert.Equal(t, userID, uid)
				assert.Equal(t, lt.ID.String(), tid)
				return balanceWithRemaining(userID, lt, 5), nil
			},
		}

		v := leaverequest.NewValidator(typeRepo, balanceRepo)
		req := leaverequest.CreateLeaveRequestRequest{
			LeaveType: "Paid Time Off",
			StartDate: "2025-06-02",
			EndDate:   "2025-06-04",
		}

		_, err := v.Validate(ctx, userID, req, now)

		assert.NoError(t, err)
	})

	t.Run("negative invalid date format", func(t *testing.T) {
		v := leaverequest.NewValidator(&fakeTypeRepository{}, &fakeBalanceRepository{})
		req := leaverequest.CreateLeaveRequestRequest{
			LeaveType: "Paid Time Off",
			StartDate: "02-06-2025",
			EndDate:   "2025-06-04",
		}

		_, err := v.Validate(ctx, userID, req, now)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid date format")
	})

	t.Run("negative start after end", func(t *testing.T) {
		v := leaverequest.NewValidator(&fakeTypeRepository{}, &fakeBalanceRepository{})
		req := leaverequest.CreateLeaveRequestRequest{
			LeaveType: "Paid Time Off",
			StartDate: "2025-06-05",
			EndDate:   "2025-06-04",
		}

		_, err := v.Validate(ctx, userID, req, now)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "before or equal")
	})

	t.Run("negative dates not in the future", func(t *testing.T) {
		v := leaverequest.NewValidator(&fakeTypeRepository{}, &fakeBalanceRepository{})
		req := leaverequest.CreateLeaveRequestRequest{
			LeaveType: "Paid Time Off",
			StartDate: "2025-05-20", // submission day itself
			EndDate:   "2025-05-22",
		}

		_, err := v.Validate(ctx, userID, req, now)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "must be in the future")
	})

	t.Run("negative unknown leave type lists valid names", func(t *testing.T) {
		typeRepo := &fakeTypeRepository{
			listNamesFn: func(ctx context.Context) ([]string, error) {
				return []string{"Paid Time Off", "Sick Leave"}, nil
			},
		}
		v := leaverequest.NewValidator(typeRepo, &fakeBalanceRepository{})
		req := leaverequest.CreateLeaveRequestRequest{
			LeaveType: "Sabbatical",
			StartDate: "2025-06-02",
			EndDate:   "2025-06-04",
		}

		_, err := v.Validate(ctx, userID, req, now)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unknown leave type: Sabbatical")
		assert.Contains(t, err.Error(), "Available types: Paid Time Off, Sick Leave")
	})

	t.Run("negative inactive type is treated as unknown", func(t *testing.T) {
		lt := ptoLeaveType()
		lt.Active = false
		typeRepo := &fakeTypeRepository{
			findByNameFn: func(ctx context.Context, name string) (*leavetype.LeaveType, error) {
				return lt, nil
			},
		}
		v := leaverequest.NewValidator(typeRepo, &fakeBalanceRepository{})
		req := leaverequest.CreateLeaveRequestRequest{
			LeaveType: "Paid Time Off",
			StartDate: "2025-06-02",
			EndDate:   "2025-06-04",
		}

		_, err := v.Validate(ctx, userID, req, now)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unknown leave type")
	})

	t.Run("negative insufficient balance reports requested and available", func(t *testing.T) {
		lt := ptoLeaveType()
		typeRepo := &fakeTypeRepository{
			findByNameFn: func(ctx context.Context, name string) (*leavetype.LeaveType, error) {
				return lt, nil
			},
		}
		balanceRepo := &fakeBalanceRepository{
			findByUserAndTypeFn: func(ctx context.Context, uid, tid string) (*balance.LeaveBalance, error) {
				return balanceWithRemaining(userID, lt, 2), nil
			},
		}

		v := leaverequest.NewValidator(typeRepo, balanceRepo)
		req := leaverequest.CreateLeaveRequestRequest{
			LeaveType: "Paid Time Off",
			StartDate: "2025-06-02",
			EndDate:   "2025-06-04",
		}

		_, err := v.Validate(ctx, userID, req, now)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Insufficient leave balance. Requested: 3, Available: 2")
	})

	t.Run("negative missing balance", func(t *testing.T) {
		lt := ptoLeaveType()
		typeRepo := &fakeTypeRepository{
			findByNameFn: func(ctx context.Context, name string) (*leavetype.LeaveType, error) {
				return lt, nil
			},
		}

		v := leaverequest.NewValidator(typeRepo, &fakeBalanceRepository{})
		req := leaverequest.CreateLeaveRequestRequest{
			LeaveType: "Paid Time Off",
			StartDate: "2025-06-02",
			EndDate:   "2025-06-04",
		}

		_, err := v.Validate(ctx, userID, req, now)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no leave balance found")
	})
}
