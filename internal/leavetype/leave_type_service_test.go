package leavetype_test

import (
	"context"
	"errors"
	"testing"

	"go-leave/internal/leavetype"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepository struct {
	findByNameFn func(ctx context.Context, name string) (*leavetype.LeaveType, error)
	findActiveFn func(ctx context.Context) ([]leavetype.LeaveType, error)
}

func (f *fakeRepository) FindByID(ctx context.Context, id string) (*leavetype.LeaveType, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) FindByName(ctx context.Context, name string) (*leavetype.LeaveType, error) {
	if f.findByNameFn != nil {
		return f.findByNameFn(ctx, name)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) FindByCode(ctx context.Context, code string) (*leavetype.LeaveType, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) FindActive(ctx context.Context) ([]leavetype.LeaveType, error) {
	if f.findActiveFn != nil {
		return f.findActiveFn(ctx)
	}
	return nil, nil
}

func (f *fakeRepository) ListNames(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (f *fakeRepository) Create(ctx context.Context, t *leavetype.LeaveType) error {
	return nil
}

func TestLeaveTypeService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("success maps catalog amounts as fixed decimals", func(t *testing.T) {
		repo := &fakeRepository{
			findActiveFn: func(ctx context.Context) ([]leavetype.LeaveType, error) {
				return []leavetype.LeaveType{
					{
						ID:              uuid.New(),
						Name:            "Paid Time Off",
						Code:            "PTO",
						MonthlyAccrual:  decimal.RequireFromString("1.66"),
						MaxCarryForward: decimal.NewFromInt(5),
						Active:          true,
					},
					{
						ID:             uuid.New(),
						Name:           "Sick Leave",
						Code:           "SICK",
						DefaultBalance: decimal.NewFromInt(12),
						Active:         true,
					},
				}, nil
			},
		}

		resp, err := leavetype.NewService(repo).GetAll(ctx)

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
		assert.Equal(t, "1.66", resp[0].MonthlyAccrual)
		assert.Equal(t, "5.00", resp[0].MaxCarryForward)
		assert.Equal(t, "12.00", resp[1].DefaultBalance)
	})

	t.Run("negative repository failure", func(t *testing.T) {
		repo := &fakeRepository{
			findActiveFn: func(ctx context.Context) ([]leavetype.LeaveType, error) {
				return nil, errors.New("db down")
			},
		}

		_, err := leavetype.NewService(repo).GetAll(ctx)
		assert.Error(t, err)
	})
}

func TestLeaveTypeService_GetByName(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := &fakeRepository{
			findByNameFn: func(ctx context.Context, name string) (*leavetype.LeaveType, error) {
				assert.Equal(t, "Paid Time Off", name)
				return &leavetype.LeaveType{ID: uuid.New(), Name: name, Code: "PTO", Active: true}, nil
			},
		}

		resp, err := leavetype.NewService(repo).GetByName(ctx, "Paid Time Off")

		assert.NoError(t, err)
		assert.Equal(t, "PTO", resp.Code)
	})

	t.Run("negative unknown name", func(t *testing.T) {
		repo := &fakeRepository{}

		_, err := leavetype.NewService(repo).GetByName(ctx, "Sabbatical")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestLeaveType_Accruable(t *testing.T) {
	lt := leavetype.LeaveType{Active: true, MonthlyAccrual: decimal.RequireFromString("1.66")}
	assert.True(t, lt.Accruable())

	lt.Active = false
	assert.False(t, lt.Accruable())

	lt.Active = true
	lt.MonthlyAccrual = decimal.Zero
	assert.False(t, lt.Accruable())
}

func TestLeaveType_CapCarryover(t *testing.T) {
	lt := leavetype.LeaveType{MaxCarryForward: decimal.NewFromInt(5)}

	assert.Equal(t, "5", lt.CapCarryover(decimal.NewFromInt(7)).String())
	assert.Equal(t, "3.32", lt.CapCarryover(decimal.RequireFromString("3.32")).String())
}
