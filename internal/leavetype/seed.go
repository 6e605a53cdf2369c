package leavetype

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EnsureDefaults creates the baseline catalog rows when they are
// missing, so a fresh environment can accrue and request leave
// immediately.
func EnsureDefaults(ctx context.Context, repo Repository) error {
	defaults := []*LeaveType{
		{
			Name:             "Personal Time Off",
			Code:             "PTO",
			Description:      "Accrued paid time off",
			DefaultBalance:   decimal.Zero,
			MonthlyAccrual:   decimal.NewFromFloat(1.66),
			MaxCarryForward:  decimal.NewFromInt(5),
			RequiresDocument: false,
			RequiresApproval: true,
			Active:           true,
		},
		{
			Name:             "Sick Leave",
			Code:             "SICK",
			Description:      "Paid sick days, granted up front per year",
			DefaultBalance:   decimal.NewFromInt(12),
			MonthlyAccrual:   decimal.Zero,
			MaxCarryForward:  decimal.Zero,
			RequiresDocument: true,
			RequiresApproval: true,
			Active:           true,
		},
	}

	log := zap.L().Named("leavetype.seed")
	for _, lt := range defaults {
		_, err := repo.FindByCode(ctx, lt.Code)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := repo.Create(ctx, lt); err != nil {
			return err
		}

		log.Info("seeded default leave type",
			zap.String("code", lt.Code),
			zap.String("monthly_accrual", lt.MonthlyAccrual.String()),
		)
	}
	return nil
}
