package leaverequest

import (
	"context"
	"errors"
	"time"

	"go-leave/internal/balance"
	"go-leave/internal/leavetype"
	leaverequesterrors "go-leave/internal/leaverequest/errors"

	balanceerrors "go-leave/internal/balance/errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// validatedRequest is the outcome of a successful validation pass.
type validatedRequest struct {
	leaveType *leavetype.LeaveType
	startDate time.Time
	endDate   time.Time
	duration  decimal.Decimal
}

// Validator checks a submission before it is persisted. Rules run in
// order and the first failure wins. Validation is read-only: the
// balance is checked but never reserved, the authoritative debit
// happens at approval time.
type Validator struct {
	typeRepo    leavetype.Repository
	balanceRepo balance.Repository
}

func NewValidator(typeRepo leavetype.Repository, balanceRepo balance.Repository) *Validator {
	return &Validator{typeRepo: typeRepo, balanceRepo: balanceRepo}
}

func (v *Validator) Validate(ctx context.Context, userID string, req CreateLeaveRequestRequest, now time.Time) (*validatedRequest, error) {
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if startDate.After(endDate) {
		return nil, leaverequesterrors.ErrInvalidDateRange
	}

	// Strictly future at date granularity: a request for today is too late.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !startDate.After(today) {
		return nil, leaverequesterrors.ErrDatesNotInFuture
	}

	lt, err := v.typeRepo.FindByName(ctx, req.LeaveType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, v.unknownType(ctx, req.LeaveType)
		}
		return nil, err
	}
	if !lt.Active {
		return nil, v.unknownType(ctx, req.LeaveType)
	}

	duration := inclusiveDays(startDate, endDate)

	b, err := v.balanceRepo.FindByUserAndType(ctx, userID, lt.ID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, balanceerrors.ErrBalanceNotFound
		}
		return nil, err
	}
	if duration.GreaterThan(b.RemainingDays) {
		return nil, balanceerrors.ErrInsufficientBalance(
			duration.String(),
			b.RemainingDays.String(),
		)
	}

	return &validatedRequest{
		leaveType: lt,
		startDate: startDate,
		endDate:   endDate,
		duration:  duration,
	}, nil
}

func (v *Validator) unknownType(ctx context.Context, name string) error {
	names, err := v.typeRepo.ListNames(ctx)
	if err != nil {
		names = nil
	}
	return leaverequesterrors.ErrUnknownLeaveType(name, names)
}

func parseDate(value string) (time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		return time.Time{}, leaverequesterrors.ErrInvalidDateFormat
	}
	return d, nil
}
