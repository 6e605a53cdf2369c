package balance

import (
	"time"

	balanceerrors "go-leave/internal/balance/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeaveBalance is the authoritative entitlement record for one
// (user, leave type) pair. RemainingDays is always derived:
//
//	remaining = total - used + carriedOver
//
// Every mutating method recomputes it before returning, so the identity
// holds at every commit point.
type LeaveBalance struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_balance_user_type"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_balance_user_type"`

	TotalDays       decimal.Decimal `gorm:"type:numeric(8,2);not null;default:0"`
	UsedDays        decimal.Decimal `gorm:"type:numeric(8,2);not null;default:0"`
	RemainingDays   decimal.Decimal `gorm:"type:numeric(8,2);not null;default:0"`
	CarriedOverDays decimal.Decimal `gorm:"type:numeric(8,2);not null;default:0"`

	LastAccrualDate   *time.Time `gorm:"type:date"`
	LastCarryoverDate *time.Time `gorm:"type:date"`
	ExpiryDate        *time.Time `gorm:"type:date"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Recompute re-derives RemainingDays from the other three columns.
func (b *LeaveBalance) Recompute() {
	b.RemainingDays = b.TotalDays.Sub(b.UsedDays).Add(b.CarriedOverDays)
}

// ApplyCredit adds a monthly grant to the total entitlement.
func (b *LeaveBalance) ApplyCredit(days decimal.Decimal, accrualDate time.Time) {
	b.TotalDays = b.TotalDays.Add(days)
	b.LastAccrualDate = &accrualDate
	b.Recompute()
}

// ApplyCarryover adds capped prior-year entitlement.
func (b *LeaveBalance) ApplyCarryover(days decimal.Decimal, carryoverDate time.Time) {
	b.CarriedOverDays = b.CarriedOverDays.Add(days)
	b.LastCarryoverDate = &carryoverDate
	b.Recompute()
}

// ApplyDebit consumes entitlement. It fails without mutating the balance
// when the requested amount exceeds what remains.
func (b *LeaveBalance) ApplyDebit(days decimal.Decimal) error {
	if days.GreaterThan(b.RemainingDays) {
		return balanceerrors.ErrInsufficientBalance(
			days.String(),
			b.RemainingDays.String(),
		)
	}
	b.UsedDays = b.UsedDays.Add(days)
	b.Recompute()
	return nil
}
