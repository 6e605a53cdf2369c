package accrual

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusActive      = "ACTIVE"
	StatusExpired     = "EXPIRED"
	StatusUsed        = "USED"
	StatusCarriedOver = "CARRIED_OVER"
)

// AccrualEntry is one grant of entitlement. Entries are written only by
// the engine and never mutated afterwards except for the status flip
// performed by the reconciliation pass. The unique index is the hard
// backstop against double-granting a period.
type AccrualEntry struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_accrual_user_type_date_status"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_accrual_user_type_date_status"`

	DaysAccrued decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	AccrualDate time.Time       `gorm:"type:date;not null;uniqueIndex:uq_accrual_user_type_date_status"`
	ExpiryDate  time.Time       `gorm:"type:date;not null;index:idx_accruals_expiry"`
	Status      string          `gorm:"type:varchar(20);not null;default:'ACTIVE';uniqueIndex:uq_accrual_user_type_date_status"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
