package leavetype

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LeaveType struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	Code        string    `gorm:"type:varchar(20);not null;uniqueIndex"`
	Description string    `gorm:"type:text"`

	DefaultBalance  decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	MonthlyAccrual  decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	MaxCarryForward decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`

	RequiresDocument bool `gorm:"not null;default:false"`
	RequiresApproval bool `gorm:"not null;default:true"`
	Active           bool `gorm:"not null;default:true;index:idx_leave_types_active"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_leave_types_deleted_at"`
}

// Accruable reports whether the monthly engine should grant entitlement
// for this type.
func (t *LeaveType) Accruable() bool {
	return t.Active && t.MonthlyAccrual.IsPositive()
}

// CapCarryover applies the type's carry-forward ceiling to an eligible sum.
func (t *LeaveType) CapCarryover(eligible decimal.Decimal) decimal.Decimal {
	if eligible.GreaterThan(t.MaxCarryForward) {
		return t.MaxCarryForward
	}
	return eligible
}
