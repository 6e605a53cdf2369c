package leaverequest

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	leaverequesterrors "go-leave/internal/leaverequest/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// DocumentURLs is stored as a jsonb column.
type DocumentURLs []string

func (d DocumentURLs) Value() (driver.Value, error) {
	if d == nil {
		return "[]", nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (d *DocumentURLs) Scan(value any) error {
	if value == nil {
		*d = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return fmt.Errorf("unsupported document urls type %T", value)
	}
}

type LeaveRequest struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_user"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null"`

	StartDate     time.Time       `gorm:"type:date;not null"`
	EndDate       time.Time       `gorm:"type:date;not null"`
	DaysRequested decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	Reason        string          `gorm:"type:text"`

	Status          string     `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_requests_status"`
	ApproverID      *uuid.UUID `gorm:"type:uuid"`
	ApproverComment *string    `gorm:"type:text"`
	DecidedAt       *time.Time

	DocumentURLs DocumentURLs `gorm:"type:jsonb;not null;default:'[]'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Decided reports whether the request is in a terminal status.
func (r *LeaveRequest) Decided() bool {
	return r.Status == StatusApproved || r.Status == StatusRejected
}

// Approve transitions PENDING to APPROVED. A decided request accepts no
// further transition.
func (r *LeaveRequest) Approve(approverID uuid.UUID, comment string, now time.Time) error {
	if r.Decided() {
		return leaverequesterrors.ErrAlreadyDecided
	}
	r.Status = StatusApproved
	r.ApproverID = &approverID
	if comment != "" {
		r.ApproverComment = &comment
	}
	r.DecidedAt = &now
	return nil
}

// Reject transitions PENDING to REJECTED.
func (r *LeaveRequest) Reject(approverID uuid.UUID, comment string, now time.Time) error {
	if r.Decided() {
		return leaverequesterrors.ErrAlreadyDecided
	}
	r.Status = StatusRejected
	r.ApproverID = &approverID
	if comment != "" {
		r.ApproverComment = &comment
	}
	r.DecidedAt = &now
	return nil
}

// inclusiveDays counts both endpoints, so a single-day leave is 1.
func inclusiveDays(start, end time.Time) decimal.Decimal {
	days := int64(end.Sub(start).Hours()/24) + 1
	return decimal.NewFromInt(days)
}
