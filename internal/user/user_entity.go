package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser    = "USER"
	RoleManager = "MANAGER"
	RoleAdmin   = "ADMIN"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email    string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	FullName string    `gorm:"type:varchar(255);not null"`

	Role      string     `gorm:"type:varchar(20);not null;default:'USER'"`
	ManagerID *uuid.UUID `gorm:"type:uuid"`
	Active    bool       `gorm:"not null;default:true;index:idx_users_active"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_users_deleted_at"`
}

// IsApprover reports whether the user holds a role that may decide
// leave requests.
func (u *User) IsApprover() bool {
	return u.Role == RoleManager || u.Role == RoleAdmin
}
