package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmreyes-dev/partstream-backend/pkg/enums"
)

// User is an account that can sign in and file inquiries.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash string         `gorm:"column:password_hash;not null" json:"-"`
	FirstName    string         `gorm:"column:first_name;not null" json:"firstName"`
	LastName     string         `gorm:"column:last_name;not null" json:"lastName"`
	Role         enums.UserRole `gorm:"column:role;not null;default:customer" json:"role"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true" json:"-"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at" json:"-"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
