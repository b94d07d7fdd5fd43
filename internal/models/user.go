package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole represents the global role of a user account.
type UserRole string

const (
	// UserRoleUser is the default role for registered accounts.
	UserRoleUser UserRole = "user"
	// UserRoleAdmin marks a site-wide administrator.
	UserRoleAdmin UserRole = "admin"
)

// User represents a registered account.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	PublicID  string         `gorm:"type:varchar(36);uniqueIndex" json:"public_id"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Role      UserRole       `gorm:"type:varchar(20);default:'user'" json:"role"`
	Bio       string         `json:"bio"`
	Avatar    string         `json:"avatar"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a stable public identifier.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.PublicID == "" {
		u.PublicID = uuid.New().String()
	}
	return nil
}

// IsAdmin reports whether the account has the site-wide admin role.
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}
