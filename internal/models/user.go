package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles. Role gates navigation and permitted mutations.
const (
	RoleAdmin  = "admin"
	RoleOwner  = "owner"
	RoleTenant = "tenant"
)

// ValidRole reports whether role is one of the three known roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleOwner || role == RoleTenant
}

// User is a registered resident or administrator. A user belongs to at
// most one block space at a time (BlockSpaceID is nil until an
// application is approved or the user creates their own space).
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password     string         `gorm:"not null" json:"-"`
	FullName     string         `gorm:"size:255;not null" json:"full_name"`
	Phone        *string        `gorm:"size:30" json:"phone,omitempty"`
	Role         string         `gorm:"size:20;default:'tenant';index" json:"role"`
	BlockSpaceID *uuid.UUID     `gorm:"type:uuid;index" json:"block_space_id,omitempty"`
	AvatarURL    *string        `gorm:"size:512" json:"avatar_url,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
