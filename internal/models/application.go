package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Application statuses. Pending is the only non-terminal state.
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

// ValidReviewStatus reports whether status is a legal review outcome.
// Reviews may only resolve an application, never reset it to pending.
func ValidReviewStatus(status string) bool {
	return status == ApplicationStatusApproved || status == ApplicationStatusRejected
}

// BlockSpaceApplication is a user's request to join a block space.
// Created pending by the applicant; resolved exactly once by a space
// admin. Approved and rejected are terminal.
type BlockSpaceApplication struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index:idx_applications_user_space" json:"user_id"`
	BlockSpaceID uuid.UUID      `gorm:"type:uuid;not null;index:idx_applications_user_space" json:"block_space_id"`
	Status       string         `gorm:"size:20;default:'pending';index" json:"status"`
	Notes        *string        `gorm:"type:text" json:"notes,omitempty"`
	ReviewerID   *uuid.UUID     `gorm:"type:uuid" json:"reviewer_id,omitempty"`
	ReviewedAt   *time.Time     `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	User         User           `gorm:"foreignKey:UserID" json:"-"`
	BlockSpace   BlockSpace     `gorm:"foreignKey:BlockSpaceID" json:"-"`
}

func (BlockSpaceApplication) TableName() string {
	return "block_space_applications"
}
