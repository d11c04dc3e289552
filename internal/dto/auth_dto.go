package dto

import "github.com/google/uuid"

type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	FullName string  `json:"full_name" validate:"required,min=2,max=255"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	// Role may be supplied during onboarding; defaults to tenant. The
	// admin role is never self-assigned: it comes from the config
	// allowlist or a role assignment by an existing admin.
	Role string `json:"role,omitempty" validate:"omitempty,oneof=owner tenant"`
}

// RegisterWithBlockSpaceRequest registers an owner and creates their
// block space in a single transaction.
type RegisterWithBlockSpaceRequest struct {
	User       RegisterRequest         `json:"user" validate:"required"`
	BlockSpace CreateBlockSpaceRequest `json:"block_space" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type DeleteAccountRequest struct {
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	FullName     string     `json:"full_name"`
	Phone        *string    `json:"phone,omitempty"`
	Role         string     `json:"role"`
	BlockSpaceID *uuid.UUID `json:"block_space_id,omitempty"`
	AvatarURL    *string    `json:"avatar_url,omitempty"`
}
