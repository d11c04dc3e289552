package dto

import "time"

type CreateBlockSpaceRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=255"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
	Address     string  `json:"address" validate:"required,max=512"`
	TotalFlats  int     `json:"total_flats" validate:"required,min=1"`
	TotalFloors int     `json:"total_floors" validate:"required,min=1"`
}

// UpdateBlockSpaceRequest carries a partial update. UpdatedAt, when set,
// is an optimistic concurrency precondition: the update is refused with
// a conflict if the row changed since that timestamp.
type UpdateBlockSpaceRequest struct {
	Name        *string    `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Description *string    `json:"description,omitempty"`
	ImageURL    *string    `json:"image_url,omitempty" validate:"omitempty,url"`
	Address     *string    `json:"address,omitempty" validate:"omitempty,max=512"`
	TotalFlats  *int       `json:"total_flats,omitempty" validate:"omitempty,min=1"`
	TotalFloors *int       `json:"total_floors,omitempty" validate:"omitempty,min=1"`
	Status      *string    `json:"status,omitempty" validate:"omitempty,oneof=pending active inactive"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type ReviewApplicationRequest struct {
	Status string  `json:"status" validate:"required,oneof=approved rejected"`
	Notes  *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}
