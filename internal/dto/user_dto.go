package dto

type UpdateUserRequest struct {
	FullName  *string `json:"full_name,omitempty" validate:"omitempty,min=2,max=255"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

type AssignRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin owner tenant"`
}
