package dto

type UserCreateRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name"`
	Role     string `json:"role" binding:"required"`
	IsActive *bool  `json:"is_active"`
}

type UserUpdateRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password" binding:"omitempty,min=6"`
	FullName *string `json:"full_name"`
	IsActive *bool   `json:"is_active"`
}
