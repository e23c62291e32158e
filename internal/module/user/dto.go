package user

// CreateUserRequest represents the input for creating a new user.
type CreateUserRequest struct {
	Name     string `json:"name" form:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=8,max=72"`
	IsActive *bool  `json:"is_active" form:"is_active"`
	RoleIDs  []uint `json:"role_ids" form:"role_ids" binding:"omitempty,dive,gt=0"`
}

// UpdateUserRequest represents the input for updating an existing user.
// An empty password keeps the current one; nil role_ids keep the current roles.
type UpdateUserRequest struct {
	Name     string  `json:"name" form:"name" binding:"required,min=2,max=100"`
	Email    string  `json:"email" form:"email" binding:"required,email"`
	Password string  `json:"password" form:"password" binding:"omitempty,min=8,max=72"`
	IsActive *bool   `json:"is_active" form:"is_active"`
	RoleIDs  *[]uint `json:"role_ids" form:"-"`
}
