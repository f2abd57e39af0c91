package user

type CreateUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=ADMIN PORTAL_MASTER EMPLOYEE"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=ADMIN PORTAL_MASTER EMPLOYEE"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}
