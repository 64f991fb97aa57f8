package auth

// LoginRequest represents the input for admin login.
type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

// UserInfo is the public view of the authenticated user.
type UserInfo struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginResponse carries the bearer token and the authenticated user.
type LoginResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}
