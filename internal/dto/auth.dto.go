package dto

// LoginRequest is the JSON login body. The form variant uses username/password.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
