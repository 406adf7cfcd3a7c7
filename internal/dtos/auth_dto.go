package dtos

import "github.com/justsurfingit/talent-portal/internal/models"

type LoginRequest struct {
	Email    string `form:"email" json:"email" binding:"required,portal_email"`
	Password string `form:"password" json:"password" binding:"required"`
}

type RegisterRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

// RegisterForm carries the confirmation field, which never leaves the portal.
type RegisterForm struct {
	Email           string `form:"email" binding:"required,portal_email"`
	Password        string `form:"password" binding:"required,min=6"`
	ConfirmPassword string `form:"confirm_password" binding:"required,eqfield=Password"`
	Role            string `form:"role" binding:"required,oneof=admin candidate"`
}

func (f RegisterForm) Request() RegisterRequest {
	return RegisterRequest{
		Email:    f.Email,
		Password: f.Password,
		Role:     models.Role(f.Role),
	}
}
