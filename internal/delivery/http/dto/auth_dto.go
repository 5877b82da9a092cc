package dto

import "galpe/internal/domain"

// LoginRequest represents the login form
type LoginRequest struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// RegisterRequest represents the registration form
type RegisterRequest struct {
	Name            string `form:"name"`
	Email           string `form:"email"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirmPassword"`
}

// ToDomain converts the form into an account request
func (r RegisterRequest) ToDomain() domain.RegisterRequest {
	return domain.RegisterRequest{
		Name:            r.Name,
		Email:           r.Email,
		Password:        r.Password,
		ConfirmPassword: r.ConfirmPassword,
	}
}
