package dto

import "galpe/internal/domain"

// ResetPasswordRequest represents the reset-password form
type ResetPasswordRequest struct {
	Email           string `form:"email"`
	NewPassword     string `form:"newPassword"`
	ConfirmPassword string `form:"confirmPassword"`
}

// ToDomain converts the form into an account request
func (r ResetPasswordRequest) ToDomain() domain.ResetPasswordRequest {
	return domain.ResetPasswordRequest{
		Email:           r.Email,
		NewPassword:     r.NewPassword,
		ConfirmPassword: r.ConfirmPassword,
	}
}

// ChangeEmailRequest represents the change-email form
type ChangeEmailRequest struct {
	CurrentEmail string `form:"currentEmail"`
	NewEmail     string `form:"newEmail"`
	Password     string `form:"password"`
}

// ToDomain converts the form into an account request
func (r ChangeEmailRequest) ToDomain() domain.ChangeEmailRequest {
	return domain.ChangeEmailRequest{
		CurrentEmail: r.CurrentEmail,
		NewEmail:     r.NewEmail,
		Password:     r.Password,
	}
}
