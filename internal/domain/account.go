package domain

// Reason tags the outcome of an account operation
type Reason string

// Reason constants
const (
	ReasonSuccess            Reason = "SUCCESS"
	ReasonMissingFields      Reason = "MISSING_FIELDS"
	ReasonPasswordMismatch   Reason = "PASSWORD_MISMATCH"
	ReasonPasswordTooShort   Reason = "PASSWORD_TOO_SHORT"
	ReasonInvalidEmailFormat Reason = "INVALID_EMAIL_FORMAT"
	ReasonEmailUnchanged     Reason = "EMAIL_UNCHANGED"
	ReasonUserNotFound       Reason = "USER_NOT_FOUND"
	ReasonWrongPassword      Reason = "WRONG_PASSWORD"
	ReasonEmailInUse         Reason = "EMAIL_IN_USE"
	ReasonInvalidCredentials Reason = "INVALID_CREDENTIALS"
	ReasonPersistFailed      Reason = "PERSIST_FAILED"
	ReasonStoreUnavailable   Reason = "STORE_UNAVAILABLE"
)

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 6

// ResetPasswordRequest asks to set a new password on the account with Email
type ResetPasswordRequest struct {
	Email           string `validate:"required"`
	NewPassword     string `validate:"required"`
	ConfirmPassword string `validate:"required"`
}

// ChangeEmailRequest asks to move the account at CurrentEmail to NewEmail
type ChangeEmailRequest struct {
	CurrentEmail string `validate:"required"`
	NewEmail     string `validate:"required"`
	Password     string `validate:"required"`
}

// RegisterRequest asks to create a new account
type RegisterRequest struct {
	Name            string
	Email           string `validate:"required"`
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"required"`
}

// MutationResult is the outcome of an account operation.
// Record and Session are only meaningful when Reason is ReasonSuccess,
// except Session which always carries the caller's (possibly refreshed) projection.
type MutationResult struct {
	Reason  Reason
	Record  *SessionProjection
	Session *SessionProjection
}

// OK reports whether the operation succeeded
func (r MutationResult) OK() bool {
	return r.Reason == ReasonSuccess
}
