package domain

import "errors"

var (
	// ErrStoreUnavailable is returned when the record store cannot be read
	ErrStoreUnavailable = errors.New("record store unavailable")

	// ErrUserNotFound is returned when no record matches a lookup
	ErrUserNotFound = errors.New("user not found")

	// ErrCoinNotFound is returned when a symbol is not listed
	ErrCoinNotFound = errors.New("coin not found")
)
