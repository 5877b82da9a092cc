package service

import (
	"galpe/internal/domain"
)

// SessionSynchronizer keeps a signed-in user's session projection in line
// with the stored record after an account mutation
type SessionSynchronizer struct{}

// NewSessionSynchronizer creates a new SessionSynchronizer
func NewSessionSynchronizer() *SessionSynchronizer {
	return &SessionSynchronizer{}
}

// Resync returns the projection the session should hold after updated was saved.
// The active projection is replaced when it belongs to the same identity, matched by ID
// or by the email that identified it before the mutation. Otherwise it is returned as is.
// Must only be called once the save has succeeded.
func (s *SessionSynchronizer) Resync(active *domain.SessionProjection, preMutationEmail string, updated *domain.UserRecord) *domain.SessionProjection {
	if active == nil || updated == nil {
		return active
	}

	sameID := active.ID == updated.ID
	sameEmail := preMutationEmail != "" && active.Email == preMutationEmail
	if !sameID && !sameEmail {
		return active
	}

	return updated.Project()
}
