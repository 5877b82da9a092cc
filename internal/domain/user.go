package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserRecord represents a stored user account
type UserRecord struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email"`
	Password  string    `json:"password"` // Stored as entered, see DESIGN.md
	Assets    []Asset   `json:"assets"`
	CreatedAt time.Time `json:"created_at"`
}

// Asset is a single holding of a coin
type Asset struct {
	Symbol string          `json:"symbol"`
	Amount decimal.Decimal `json:"amount"`
}

// SessionProjection is the password-free view of a user kept in the session
type SessionProjection struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name,omitempty"`
	Email  string    `json:"email"`
	Assets []Asset   `json:"assets"`
}

// Project returns the session projection of the record
func (u *UserRecord) Project() *SessionProjection {
	assets := make([]Asset, len(u.Assets))
	copy(assets, u.Assets)

	return &SessionProjection{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Assets: assets,
	}
}

// Clone returns a deep copy of the record
func (u *UserRecord) Clone() *UserRecord {
	c := *u
	c.Assets = make([]Asset, len(u.Assets))
	copy(c.Assets, u.Assets)
	return &c
}

// DefaultStarterSymbol is the asset credited to new accounts
const DefaultStarterSymbol = "USDT"

// CheckRecords rejects a loaded collection with empty entries or repeated IDs.
// Such a collection means the medium is corrupt; errors wrap ErrStoreUnavailable.
func CheckRecords(records []*UserRecord) error {
	seen := make(map[uuid.UUID]struct{}, len(records))
	for i, r := range records {
		if r == nil {
			return fmt.Errorf("empty user record at index %d: %w", i, ErrStoreUnavailable)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("duplicate user record id %s: %w", r.ID, ErrStoreUnavailable)
		}
		seen[r.ID] = struct{}{}
	}
	return nil
}
