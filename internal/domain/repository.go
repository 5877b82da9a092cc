package domain

import (
	"context"
)

// RecordStore defines the persistence contract for the user record collection
type RecordStore interface {
	// GetAll returns the full current collection.
	// Errors wrap ErrStoreUnavailable.
	GetAll(ctx context.Context) ([]*UserRecord, error)

	// SaveAll replaces the stored collection with records, all or nothing.
	// A non-nil error means nothing was written.
	SaveAll(ctx context.Context, records []*UserRecord) error
}

// CoinProvider supplies the coin list of the simulated market
type CoinProvider interface {
	GetAll(ctx context.Context) ([]Coin, error)
}
