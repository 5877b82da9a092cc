package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"galpe/internal/domain"
)

func TestSessionSynchronizer_Resync(t *testing.T) {
	updated := &domain.UserRecord{
		ID:       id1,
		Name:     "Ana",
		Email:    "new@x.com",
		Password: "secret",
		Assets:   []domain.Asset{{Symbol: "BTC"}},
	}
	syncer := NewSessionSynchronizer()

	t.Run("no session stays nil", func(t *testing.T) {
		assert.Nil(t, syncer.Resync(nil, "old@x.com", updated))
	})

	t.Run("same id is replaced", func(t *testing.T) {
		active := &domain.SessionProjection{ID: id1, Email: "old@x.com"}
		got := syncer.Resync(active, "old@x.com", updated)
		require.NotNil(t, got)
		assert.Equal(t, "new@x.com", got.Email)
		assert.Equal(t, "Ana", got.Name)
		assert.Len(t, got.Assets, 1)
	})

	t.Run("pre-mutation email is replaced", func(t *testing.T) {
		active := &domain.SessionProjection{ID: uuid.Nil, Email: "old@x.com"}
		got := syncer.Resync(active, "old@x.com", updated)
		assert.Equal(t, id1, got.ID)
	})

	t.Run("other identity is kept", func(t *testing.T) {
		active := &domain.SessionProjection{ID: id2, Email: "b@x.com"}
		assert.Same(t, active, syncer.Resync(active, "old@x.com", updated))
	})

	t.Run("projection does not share assets", func(t *testing.T) {
		active := &domain.SessionProjection{ID: id1}
		got := syncer.Resync(active, "", updated)
		got.Assets[0].Symbol = "ETH"
		assert.Equal(t, "BTC", updated.Assets[0].Symbol)
	})
}
