package service

import (
	"context"
	"sync"

	"galpe/internal/domain"
)

// MemorySnapshotCache is a process-local SnapshotCache used when no redis is configured
type MemorySnapshotCache struct {
	mu    sync.RWMutex
	items map[string]domain.CoinSnapshot
}

// NewMemorySnapshotCache creates an empty MemorySnapshotCache
func NewMemorySnapshotCache() *MemorySnapshotCache {
	return &MemorySnapshotCache{items: make(map[string]domain.CoinSnapshot)}
}

// Get returns a copy of the cached snapshot
func (c *MemorySnapshotCache) Get(ctx context.Context, key string) (*domain.CoinSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap, ok := c.items[key]
	if !ok {
		return nil, false
	}
	snap.Coins = append([]domain.Coin(nil), snap.Coins...)
	return &snap, true
}

// Set stores a copy of value
func (c *MemorySnapshotCache) Set(ctx context.Context, key string, value *domain.CoinSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := *value
	snap.Coins = append([]domain.Coin(nil), value.Coins...)
	c.items[key] = snap
}
