package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"galpe/internal/domain"
	"galpe/internal/metrics"
)

// FileCoinProvider reads the coin list from a JSON file
type FileCoinProvider struct {
	path string
}

// NewFileCoinProvider creates a new FileCoinProvider
func NewFileCoinProvider(path string) *FileCoinProvider {
	return &FileCoinProvider{path: path}
}

// GetAll reads and decodes the coins file
func (p *FileCoinProvider) GetAll(ctx context.Context) ([]domain.Coin, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read coins file: %w", err)
	}

	var coins []domain.Coin
	if err := json.Unmarshal(data, &coins); err != nil {
		return nil, fmt.Errorf("failed to decode coins file: %w", err)
	}

	return normalizeCoins(coins), nil
}

// HTTPCoinProvider fetches the coin list from a remote JSON endpoint
type HTTPCoinProvider struct {
	httpClient *http.Client
	url        string
}

// NewHTTPCoinProvider creates a new HTTPCoinProvider
func NewHTTPCoinProvider(url string) *HTTPCoinProvider {
	return &HTTPCoinProvider{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		url: url,
	}
}

// GetAll fetches the current coin list
func (p *HTTPCoinProvider) GetAll(ctx context.Context) ([]domain.Coin, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch coins: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("coin feed error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var coins []domain.Coin
	if err := json.NewDecoder(resp.Body).Decode(&coins); err != nil {
		return nil, fmt.Errorf("failed to decode coin feed: %w", err)
	}

	return normalizeCoins(coins), nil
}

// SnapshotCache stores the latest coin snapshot
type SnapshotCache interface {
	Get(ctx context.Context, key string) (*domain.CoinSnapshot, bool)
	Set(ctx context.Context, key string, value *domain.CoinSnapshot)
}

// CoinSnapshotKey is the cache key of the market snapshot
const CoinSnapshotKey = "market:snapshot"

// CachedCoinProvider serves coins from a snapshot cache, loading from source on a miss
type CachedCoinProvider struct {
	source domain.CoinProvider
	cache  SnapshotCache
	log    logrus.FieldLogger
	now    func() time.Time
}

// NewCachedCoinProvider creates a new CachedCoinProvider
func NewCachedCoinProvider(source domain.CoinProvider, cache SnapshotCache, log logrus.FieldLogger) *CachedCoinProvider {
	return &CachedCoinProvider{
		source: source,
		cache:  cache,
		log:    log.WithField("component", "market"),
		now:    time.Now,
	}
}

// GetAll returns the cached coins, or loads and caches them
func (p *CachedCoinProvider) GetAll(ctx context.Context) ([]domain.Coin, error) {
	if snap, ok := p.cache.Get(ctx, CoinSnapshotKey); ok {
		return snap.Coins, nil
	}

	snap, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Coins, nil
}

// Refresh reloads the snapshot from source and replaces the cached copy
func (p *CachedCoinProvider) Refresh(ctx context.Context) error {
	snap, err := p.load(ctx)
	if err != nil {
		return err
	}
	p.log.WithField("coins", len(snap.Coins)).Debug("Market snapshot refreshed")
	return nil
}

func (p *CachedCoinProvider) load(ctx context.Context) (*domain.CoinSnapshot, error) {
	coins, err := p.source.GetAll(ctx)
	if err != nil {
		metrics.RecordMarketRefresh(false)
		return nil, fmt.Errorf("failed to load coins: %w", err)
	}

	snap := &domain.CoinSnapshot{Coins: coins, TakenAt: p.now().UTC()}
	p.cache.Set(ctx, CoinSnapshotKey, snap)
	metrics.RecordMarketRefresh(true)
	return snap, nil
}

func normalizeCoins(coins []domain.Coin) []domain.Coin {
	for i := range coins {
		coins[i].Symbol = strings.ToUpper(strings.TrimSpace(coins[i].Symbol))
	}
	return coins
}
