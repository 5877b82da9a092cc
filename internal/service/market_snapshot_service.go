package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"galpe/internal/domain"
)

// DefaultMoversCount is how many gainers and losers the market page shows
const DefaultMoversCount = 4

// MarketSnapshotService answers the read-only market questions of the portal pages
type MarketSnapshotService struct {
	provider domain.CoinProvider
}

// NewMarketSnapshotService creates a new MarketSnapshotService
func NewMarketSnapshotService(provider domain.CoinProvider) *MarketSnapshotService {
	return &MarketSnapshotService{provider: provider}
}

// Coins returns the full coin list
func (s *MarketSnapshotService) Coins(ctx context.Context) ([]domain.Coin, error) {
	coins, err := s.provider.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get coins: %w", err)
	}
	return coins, nil
}

// FindBySymbol returns the coin listed under symbol, case-insensitively
func (s *MarketSnapshotService) FindBySymbol(ctx context.Context, symbol string) (*domain.Coin, []domain.Coin, error) {
	coins, err := s.Coins(ctx)
	if err != nil {
		return nil, nil, err
	}

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	for i := range coins {
		if coins[i].Symbol == symbol {
			return &coins[i], coins, nil
		}
	}

	return nil, coins, fmt.Errorf("%s: %w", symbol, domain.ErrCoinNotFound)
}

// Movers returns the n best and n worst coins by 24h change
func Movers(coins []domain.Coin, n int) (gainers, losers []domain.Coin) {
	sorted := append([]domain.Coin(nil), coins...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Change24h.GreaterThan(sorted[j].Change24h)
	})

	if n > len(sorted) {
		n = len(sorted)
	}

	gainers = append([]domain.Coin(nil), sorted[:n]...)
	losers = make([]domain.Coin, 0, n)
	for i := len(sorted) - 1; i >= len(sorted)-n; i-- {
		losers = append(losers, sorted[i])
	}
	return gainers, losers
}

// BuildPortfolio joins holdings with coin metadata and values them at the coin price
func BuildPortfolio(assets []domain.Asset, coins []domain.Coin) domain.Portfolio {
	bySymbol := make(map[string]*domain.Coin, len(coins))
	for i := range coins {
		bySymbol[coins[i].Symbol] = &coins[i]
	}

	p := domain.Portfolio{
		Holdings: make([]domain.Holding, 0, len(assets)),
		Total:    decimal.Zero,
	}
	for _, a := range assets {
		h := domain.Holding{Asset: a, Value: decimal.Zero}
		if c, ok := bySymbol[strings.ToUpper(a.Symbol)]; ok {
			h.Coin = c
			h.Value = a.Amount.Mul(c.Price)
		}
		p.Total = p.Total.Add(h.Value)
		p.Holdings = append(p.Holdings, h)
	}

	return p
}
