package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"galpe/internal/domain"
	"galpe/internal/logger"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testCoins() []domain.Coin {
	return []domain.Coin{
		{Symbol: "BTC", Name: "Bitcoin", Price: d("60000"), Change24h: d("2.5")},
		{Symbol: "ETH", Name: "Ethereum", Price: d("3000"), Change24h: d("-1.2")},
		{Symbol: "SOL", Name: "Solana", Price: d("150"), Change24h: d("7.1")},
		{Symbol: "ADA", Name: "Cardano", Price: d("0.5"), Change24h: d("-4")},
		{Symbol: "XRP", Name: "XRP", Price: d("0.6"), Change24h: d("0")},
		{Symbol: "USDT", Name: "Tether", Price: d("1"), Change24h: d("0.01")},
	}
}

type staticProvider struct {
	coins []domain.Coin
	err   error
	calls int
}

func (p *staticProvider) GetAll(ctx context.Context) ([]domain.Coin, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return append([]domain.Coin(nil), p.coins...), nil
}

func symbols(coins []domain.Coin) []string {
	out := make([]string, len(coins))
	for i, c := range coins {
		out[i] = c.Symbol
	}
	return out
}

func TestMovers_TopAndBottomByChange(t *testing.T) {
	gainers, losers := Movers(testCoins(), DefaultMoversCount)

	assert.Equal(t, []string{"SOL", "BTC", "USDT", "XRP"}, symbols(gainers))
	assert.Equal(t, []string{"ADA", "ETH", "XRP", "USDT"}, symbols(losers))
}

func TestMovers_FewerCoinsThanRequested(t *testing.T) {
	gainers, losers := Movers(testCoins()[:2], 4)

	assert.Equal(t, []string{"BTC", "ETH"}, symbols(gainers))
	assert.Equal(t, []string{"ETH", "BTC"}, symbols(losers))
}

func TestBuildPortfolio_JoinsAndValues(t *testing.T) {
	assets := []domain.Asset{
		{Symbol: "BTC", Amount: d("0.5")},
		{Symbol: "usdt", Amount: d("100")},
		{Symbol: "DOGE", Amount: d("10")},
	}

	p := BuildPortfolio(assets, testCoins())

	require.Len(t, p.Holdings, 3)
	assert.Equal(t, "Bitcoin", p.Holdings[0].Coin.Name)
	assert.True(t, p.Holdings[0].Value.Equal(d("30000")))
	assert.True(t, p.Holdings[1].Value.Equal(d("100")))
	assert.Nil(t, p.Holdings[2].Coin)
	assert.True(t, p.Holdings[2].Value.IsZero())
	assert.True(t, p.Total.Equal(d("30100")), p.Total.String())
}

func TestMarketSnapshotService_FindBySymbol(t *testing.T) {
	svc := NewMarketSnapshotService(&staticProvider{coins: testCoins()})

	coin, all, err := svc.FindBySymbol(context.Background(), "eth")
	require.NoError(t, err)
	assert.Equal(t, "Ethereum", coin.Name)
	assert.Len(t, all, 6)

	_, _, err = svc.FindBySymbol(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrCoinNotFound)
}

func TestMarketSnapshotService_ProviderError(t *testing.T) {
	svc := NewMarketSnapshotService(&staticProvider{err: errors.New("down")})

	_, err := svc.Coins(context.Background())
	assert.Error(t, err)
}

func TestFileCoinProvider_ReadsAndNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coins.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"symbol":" btc ","name":"Bitcoin","price":60000.5,"change_24h":-1.5}
	]`), 0o600))

	coins, err := NewFileCoinProvider(path).GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, coins, 1)
	assert.Equal(t, "BTC", coins[0].Symbol)
	assert.True(t, coins[0].Price.Equal(d("60000.5")))
	assert.True(t, coins[0].Change24h.Equal(d("-1.5")))
}

func TestFileCoinProvider_MissingFile(t *testing.T) {
	_, err := NewFileCoinProvider(filepath.Join(t.TempDir(), "none.json")).GetAll(context.Background())
	assert.Error(t, err)
}

func TestHTTPCoinProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			http.Error(w, "nope", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"symbol":"eth","name":"Ethereum","price":"3000"}]`))
	}))
	defer srv.Close()

	coins, err := NewHTTPCoinProvider(srv.URL + "/coins").GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, coins, 1)
	assert.Equal(t, "ETH", coins[0].Symbol)

	_, err = NewHTTPCoinProvider(srv.URL + "/broken").GetAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=502")
}

func TestCachedCoinProvider_ServesFromCacheAfterFirstLoad(t *testing.T) {
	source := &staticProvider{coins: testCoins()}
	p := NewCachedCoinProvider(source, NewMemorySnapshotCache(), logger.Discard())
	ctx := context.Background()

	first, err := p.GetAll(ctx)
	require.NoError(t, err)
	second, err := p.GetAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, source.calls)
	assert.Equal(t, first, second)
}

func TestCachedCoinProvider_RefreshReplacesSnapshot(t *testing.T) {
	source := &staticProvider{coins: testCoins()}
	p := NewCachedCoinProvider(source, NewMemorySnapshotCache(), logger.Discard())
	ctx := context.Background()

	_, err := p.GetAll(ctx)
	require.NoError(t, err)

	source.coins = testCoins()[:1]
	require.NoError(t, p.Refresh(ctx))

	coins, err := p.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, coins, 1)
}

func TestCachedCoinProvider_RefreshErrorKeepsOldSnapshot(t *testing.T) {
	source := &staticProvider{coins: testCoins()}
	p := NewCachedCoinProvider(source, NewMemorySnapshotCache(), logger.Discard())
	ctx := context.Background()

	_, err := p.GetAll(ctx)
	require.NoError(t, err)

	source.err = errors.New("feed down")
	require.Error(t, p.Refresh(ctx))

	coins, err := p.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, coins, 6)
}
