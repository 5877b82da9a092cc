package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Coin represents a listed coin in the simulated market
type Coin struct {
	Symbol    string          `json:"symbol"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Change24h decimal.Decimal `json:"change_24h"`
	Volume24h decimal.Decimal `json:"volume_24h"`
	MarketCap decimal.Decimal `json:"market_cap"`
	Color     string          `json:"color,omitempty"`
}

// CoinSnapshot is a point-in-time copy of the coin list
type CoinSnapshot struct {
	Coins   []Coin    `json:"coins"`
	TakenAt time.Time `json:"taken_at"`
}

// Holding joins an asset with the coin it refers to
type Holding struct {
	Asset
	Coin  *Coin           // nil when the symbol is not listed
	Value decimal.Decimal // Amount * Price, zero for unlisted coins
}

// Portfolio is the dashboard view of a user's assets
type Portfolio struct {
	Holdings []Holding
	Total    decimal.Decimal
}
