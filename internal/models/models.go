// Package models provides domain models for the investment client.
package models

import (
	"time"
)

// Provider represents an external trading venue a user can hold
// credentials for.
type Provider string

const (
	ProviderAlpaca  Provider = "alpaca"
	ProviderBinance Provider = "binance"
)

// AssetType represents the class of a tradeable asset.
type AssetType string

const (
	AssetStock  AssetType = "stock"
	AssetCrypto AssetType = "crypto"
)

// User is the read-only projection of the authenticated account.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	IsActive  bool      `json:"is_active"`
}

// Asset represents a tradeable instrument known to the service.
type Asset struct {
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	AssetType AssetType `json:"asset_type"`
	Exchange  string    `json:"exchange,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PortfolioSummary is a numeric snapshot of the account, replaced
// wholesale on each fetch.
type PortfolioSummary struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	CashBalance    float64   `json:"cash_balance"`
	PortfolioValue float64   `json:"portfolio_value"`
	DayChangePct   float64   `json:"day_change_pct"`
	TotalPL        float64   `json:"total_pl"`
	Timestamp      time.Time `json:"timestamp"`
}

// Position is one held instrument per provider.
type Position struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	AssetID       string    `json:"asset_id"`
	Provider      Provider  `json:"provider"`
	Quantity      float64   `json:"quantity"`
	AvgEntryPrice float64   `json:"avg_entry_price"`
	CurrentPrice  float64   `json:"current_price,omitempty"`
	UnrealizedPL  float64   `json:"unrealized_pl,omitempty"`
	MarketValue   float64   `json:"market_value,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Bar is a single OHLCV observation.
type Bar struct {
	Timestamp string  `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// Series is a chronological sequence of bars for one symbol.
type Series []Bar

// Latest returns the most recent bar.
func (s Series) Latest() (Bar, bool) {
	if len(s) == 0 {
		return Bar{}, false
	}
	return s[len(s)-1], true
}

// PercentChange computes the close-over-close change between the last
// two bars, in percent. A series shorter than two bars, or one whose
// previous close is zero, cannot produce a change and reports ok=false.
func (s Series) PercentChange() (float64, bool) {
	if len(s) < 2 {
		return 0, false
	}
	latest := s[len(s)-1]
	previous := s[len(s)-2]
	if previous.Close == 0 {
		return 0, false
	}
	return (latest.Close - previous.Close) / previous.Close * 100, true
}

// MarketData is the wire envelope of a market data fetch.
type MarketData struct {
	Symbol   string `json:"symbol"`
	Interval string `json:"interval"`
	Data     Series `json:"data"`
}
