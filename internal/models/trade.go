package models

import "time"

// TradeSide represents the side of a trade.
type TradeSide string

const (
	TradeSideBuy  TradeSide = "buy"
	TradeSideSell TradeSide = "sell"
)

// Trade is an immutable trade-history record.
type Trade struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	AssetID   string    `json:"asset_id"`
	Provider  Provider  `json:"provider"`
	OrderID   string    `json:"order_id"`
	Side      TradeSide `json:"side"`
	Quantity  float64   `json:"quantity"`
	Price     float64   `json:"price"`
	OrderType string    `json:"order_type"` // market, limit, ...
	Status    string    `json:"status"`     // open, filled, canceled, ...
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
