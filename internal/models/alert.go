package models

import "time"

// AlertType classifies what a notification is about.
type AlertType string

const (
	AlertPriceTarget     AlertType = "price_target"
	AlertSignalGenerated AlertType = "signal_generated"
	AlertTradeExecuted   AlertType = "trade_executed"
)

// Alert is a user notification. It is the only entity the client
// mutates in place, by flipping IsRead.
type Alert struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	AssetID   string    `json:"asset_id,omitempty"`
	AlertType AlertType `json:"alert_type"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
