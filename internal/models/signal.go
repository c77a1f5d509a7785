package models

import "time"

// SignalType represents the direction of a trading signal.
type SignalType string

const (
	SignalBuy  SignalType = "buy"
	SignalSell SignalType = "sell"
	SignalHold SignalType = "hold"
)

// Signal is an immutable AI-generated trading signal. The client can
// request generation and re-read the set, but never mutates one.
type Signal struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	AssetID     string     `json:"asset_id"`
	SignalType  SignalType `json:"signal_type"`
	Confidence  float64    `json:"confidence"` // 0..1
	PriceTarget *float64   `json:"price_target,omitempty"`
	StopLoss    *float64   `json:"stop_loss,omitempty"`
	Timeframe   string     `json:"timeframe"` // short_term, medium_term, long_term
	Rationale   string     `json:"rationale"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	IsActive    bool       `json:"is_active"`
}

// GenerateSignalsResult is the acknowledgment of a generation request.
type GenerateSignalsResult struct {
	Message string   `json:"message"`
	Signals []Signal `json:"signals"`
}
