package models

import (
	"strings"
	"time"

	"investctl/internal/errors"
)

// APIConfig holds a user's credentials for one provider. The service
// keeps at most one config per provider; saving a new one replaces it.
type APIConfig struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Provider       Provider  `json:"provider"`
	APIKey         string    `json:"api_key"`
	APISecret      string    `json:"api_secret"`
	IsPaperTrading bool      `json:"is_paper_trading"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// MaskedKey returns the API key with all but the last four characters
// hidden, for display.
func (c APIConfig) MaskedKey() string {
	if len(c.APIKey) <= 4 {
		return strings.Repeat("*", len(c.APIKey))
	}
	return strings.Repeat("*", len(c.APIKey)-4) + c.APIKey[len(c.APIKey)-4:]
}

// APIConfigRequest is the write shape for saving a provider config.
type APIConfigRequest struct {
	Provider       Provider `json:"provider"`
	APIKey         string   `json:"api_key"`
	APISecret      string   `json:"api_secret"`
	IsPaperTrading bool     `json:"is_paper_trading"`
}

// Validate checks the request before submission.
func (r APIConfigRequest) Validate() error {
	if r.Provider == "" {
		return errors.NewValidationError("provider", r.Provider, "provider is required")
	}
	if r.APIKey == "" {
		return errors.NewValidationError("api_key", "", "API key is required")
	}
	if r.APISecret == "" {
		return errors.NewValidationError("api_secret", "", "API secret is required")
	}
	return nil
}

// RiskSettings is the singleton risk-management configuration.
// TrailingStopPct is required exactly when TrailingStopLoss is set.
type RiskSettings struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	MaxPositionSize  float64   `json:"max_position_size"`  // % of portfolio
	MaxLossPerTrade  float64   `json:"max_loss_per_trade"` // % of portfolio
	DefaultStopLoss  float64   `json:"default_stop_loss"`  // % below entry
	TrailingStopLoss bool      `json:"trailing_stop_loss"`
	TrailingStopPct  *float64  `json:"trailing_stop_pct,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Validate enforces the cross-field invariant before submission.
func (s RiskSettings) Validate() error {
	if s.MaxPositionSize <= 0 || s.MaxPositionSize > 100 {
		return errors.NewValidationError("max_position_size", s.MaxPositionSize, "must be between 0 and 100")
	}
	if s.MaxLossPerTrade <= 0 || s.MaxLossPerTrade > 100 {
		return errors.NewValidationError("max_loss_per_trade", s.MaxLossPerTrade, "must be between 0 and 100")
	}
	if s.DefaultStopLoss < 0 || s.DefaultStopLoss > 100 {
		return errors.NewValidationError("default_stop_loss", s.DefaultStopLoss, "must be between 0 and 100")
	}
	if s.TrailingStopLoss && s.TrailingStopPct == nil {
		return errors.NewValidationError("trailing_stop_pct", nil, "required when trailing stop loss is enabled")
	}
	return nil
}
