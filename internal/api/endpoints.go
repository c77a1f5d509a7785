package api

import (
	"context"
	"fmt"
	"strconv"

	"investctl/internal/models"
)

// Token is the response of the token endpoint.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RegisterRequest is the body of the register endpoint.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token. The endpoint is
// form-encoded, unlike the rest of the service.
func (c *Client) Login(ctx context.Context, username, password string) (Token, error) {
	var tok Token
	err := c.postForm(ctx, "/auth/token", map[string]string{
		"username": username,
		"password": password,
	}, &tok)
	return tok, err
}

// Register creates a new user account. It does not log the user in.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (models.User, error) {
	var user models.User
	err := c.postJSON(ctx, "/auth/register", req, &user)
	return user, err
}

// Me returns the authenticated user. A 401 here means the stored
// session is no longer valid.
func (c *Client) Me(ctx context.Context) (models.User, error) {
	var user models.User
	err := c.get(ctx, "/auth/me", nil, &user)
	return user, err
}

// PortfolioSummary returns the latest portfolio snapshot.
func (c *Client) PortfolioSummary(ctx context.Context) (models.PortfolioSummary, error) {
	var summary models.PortfolioSummary
	err := c.get(ctx, "/portfolio/summary", nil, &summary)
	return summary, err
}

// Positions returns all open positions.
func (c *Client) Positions(ctx context.Context) ([]models.Position, error) {
	var positions []models.Position
	err := c.get(ctx, "/portfolio/positions", nil, &positions)
	return positions, err
}

// PortfolioHistory returns portfolio snapshots ordered by time
// ascending.
func (c *Client) PortfolioHistory(ctx context.Context) ([]models.PortfolioSummary, error) {
	var history []models.PortfolioSummary
	err := c.get(ctx, "/portfolio/history", nil, &history)
	return history, err
}

// Signals lists trading signals. limit <= 0 means no limit parameter.
func (c *Client) Signals(ctx context.Context, activeOnly bool, limit int) ([]models.Signal, error) {
	query := map[string]string{
		"active_only": strconv.FormatBool(activeOnly),
	}
	if limit > 0 {
		query["limit"] = strconv.Itoa(limit)
	}
	var signals []models.Signal
	err := c.get(ctx, "/signals", query, &signals)
	return signals, err
}

// GenerateSignals requests fresh signals for the given symbols. The
// body is a bare JSON array of symbols.
func (c *Client) GenerateSignals(ctx context.Context, symbols []string) (models.GenerateSignalsResult, error) {
	var result models.GenerateSignalsResult
	err := c.postJSON(ctx, "/ai/generate_signals", symbols, &result)
	return result, err
}

// Trades returns the trade history. limit <= 0 means no limit
// parameter.
func (c *Client) Trades(ctx context.Context, limit int) ([]models.Trade, error) {
	var query map[string]string
	if limit > 0 {
		query = map[string]string{"limit": strconv.Itoa(limit)}
	}
	var trades []models.Trade
	err := c.get(ctx, "/trades", query, &trades)
	return trades, err
}

// Alerts lists alerts. limit <= 0 means no limit parameter.
func (c *Client) Alerts(ctx context.Context, unreadOnly bool, limit int) ([]models.Alert, error) {
	query := map[string]string{
		"unread_only": strconv.FormatBool(unreadOnly),
	}
	if limit > 0 {
		query["limit"] = strconv.Itoa(limit)
	}
	var alerts []models.Alert
	err := c.get(ctx, "/alerts", query, &alerts)
	return alerts, err
}

// MarkAlertRead marks a single alert as read.
func (c *Client) MarkAlertRead(ctx context.Context, alertID string) error {
	return c.postJSON(ctx, fmt.Sprintf("/alerts/%s/read", alertID), nil, nil)
}

// MarketAssets lists tradable assets. assetType may be empty.
func (c *Client) MarketAssets(ctx context.Context, assetType models.AssetType) ([]models.Asset, error) {
	var query map[string]string
	if assetType != "" {
		query = map[string]string{"asset_type": string(assetType)}
	}
	var assets []models.Asset
	err := c.get(ctx, "/market/assets", query, &assets)
	return assets, err
}

// MarketData returns the price series for a symbol. interval may be
// empty for the server default; limit <= 0 omits the parameter.
func (c *Client) MarketData(ctx context.Context, symbol, interval string, limit int) (models.MarketData, error) {
	query := map[string]string{}
	if interval != "" {
		query["interval"] = interval
	}
	if limit > 0 {
		query["limit"] = strconv.Itoa(limit)
	}
	var data models.MarketData
	err := c.get(ctx, fmt.Sprintf("/market/data/%s", symbol), query, &data)
	return data, err
}

// APIConfigs returns the stored exchange credentials. Keys arrive
// masked from the server.
func (c *Client) APIConfigs(ctx context.Context) ([]models.APIConfig, error) {
	var configs []models.APIConfig
	err := c.get(ctx, "/trading/config", nil, &configs)
	return configs, err
}

// SaveAPIConfig creates or replaces the config for the request's
// provider.
func (c *Client) SaveAPIConfig(ctx context.Context, req models.APIConfigRequest) (models.APIConfig, error) {
	var cfg models.APIConfig
	err := c.postJSON(ctx, "/trading/config", req, &cfg)
	return cfg, err
}

// DeleteAPIConfig removes a stored exchange credential.
func (c *Client) DeleteAPIConfig(ctx context.Context, configID string) error {
	return c.delete(ctx, fmt.Sprintf("/trading/config/%s", configID))
}

// RiskSettings returns the current risk settings, server defaults if
// none were saved yet.
func (c *Client) RiskSettings(ctx context.Context) (models.RiskSettings, error) {
	var settings models.RiskSettings
	err := c.get(ctx, "/settings/risk", nil, &settings)
	return settings, err
}

// SaveRiskSettings replaces the risk settings.
func (c *Client) SaveRiskSettings(ctx context.Context, settings models.RiskSettings) (models.RiskSettings, error) {
	var saved models.RiskSettings
	err := c.postJSON(ctx, "/settings/risk", settings, &saved)
	return saved, err
}

// AIModels lists the configured signal-generation models.
func (c *Client) AIModels(ctx context.Context) ([]models.AIModel, error) {
	var aiModels []models.AIModel
	err := c.get(ctx, "/ai/models", nil, &aiModels)
	return aiModels, err
}

// News returns news sentiment items, optionally filtered by symbol.
func (c *Client) News(ctx context.Context, symbol string, limit int) ([]models.NewsSentiment, error) {
	query := map[string]string{}
	if symbol != "" {
		query["symbol"] = symbol
	}
	if limit > 0 {
		query["limit"] = strconv.Itoa(limit)
	}
	var news []models.NewsSentiment
	err := c.get(ctx, "/news", query, &news)
	return news, err
}
