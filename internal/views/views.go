package views

import (
	"context"

	"github.com/rs/zerolog"

	"investctl/internal/config"
	"investctl/internal/logging"
	"investctl/internal/models"
)

// Service is the read surface of the remote API that views consume.
// *api.Client satisfies it.
type Service interface {
	PortfolioSummary(ctx context.Context) (models.PortfolioSummary, error)
	Positions(ctx context.Context) ([]models.Position, error)
	PortfolioHistory(ctx context.Context) ([]models.PortfolioSummary, error)
	Signals(ctx context.Context, activeOnly bool, limit int) ([]models.Signal, error)
	Trades(ctx context.Context, limit int) ([]models.Trade, error)
	Alerts(ctx context.Context, unreadOnly bool, limit int) ([]models.Alert, error)
	MarketAssets(ctx context.Context, assetType models.AssetType) ([]models.Asset, error)
	MarketData(ctx context.Context, symbol, interval string, limit int) (models.MarketData, error)
	APIConfigs(ctx context.Context) ([]models.APIConfig, error)
	RiskSettings(ctx context.Context) (models.RiskSettings, error)
	AIModels(ctx context.Context) ([]models.AIModel, error)
}

// Loader builds page models from the remote service.
type Loader struct {
	svc Service
	cfg config.DashboardConfig
	log zerolog.Logger
}

// NewLoader creates a Loader.
func NewLoader(svc Service, cfg config.DashboardConfig, log zerolog.Logger) *Loader {
	return &Loader{svc: svc, cfg: cfg, log: log}
}

// SymbolQuote is the derived per-symbol card on the dashboard. Change
// is present only when the series carries at least two bars; a short
// series is shown without a change figure rather than a wrong one.
type SymbolQuote struct {
	Symbol        string
	Latest        models.Bar
	HasLatest     bool
	PercentChange float64
	HasChange     bool
}

// NewSymbolQuote derives a quote card from a market series.
func NewSymbolQuote(data models.MarketData) SymbolQuote {
	q := SymbolQuote{Symbol: data.Symbol}
	q.Latest, q.HasLatest = data.Data.Latest()
	q.PercentChange, q.HasChange = data.Data.PercentChange()
	return q
}

// Dashboard is the landing page model.
type Dashboard struct {
	Summary models.PortfolioSummary
	Signals []models.Signal
	Alerts  []models.Alert
	Quotes  []SymbolQuote
}

// LoadDashboard fetches the dashboard reads in parallel: summary,
// recent active signals, recent unread alerts, and one market series
// per configured symbol.
func (l *Loader) LoadDashboard(ctx context.Context) State[Dashboard] {
	log := logging.WithView(l.log, "dashboard")

	var d Dashboard
	quotes := make([]SymbolQuote, len(l.cfg.Symbols))

	reads := []read{
		{"portfolio_summary", func(ctx context.Context) error {
			var err error
			d.Summary, err = l.svc.PortfolioSummary(ctx)
			return err
		}},
		{"signals", func(ctx context.Context) error {
			var err error
			d.Signals, err = l.svc.Signals(ctx, true, l.cfg.SignalLimit)
			return err
		}},
		{"alerts", func(ctx context.Context) error {
			var err error
			d.Alerts, err = l.svc.Alerts(ctx, true, l.cfg.AlertLimit)
			return err
		}},
	}
	for i, symbol := range l.cfg.Symbols {
		i, symbol := i, symbol
		reads = append(reads, read{"market_data:" + symbol, func(ctx context.Context) error {
			data, err := l.svc.MarketData(ctx, symbol, l.cfg.DataInterval, 0)
			if err != nil {
				return err
			}
			quotes[i] = NewSymbolQuote(data)
			return nil
		}})
	}

	if err := fetchAll(ctx, "dashboard", reads...); err != nil {
		log.Error().Err(err).Msg("view load failed")
		return NewFailed[Dashboard](err)
	}
	d.Quotes = quotes
	log.Debug().Int("signals", len(d.Signals)).Int("alerts", len(d.Alerts)).Msg("view ready")
	return NewReady(d)
}

// Portfolio is the holdings page model.
type Portfolio struct {
	Summary   models.PortfolioSummary
	Positions []models.Position
	History   []models.PortfolioSummary
}

// LoadPortfolio fetches summary, positions, and history in parallel.
// History arrives ordered by time ascending.
func (l *Loader) LoadPortfolio(ctx context.Context) State[Portfolio] {
	log := logging.WithView(l.log, "portfolio")

	var p Portfolio
	err := fetchAll(ctx, "portfolio",
		read{"portfolio_summary", func(ctx context.Context) error {
			var err error
			p.Summary, err = l.svc.PortfolioSummary(ctx)
			return err
		}},
		read{"positions", func(ctx context.Context) error {
			var err error
			p.Positions, err = l.svc.Positions(ctx)
			return err
		}},
		read{"history", func(ctx context.Context) error {
			var err error
			p.History, err = l.svc.PortfolioHistory(ctx)
			return err
		}},
	)
	if err != nil {
		log.Error().Err(err).Msg("view load failed")
		return NewFailed[Portfolio](err)
	}
	return NewReady(p)
}

// SignalsPage pairs the signal list with the asset catalog used for
// symbol selection.
type SignalsPage struct {
	Signals []models.Signal
	Assets  []models.Asset
}

// LoadSignals fetches signals and assets in parallel.
func (l *Loader) LoadSignals(ctx context.Context, activeOnly bool, limit int) State[SignalsPage] {
	log := logging.WithView(l.log, "signals")

	var p SignalsPage
	err := fetchAll(ctx, "signals",
		read{"signals", func(ctx context.Context) error {
			var err error
			p.Signals, err = l.svc.Signals(ctx, activeOnly, limit)
			return err
		}},
		read{"assets", func(ctx context.Context) error {
			var err error
			p.Assets, err = l.svc.MarketAssets(ctx, "")
			return err
		}},
	)
	if err != nil {
		log.Error().Err(err).Msg("view load failed")
		return NewFailed[SignalsPage](err)
	}
	return NewReady(p)
}

// LoadTrades fetches the trade history, newest first.
func (l *Loader) LoadTrades(ctx context.Context, limit int) State[[]models.Trade] {
	trades, err := l.svc.Trades(ctx, limit)
	if err != nil {
		log := logging.WithView(l.log, "trades")
		log.Error().Err(err).Msg("view load failed")
		return NewFailed[[]models.Trade](err)
	}
	return NewReady(trades)
}

// alertPageSize bounds the alerts page to the most recent entries.
const alertPageSize = 50

// LoadAlerts fetches all alerts, read and unread.
func (l *Loader) LoadAlerts(ctx context.Context) State[[]models.Alert] {
	alerts, err := l.svc.Alerts(ctx, false, alertPageSize)
	if err != nil {
		log := logging.WithView(l.log, "alerts")
		log.Error().Err(err).Msg("view load failed")
		return NewFailed[[]models.Alert](err)
	}
	return NewReady(alerts)
}

// SettingsPage collects everything the settings surface shows.
type SettingsPage struct {
	Configs []models.APIConfig
	Risk    models.RiskSettings
	Models  []models.AIModel
}

// LoadSettings fetches exchange configs, risk settings, and the AI
// model catalog in parallel.
func (l *Loader) LoadSettings(ctx context.Context) State[SettingsPage] {
	log := logging.WithView(l.log, "settings")

	var p SettingsPage
	err := fetchAll(ctx, "settings",
		read{"api_configs", func(ctx context.Context) error {
			var err error
			p.Configs, err = l.svc.APIConfigs(ctx)
			return err
		}},
		read{"risk_settings", func(ctx context.Context) error {
			var err error
			p.Risk, err = l.svc.RiskSettings(ctx)
			return err
		}},
		read{"ai_models", func(ctx context.Context) error {
			var err error
			p.Models, err = l.svc.AIModels(ctx)
			return err
		}},
	)
	if err != nil {
		log.Error().Err(err).Msg("view load failed")
		return NewFailed[SettingsPage](err)
	}
	return NewReady(p)
}
