package views

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"investctl/internal/config"
	"investctl/internal/errors"
	"investctl/internal/models"
)

// fakeService returns canned data, with per-read failure injection.
type fakeService struct {
	failRead  string // which read errors, by method
	slowRead  string // which read blocks until its context dies
	cancelled chan struct{}
}

func (f *fakeService) maybeFail(ctx context.Context, name string) error {
	if f.slowRead == name {
		<-ctx.Done()
		if f.cancelled != nil {
			close(f.cancelled)
		}
		return ctx.Err()
	}
	if f.failRead == name {
		return errors.NewAPIError(errors.KindServerError, 500, name, nil)
	}
	return nil
}

func (f *fakeService) PortfolioSummary(ctx context.Context) (models.PortfolioSummary, error) {
	return models.PortfolioSummary{PortfolioValue: 15000}, f.maybeFail(ctx, "summary")
}

func (f *fakeService) Positions(ctx context.Context) ([]models.Position, error) {
	return []models.Position{{ID: "p1"}}, f.maybeFail(ctx, "positions")
}

func (f *fakeService) PortfolioHistory(ctx context.Context) ([]models.PortfolioSummary, error) {
	return []models.PortfolioSummary{{}, {}}, f.maybeFail(ctx, "history")
}

func (f *fakeService) Signals(ctx context.Context, activeOnly bool, limit int) ([]models.Signal, error) {
	return []models.Signal{{ID: "s1"}}, f.maybeFail(ctx, "signals")
}

func (f *fakeService) Trades(ctx context.Context, limit int) ([]models.Trade, error) {
	return []models.Trade{{ID: "t1"}}, f.maybeFail(ctx, "trades")
}

func (f *fakeService) Alerts(ctx context.Context, unreadOnly bool, limit int) ([]models.Alert, error) {
	return []models.Alert{{ID: "a1"}}, f.maybeFail(ctx, "alerts")
}

func (f *fakeService) MarketAssets(ctx context.Context, assetType models.AssetType) ([]models.Asset, error) {
	return []models.Asset{{Symbol: "AAPL"}}, f.maybeFail(ctx, "assets")
}

func (f *fakeService) MarketData(ctx context.Context, symbol, interval string, limit int) (models.MarketData, error) {
	data := models.MarketData{
		Symbol:   symbol,
		Interval: interval,
		Data: models.Series{
			{Close: 100},
			{Close: 110},
		},
	}
	return data, f.maybeFail(ctx, "market:"+symbol)
}

func (f *fakeService) APIConfigs(ctx context.Context) ([]models.APIConfig, error) {
	return []models.APIConfig{{ID: "c1"}}, f.maybeFail(ctx, "configs")
}

func (f *fakeService) RiskSettings(ctx context.Context) (models.RiskSettings, error) {
	return models.RiskSettings{MaxPositionSize: 10}, f.maybeFail(ctx, "risk")
}

func (f *fakeService) AIModels(ctx context.Context) ([]models.AIModel, error) {
	return []models.AIModel{{Name: "momentum"}}, f.maybeFail(ctx, "models")
}

func testLoader(svc Service) *Loader {
	return NewLoader(svc, config.DashboardConfig{
		Symbols:      []string{"AAPL", "MSFT"},
		SignalLimit:  5,
		AlertLimit:   5,
		DataInterval: "1d",
	}, zerolog.Nop())
}

func TestDashboardReady(t *testing.T) {
	l := testLoader(&fakeService{})

	st := l.LoadDashboard(context.Background())
	if st.Phase != Ready {
		t.Fatalf("phase = %v, err = %v", st.Phase, st.Err)
	}
	if st.Data.Summary.PortfolioValue != 15000 {
		t.Fatalf("summary = %+v", st.Data.Summary)
	}
	if len(st.Data.Quotes) != 2 {
		t.Fatalf("quotes = %+v", st.Data.Quotes)
	}
	q := st.Data.Quotes[0]
	if q.Symbol != "AAPL" || !q.HasChange {
		t.Fatalf("quote = %+v", q)
	}
	if q.PercentChange < 9.99 || q.PercentChange > 10.01 {
		t.Fatalf("percent change = %v, want 10", q.PercentChange)
	}
}

func TestDashboardAllOrNothing(t *testing.T) {
	l := testLoader(&fakeService{failRead: "market:MSFT"})

	st := l.LoadDashboard(context.Background())
	if st.Phase != Failed {
		t.Fatalf("one failed read must fail the view, got phase %v", st.Phase)
	}
	var viewErr *errors.ViewError
	if !errors.As(st.Err, &viewErr) {
		t.Fatalf("expected ViewError, got %v", st.Err)
	}
	if viewErr.View != "dashboard" || viewErr.Read != "market_data:MSFT" {
		t.Fatalf("error names wrong read: %+v", viewErr)
	}
	if len(st.Data.Quotes) != 0 || len(st.Data.Signals) != 0 {
		t.Fatal("failed load must not expose partial data")
	}
}

func TestFailureCancelsSiblings(t *testing.T) {
	cancelled := make(chan struct{})
	l := testLoader(&fakeService{failRead: "summary", slowRead: "alerts", cancelled: cancelled})

	done := make(chan State[Dashboard], 1)
	go func() { done <- l.LoadDashboard(context.Background()) }()

	select {
	case st := <-done:
		if st.Phase != Failed {
			t.Fatalf("phase = %v", st.Phase)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("load did not return; sibling cancellation broken")
	}

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("slow sibling was never cancelled")
	}
}

func TestPortfolioReady(t *testing.T) {
	l := testLoader(&fakeService{})

	st := l.LoadPortfolio(context.Background())
	if st.Phase != Ready {
		t.Fatalf("phase = %v, err = %v", st.Phase, st.Err)
	}
	if len(st.Data.Positions) != 1 || len(st.Data.History) != 2 {
		t.Fatalf("portfolio = %+v", st.Data)
	}
}

func TestSignalsPageFailsOnAssetError(t *testing.T) {
	l := testLoader(&fakeService{failRead: "assets"})

	st := l.LoadSignals(context.Background(), true, 10)
	if st.Phase != Failed {
		t.Fatalf("phase = %v", st.Phase)
	}
	var viewErr *errors.ViewError
	if !errors.As(st.Err, &viewErr) || viewErr.Read != "assets" {
		t.Fatalf("err = %v", st.Err)
	}
}

func TestSettingsReady(t *testing.T) {
	l := testLoader(&fakeService{})

	st := l.LoadSettings(context.Background())
	if st.Phase != Ready {
		t.Fatalf("phase = %v, err = %v", st.Phase, st.Err)
	}
	if len(st.Data.Configs) != 1 || len(st.Data.Models) != 1 {
		t.Fatalf("settings = %+v", st.Data)
	}
}

func TestTradesAndAlerts(t *testing.T) {
	l := testLoader(&fakeService{})

	if st := l.LoadTrades(context.Background(), 20); st.Phase != Ready || len(st.Data) != 1 {
		t.Fatalf("trades state = %+v", st)
	}
	if st := l.LoadAlerts(context.Background()); st.Phase != Ready || len(st.Data) != 1 {
		t.Fatalf("alerts state = %+v", st)
	}
}

func TestSymbolQuoteShortSeries(t *testing.T) {
	q := NewSymbolQuote(models.MarketData{
		Symbol: "BTC",
		Data:   models.Series{{Close: 42000}},
	})
	if !q.HasLatest {
		t.Fatal("single bar still has a latest price")
	}
	if q.HasChange {
		t.Fatal("one bar cannot yield a percent change")
	}

	empty := NewSymbolQuote(models.MarketData{Symbol: "BTC"})
	if empty.HasLatest || empty.HasChange {
		t.Fatalf("empty series should have neither: %+v", empty)
	}
}
