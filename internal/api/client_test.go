package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"investctl/internal/config"
	"investctl/internal/errors"
	"investctl/internal/models"
)

type staticToken string

func (s staticToken) Get() (string, bool) {
	return string(s), s != ""
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := New(config.ServiceConfig{
		BaseURL:        srv.URL,
		RequestTimeout: 5 * time.Second,
	}, staticToken("test-token"), zerolog.Nop())
	return client, srv
}

func TestRequestsCarryBearerToken(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(models.User{Username: "alice"})
	}))

	if _, err := client.Me(context.Background()); err != nil {
		t.Fatalf("Me: %v", err)
	}
	if gotAuth != "Bearer test-token" {
		t.Fatalf("Authorization = %q, want bearer token", gotAuth)
	}
}

func TestNoTokenNoAuthorizationHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]models.Asset{})
	}))
	defer srv.Close()

	client := New(config.ServiceConfig{BaseURL: srv.URL, RequestTimeout: 5 * time.Second},
		staticToken(""), zerolog.Nop())

	if _, err := client.MarketAssets(context.Background(), ""); err != nil {
		t.Fatalf("MarketAssets: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("unexpected Authorization header %q", gotAuth)
	}
}

func TestRoutesUseAPIPrefix(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(models.PortfolioSummary{})
	}))

	if _, err := client.PortfolioSummary(context.Background()); err != nil {
		t.Fatalf("PortfolioSummary: %v", err)
	}
	if gotPath != "/api/portfolio/summary" {
		t.Fatalf("path = %q, want /api/portfolio/summary", gotPath)
	}
}

func TestLoginIsFormEncoded(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		if r.PostFormValue("username") != "alice" || r.PostFormValue("password") != "s3cret" {
			t.Errorf("form = %v", r.PostForm)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Token{AccessToken: "tok-1", TokenType: "bearer"})
	}))

	tok, err := client.Login(context.Background(), "alice", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tok.AccessToken != "tok-1" {
		t.Fatalf("AccessToken = %q", tok.AccessToken)
	}
}

func TestClassifyUnauthorized(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
	}))

	_, err := client.Me(context.Background())
	if !errors.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized classification, got %v", err)
	}
	if !errors.Is(err, errors.ErrSessionExpired) {
		t.Fatalf("401 should wrap ErrSessionExpired, got %v", err)
	}
}

func TestClassifyNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Alert not found"})
	}))

	err := client.MarkAlertRead(context.Background(), "missing")
	if !errors.IsNotFound(err) {
		t.Fatalf("expected not-found classification, got %v", err)
	}
}

func TestClassifyValidationCarriesDetail(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Username already registered"})
	}))

	_, err := client.Register(context.Background(), RegisterRequest{Username: "alice"})
	if !errors.IsValidation(err) {
		t.Fatalf("expected validation classification, got %v", err)
	}
	var apiErr *errors.APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Username already registered" {
		t.Fatalf("detail not carried, got %v", err)
	}
}

func TestClassifyServerError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := client.Trades(context.Background(), 0)
	var apiErr *errors.APIError
	if !errors.As(err, &apiErr) || apiErr.Kind != errors.KindServerError {
		t.Fatalf("expected server-error classification, got %v", err)
	}
}

func TestClassifyNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // refuse all connections

	client := New(config.ServiceConfig{BaseURL: srv.URL, RequestTimeout: time.Second},
		staticToken(""), zerolog.Nop())

	_, err := client.PortfolioSummary(context.Background())
	var apiErr *errors.APIError
	if !errors.As(err, &apiErr) || apiErr.Kind != errors.KindNetworkError {
		t.Fatalf("expected network classification, got %v", err)
	}
}

func TestSignalsQueryParams(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("active_only") != "true" || q.Get("limit") != "5" {
			t.Errorf("query = %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]models.Signal{{ID: "sig-1", SignalType: models.SignalBuy}})
	}))

	signals, err := client.Signals(context.Background(), true, 5)
	if err != nil {
		t.Fatalf("Signals: %v", err)
	}
	if len(signals) != 1 || signals[0].ID != "sig-1" {
		t.Fatalf("signals = %+v", signals)
	}
}

func TestTradesLimitParam(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("limit") != "10" {
			t.Errorf("limit = %q", q.Get("limit"))
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]models.Trade{{ID: "t1"}})
	}))

	trades, err := client.Trades(context.Background(), 10)
	if err != nil {
		t.Fatalf("Trades: %v", err)
	}
	if len(trades) != 1 || trades[0].ID != "t1" {
		t.Fatalf("trades = %+v", trades)
	}
}

func TestAlertsOmitsLimitWhenUnset(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("unread_only") != "true" {
			t.Errorf("unread_only = %q", q.Get("unread_only"))
		}
		if q.Has("limit") {
			t.Errorf("limit should be omitted, query = %v", q)
		}
		json.NewEncoder(w).Encode([]models.Alert{})
	}))

	if _, err := client.Alerts(context.Background(), true, 0); err != nil {
		t.Fatalf("Alerts: %v", err)
	}
}

func TestMarketDataPathAndParams(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/market/data/BTC" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("interval") != "1d" || q.Get("limit") != "100" {
			t.Errorf("query = %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.MarketData{Symbol: "BTC", Interval: "1d"})
	}))

	data, err := client.MarketData(context.Background(), "BTC", "1d", 100)
	if err != nil {
		t.Fatalf("MarketData: %v", err)
	}
	if data.Symbol != "BTC" {
		t.Fatalf("symbol = %q", data.Symbol)
	}
}

func TestGenerateSignalsBodyIsBareArray(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var symbols []string
		if err := json.NewDecoder(r.Body).Decode(&symbols); err != nil {
			t.Errorf("body is not a JSON array: %v", err)
		}
		if len(symbols) != 2 || symbols[0] != "AAPL" {
			t.Errorf("symbols = %v", symbols)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.GenerateSignalsResult{Message: "Generated 2 signals"})
	}))

	result, err := client.GenerateSignals(context.Background(), []string{"AAPL", "MSFT"})
	if err != nil {
		t.Fatalf("GenerateSignals: %v", err)
	}
	if result.Message == "" {
		t.Fatal("missing message")
	}
}

func TestDeleteAPIConfig(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/trading/config/cfg-1" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"message": "deleted"})
	}))

	if err := client.DeleteAPIConfig(context.Background(), "cfg-1"); err != nil {
		t.Fatalf("DeleteAPIConfig: %v", err)
	}
}

func TestContextCancellationSurfaces(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Positions(ctx)
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}
