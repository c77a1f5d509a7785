package workflows

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"investctl/internal/api"
	"investctl/internal/errors"
	"investctl/internal/models"
	"investctl/internal/store"
)

type fakeService struct {
	loginErr    error
	registerErr error
	generateErr error
	refreshErr  error
	markErr     error
	saveCfgErr  error
	deleteErr   error
	saveRiskErr error

	loginCalls    int
	generateCalls int
	markedID      string
	savedReq      models.APIConfigRequest
	deletedID     string
	savedRisk     models.RiskSettings
	refreshed     []models.Signal
}

func (f *fakeService) Login(ctx context.Context, username, password string) (api.Token, error) {
	f.loginCalls++
	if f.loginErr != nil {
		return api.Token{}, f.loginErr
	}
	return api.Token{AccessToken: "tok-" + username, TokenType: "bearer"}, nil
}

func (f *fakeService) Register(ctx context.Context, req api.RegisterRequest) (models.User, error) {
	if f.registerErr != nil {
		return models.User{}, f.registerErr
	}
	return models.User{Username: req.Username, Email: req.Email}, nil
}

func (f *fakeService) GenerateSignals(ctx context.Context, symbols []string) (models.GenerateSignalsResult, error) {
	f.generateCalls++
	if f.generateErr != nil {
		return models.GenerateSignalsResult{}, f.generateErr
	}
	return models.GenerateSignalsResult{Message: "ok", Signals: []models.Signal{{ID: "new"}}}, nil
}

func (f *fakeService) Signals(ctx context.Context, activeOnly bool, limit int) ([]models.Signal, error) {
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.refreshed, nil
}

func (f *fakeService) MarkAlertRead(ctx context.Context, alertID string) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.markedID = alertID
	return nil
}

func (f *fakeService) SaveAPIConfig(ctx context.Context, req models.APIConfigRequest) (models.APIConfig, error) {
	if f.saveCfgErr != nil {
		return models.APIConfig{}, f.saveCfgErr
	}
	f.savedReq = req
	return models.APIConfig{ID: "cfg-new", Provider: req.Provider, APIKey: req.APIKey}, nil
}

func (f *fakeService) DeleteAPIConfig(ctx context.Context, configID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedID = configID
	return nil
}

func (f *fakeService) SaveRiskSettings(ctx context.Context, settings models.RiskSettings) (models.RiskSettings, error) {
	if f.saveRiskErr != nil {
		return models.RiskSettings{}, f.saveRiskErr
	}
	f.savedRisk = settings
	return settings, nil
}

type fakeSessions struct {
	token   string
	cleared bool
}

func (f *fakeSessions) Set(token string) error { f.token = token; return nil }
func (f *fakeSessions) Clear() error           { f.cleared = true; f.token = ""; return nil }

type fakeJournal struct {
	kinds []store.EntryKind
}

func (f *fakeJournal) Record(ctx context.Context, kind store.EntryKind, detail string) error {
	f.kinds = append(f.kinds, kind)
	return nil
}

func newWorkflows(svc *fakeService) (*Workflows, *fakeSessions, *fakeJournal) {
	sessions := &fakeSessions{}
	journal := &fakeJournal{}
	return New(svc, sessions, journal, zerolog.Nop()), sessions, journal
}

func TestLoginStoresToken(t *testing.T) {
	w, sessions, journal := newWorkflows(&fakeService{})

	if err := w.Login(context.Background(), "alice", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sessions.token != "tok-alice" {
		t.Fatalf("token = %q", sessions.token)
	}
	if len(journal.kinds) != 1 || journal.kinds[0] != store.EntryLogin {
		t.Fatalf("journal = %v", journal.kinds)
	}
}

func TestLoginRejectsEmptyCredentials(t *testing.T) {
	svc := &fakeService{}
	w, sessions, _ := newWorkflows(svc)

	err := w.Login(context.Background(), "", "pw")
	if !errors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if svc.loginCalls != 0 {
		t.Fatal("invalid credentials must not reach the service")
	}
	if sessions.token != "" {
		t.Fatal("no token should be stored")
	}
}

func TestLoginFailureLeavesSessionEmpty(t *testing.T) {
	svc := &fakeService{loginErr: errors.NewAPIError(errors.KindUnauthorized, 401, "bad credentials", nil)}
	w, sessions, journal := newWorkflows(svc)

	if err := w.Login(context.Background(), "alice", "wrong"); err == nil {
		t.Fatal("expected error")
	}
	if sessions.token != "" {
		t.Fatal("failed login must not store a token")
	}
	if len(journal.kinds) != 0 {
		t.Fatal("failed login must not be journaled")
	}
}

func TestRegisterLogsInOnSuccess(t *testing.T) {
	w, sessions, journal := newWorkflows(&fakeService{})

	user, err := w.Register(context.Background(), "bob", "bob@example.com", "secret1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Username != "bob" {
		t.Fatalf("user = %+v", user)
	}
	if sessions.token != "tok-bob" {
		t.Fatalf("token = %q", sessions.token)
	}
	if len(journal.kinds) != 2 || journal.kinds[0] != store.EntryRegister || journal.kinds[1] != store.EntryLogin {
		t.Fatalf("journal = %v", journal.kinds)
	}
}

func TestRegisterFailedLoginLeavesLoggedOut(t *testing.T) {
	svc := &fakeService{loginErr: errors.NewAPIError(errors.KindServerError, 500, "boom", nil)}
	w, sessions, _ := newWorkflows(svc)

	_, err := w.Register(context.Background(), "bob", "bob@example.com", "secret1")
	if err == nil {
		t.Fatal("expected error")
	}
	if sessions.token != "" {
		t.Fatal("token must be set only when register and login both succeed")
	}
}

func TestRegisterValidatesInput(t *testing.T) {
	svc := &fakeService{}
	w, _, _ := newWorkflows(svc)

	cases := []struct{ username, email, password string }{
		{"", "a@b.com", "secret1"},
		{"bob", "not-an-email", "secret1"},
		{"bob", "a@b.com", "short"},
	}
	for _, tc := range cases {
		if _, err := w.Register(context.Background(), tc.username, tc.email, tc.password); !errors.IsValidation(err) {
			t.Fatalf("Register(%q,%q): expected validation error, got %v", tc.username, tc.email, err)
		}
	}
	if svc.loginCalls != 0 {
		t.Fatal("rejected input must not reach the service")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	w, sessions, journal := newWorkflows(&fakeService{})
	sessions.token = "tok"

	if err := w.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if !sessions.cleared {
		t.Fatal("session not cleared")
	}
	if len(journal.kinds) != 1 || journal.kinds[0] != store.EntryLogout {
		t.Fatalf("journal = %v", journal.kinds)
	}
}

func TestGenerateSignalsRejectsEmptySelection(t *testing.T) {
	svc := &fakeService{}
	w, _, _ := newWorkflows(svc)

	_, _, err := w.GenerateSignals(context.Background(), nil)
	if !errors.Is(err, errors.ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection, got %v", err)
	}
	if svc.generateCalls != 0 {
		t.Fatal("empty selection must not reach the service")
	}
}

func TestGenerateSignalsRefetchesList(t *testing.T) {
	svc := &fakeService{refreshed: []models.Signal{{ID: "s1"}, {ID: "s2"}}}
	w, _, journal := newWorkflows(svc)

	result, refreshed, err := w.GenerateSignals(context.Background(), []string{"AAPL"})
	if err != nil {
		t.Fatalf("GenerateSignals: %v", err)
	}
	if result.Message != "ok" {
		t.Fatalf("result = %+v", result)
	}
	if len(refreshed) != 2 {
		t.Fatalf("refreshed = %+v", refreshed)
	}
	if len(journal.kinds) != 1 || journal.kinds[0] != store.EntrySignalsGenerated {
		t.Fatalf("journal = %v", journal.kinds)
	}
}

func TestMarkAlertReadPatchesExactlyOne(t *testing.T) {
	w, _, _ := newWorkflows(&fakeService{})

	alerts := []models.Alert{
		{ID: "a1", IsRead: false},
		{ID: "a2", IsRead: false},
	}
	patched, err := w.MarkAlertRead(context.Background(), alerts, "a2")
	if err != nil {
		t.Fatalf("MarkAlertRead: %v", err)
	}
	if patched[0].IsRead || !patched[1].IsRead {
		t.Fatalf("patched = %+v", patched)
	}
	if alerts[1].IsRead {
		t.Fatal("input slice must not be mutated")
	}
}

func TestMarkAlertReadFailureKeepsProjection(t *testing.T) {
	svc := &fakeService{markErr: errors.NewAPIError(errors.KindNotFound, 404, "Alert not found", nil)}
	w, _, journal := newWorkflows(svc)

	alerts := []models.Alert{{ID: "a1"}}
	out, err := w.MarkAlertRead(context.Background(), alerts, "a1")
	if !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if out[0].IsRead {
		t.Fatal("failed ack must not flip the flag")
	}
	if len(journal.kinds) != 0 {
		t.Fatal("failed ack must not be journaled")
	}
}

func TestUnauthorizedMutationEvictsSession(t *testing.T) {
	stale := errors.NewAPIError(errors.KindUnauthorized, 401, "token rejected", errors.ErrSessionExpired)
	svc := &fakeService{markErr: stale, generateErr: stale, deleteErr: stale}
	w, sessions, _ := newWorkflows(svc)
	sessions.token = "stale-token"

	if _, err := w.MarkAlertRead(context.Background(), []models.Alert{{ID: "a1"}}, "a1"); err == nil {
		t.Fatal("expected error")
	}
	if !sessions.cleared || sessions.token != "" {
		t.Fatalf("session not evicted after 401: cleared=%v token=%q", sessions.cleared, sessions.token)
	}

	sessions.cleared = false
	sessions.token = "stale-token"
	if _, _, err := w.GenerateSignals(context.Background(), []string{"AAPL"}); err == nil {
		t.Fatal("expected error")
	}
	if !sessions.cleared {
		t.Fatal("generate must also evict on 401")
	}

	sessions.cleared = false
	sessions.token = "stale-token"
	if _, err := w.DeleteAPIConfig(context.Background(), nil, "cfg-1"); err == nil {
		t.Fatal("expected error")
	}
	if !sessions.cleared {
		t.Fatal("delete must also evict on 401")
	}
}

func TestNonAuthFailureKeepsSession(t *testing.T) {
	svc := &fakeService{markErr: errors.NewAPIError(errors.KindServerError, 500, "boom", nil)}
	w, sessions, _ := newWorkflows(svc)
	sessions.token = "tok"

	if _, err := w.MarkAlertRead(context.Background(), nil, "a1"); err == nil {
		t.Fatal("expected error")
	}
	if sessions.cleared || sessions.token != "tok" {
		t.Fatalf("a 5xx must not evict the session: cleared=%v token=%q", sessions.cleared, sessions.token)
	}
}

func TestSaveAPIConfigUpsertsByProvider(t *testing.T) {
	w, _, _ := newWorkflows(&fakeService{})

	existing := []models.APIConfig{
		{ID: "cfg-old", Provider: models.ProviderAlpaca, APIKey: "old-key"},
		{ID: "cfg-b", Provider: models.ProviderBinance},
	}
	req := models.APIConfigRequest{Provider: models.ProviderAlpaca, APIKey: "new-key", APISecret: "s"}

	updated, saved, err := w.SaveAPIConfig(context.Background(), existing, req)
	if err != nil {
		t.Fatalf("SaveAPIConfig: %v", err)
	}
	if len(updated) != 2 {
		t.Fatalf("upsert must replace, not append: %+v", updated)
	}
	if updated[0].ID != saved.ID || updated[0].APIKey != "new-key" {
		t.Fatalf("alpaca entry not replaced: %+v", updated[0])
	}
}

func TestSaveAPIConfigAppendsNewProvider(t *testing.T) {
	w, _, _ := newWorkflows(&fakeService{})

	req := models.APIConfigRequest{Provider: models.ProviderBinance, APIKey: "k", APISecret: "s"}
	updated, _, err := w.SaveAPIConfig(context.Background(), nil, req)
	if err != nil {
		t.Fatalf("SaveAPIConfig: %v", err)
	}
	if len(updated) != 1 || updated[0].Provider != models.ProviderBinance {
		t.Fatalf("updated = %+v", updated)
	}
}

func TestSaveAPIConfigValidatesBeforeSubmit(t *testing.T) {
	svc := &fakeService{}
	w, _, _ := newWorkflows(svc)

	_, _, err := w.SaveAPIConfig(context.Background(), nil, models.APIConfigRequest{Provider: models.ProviderAlpaca})
	if !errors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if svc.savedReq.Provider != "" {
		t.Fatal("invalid request must not reach the service")
	}
}

func TestDeleteAPIConfigDropsFromProjection(t *testing.T) {
	w, _, journal := newWorkflows(&fakeService{})

	configs := []models.APIConfig{{ID: "cfg-1"}, {ID: "cfg-2"}}
	remaining, err := w.DeleteAPIConfig(context.Background(), configs, "cfg-1")
	if err != nil {
		t.Fatalf("DeleteAPIConfig: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != "cfg-2" {
		t.Fatalf("remaining = %+v", remaining)
	}
	if len(journal.kinds) != 1 || journal.kinds[0] != store.EntryConfigDeleted {
		t.Fatalf("journal = %v", journal.kinds)
	}
}

func TestSaveRiskSettingsEnforcesTrailingInvariant(t *testing.T) {
	svc := &fakeService{}
	w, _, _ := newWorkflows(svc)

	settings := models.RiskSettings{
		MaxPositionSize:  10,
		MaxLossPerTrade:  2,
		DefaultStopLoss:  5,
		TrailingStopLoss: true,
		// TrailingStopPct deliberately missing
	}
	_, err := w.SaveRiskSettings(context.Background(), settings)
	if !errors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if svc.savedRisk.MaxPositionSize != 0 {
		t.Fatal("invalid settings must not reach the service")
	}

	pct := 3.5
	settings.TrailingStopPct = &pct
	saved, err := w.SaveRiskSettings(context.Background(), settings)
	if err != nil {
		t.Fatalf("SaveRiskSettings: %v", err)
	}
	if saved.TrailingStopPct == nil || *saved.TrailingStopPct != 3.5 {
		t.Fatalf("saved = %+v", saved)
	}
}

func TestNilJournalIsAllowed(t *testing.T) {
	w := New(&fakeService{}, &fakeSessions{}, nil, zerolog.Nop())
	if err := w.Login(context.Background(), "alice", "pw"); err != nil {
		t.Fatalf("Login with nil journal: %v", err)
	}
}
