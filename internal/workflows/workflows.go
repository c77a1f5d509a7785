// Package workflows implements the client's mutations. Every workflow
// follows the same shape: validate locally, submit, then refresh or
// patch the local projection. A failed workflow leaves state exactly
// as it was.
package workflows

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"investctl/internal/api"
	"investctl/internal/errors"
	"investctl/internal/logging"
	"investctl/internal/models"
	"investctl/internal/store"
)

// Service is the write surface of the remote API, plus the signal
// re-fetch that follows generation. *api.Client satisfies it.
type Service interface {
	Login(ctx context.Context, username, password string) (api.Token, error)
	Register(ctx context.Context, req api.RegisterRequest) (models.User, error)
	GenerateSignals(ctx context.Context, symbols []string) (models.GenerateSignalsResult, error)
	Signals(ctx context.Context, activeOnly bool, limit int) ([]models.Signal, error)
	MarkAlertRead(ctx context.Context, alertID string) error
	SaveAPIConfig(ctx context.Context, req models.APIConfigRequest) (models.APIConfig, error)
	DeleteAPIConfig(ctx context.Context, configID string) error
	SaveRiskSettings(ctx context.Context, settings models.RiskSettings) (models.RiskSettings, error)
}

// TokenSink is the session storage workflows write to.
type TokenSink interface {
	Set(token string) error
	Clear() error
}

// Recorder appends to the local activity journal.
type Recorder interface {
	Record(ctx context.Context, kind store.EntryKind, detail string) error
}

// Workflows executes mutations against the service.
type Workflows struct {
	svc      Service
	sessions TokenSink
	journal  Recorder
	log      zerolog.Logger
}

// New creates a Workflows. journal may be nil; activity is then not
// recorded.
func New(svc Service, sessions TokenSink, journal Recorder, log zerolog.Logger) *Workflows {
	return &Workflows{svc: svc, sessions: sessions, journal: journal, log: log}
}

// evictOn401 drops the stored session when the service rejected an
// authenticated call. The guard does the same on a failed liveness
// check; together they guarantee a rejected token never survives.
func (w *Workflows) evictOn401(err error) {
	if !errors.IsUnauthorized(err) {
		return
	}
	if clearErr := w.sessions.Clear(); clearErr != nil {
		w.log.Warn().Err(clearErr).Msg("failed to clear invalid session")
	}
	logging.LogSessionEvent(w.log, "evicted", err.Error())
}

// record writes a journal entry. The remote mutation already
// succeeded, so a journal failure is logged and swallowed.
func (w *Workflows) record(ctx context.Context, kind store.EntryKind, detail string) {
	if w.journal == nil {
		return
	}
	if err := w.journal.Record(ctx, kind, detail); err != nil {
		w.log.Warn().Err(err).Str("kind", string(kind)).Msg("failed to record activity")
	}
}

// Login exchanges credentials for a token and stores it.
func (w *Workflows) Login(ctx context.Context, username, password string) error {
	log := logging.WithWorkflow(w.log, "login")

	if username == "" || password == "" {
		return errors.NewValidationError("credentials", username, "username and password are required")
	}

	tok, err := w.svc.Login(ctx, username, password)
	if err != nil {
		log.Warn().Str("username", username).Err(err).Msg("login rejected")
		return err
	}
	if err := w.sessions.Set(tok.AccessToken); err != nil {
		return errors.Wrap(err, "failed to store session")
	}

	log.Info().Str("username", username).Msg("logged in")
	w.record(ctx, store.EntryLogin, username)
	return nil
}

// Register creates an account and immediately logs in. The token is
// stored only if both steps succeed; a failed login after a
// successful registration leaves the client logged out.
func (w *Workflows) Register(ctx context.Context, username, email, password string) (models.User, error) {
	log := logging.WithWorkflow(w.log, "register")

	if username == "" {
		return models.User{}, errors.NewValidationError("username", "", "username is required")
	}
	if !strings.Contains(email, "@") {
		return models.User{}, errors.NewValidationError("email", email, "a valid email is required")
	}
	if len(password) < 6 {
		return models.User{}, errors.NewValidationError("password", nil, "password must be at least 6 characters")
	}

	user, err := w.svc.Register(ctx, api.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return models.User{}, err
	}
	log.Info().Str("username", username).Msg("account created")
	w.record(ctx, store.EntryRegister, username)

	if err := w.Login(ctx, username, password); err != nil {
		return user, errors.Wrap(err, "account created but login failed")
	}
	return user, nil
}

// Logout drops the stored session. Purely local.
func (w *Workflows) Logout(ctx context.Context) error {
	if err := w.sessions.Clear(); err != nil {
		return errors.Wrap(err, "failed to clear session")
	}
	log := logging.WithWorkflow(w.log, "logout")
	log.Info().Msg("logged out")
	w.record(ctx, store.EntryLogout, "")
	return nil
}

// GenerateSignals asks the service for fresh signals and re-fetches
// the full active list afterwards, since generation may retire old
// signals as well as add new ones. An empty selection is rejected
// before any request is made.
func (w *Workflows) GenerateSignals(ctx context.Context, symbols []string) (models.GenerateSignalsResult, []models.Signal, error) {
	log := logging.WithWorkflow(w.log, "generate_signals")

	if len(symbols) == 0 {
		return models.GenerateSignalsResult{}, nil, errors.ErrEmptySelection
	}

	result, err := w.svc.GenerateSignals(ctx, symbols)
	if err != nil {
		w.evictOn401(err)
		return models.GenerateSignalsResult{}, nil, err
	}

	refreshed, err := w.svc.Signals(ctx, true, 0)
	if err != nil {
		w.evictOn401(err)
		return result, nil, errors.Wrap(err, "signals generated but refresh failed")
	}

	log.Info().Strs("symbols", symbols).Int("signals", len(result.Signals)).Msg("signals generated")
	w.record(ctx, store.EntrySignalsGenerated, strings.Join(symbols, ","))
	return result, refreshed, nil
}

// MarkAlertRead acknowledges one alert and returns the projection with
// exactly that alert flipped to read. This is the only field-level
// patch in the client; everything else reloads wholesale.
func (w *Workflows) MarkAlertRead(ctx context.Context, alerts []models.Alert, alertID string) ([]models.Alert, error) {
	if err := w.svc.MarkAlertRead(ctx, alertID); err != nil {
		w.evictOn401(err)
		return alerts, err
	}

	patched := make([]models.Alert, len(alerts))
	copy(patched, alerts)
	for i := range patched {
		if patched[i].ID == alertID {
			patched[i].IsRead = true
		}
	}

	log := logging.WithWorkflow(w.log, "mark_alert_read")
	log.Debug().Str("alert_id", alertID).Msg("alert acknowledged")
	w.record(ctx, store.EntryAlertRead, alertID)
	return patched, nil
}

// SaveAPIConfig submits a provider config and upserts it into the
// projection: the service keeps one config per provider, so a saved
// config replaces any existing entry for the same provider.
func (w *Workflows) SaveAPIConfig(ctx context.Context, configs []models.APIConfig, req models.APIConfigRequest) ([]models.APIConfig, models.APIConfig, error) {
	if err := req.Validate(); err != nil {
		return configs, models.APIConfig{}, err
	}

	saved, err := w.svc.SaveAPIConfig(ctx, req)
	if err != nil {
		w.evictOn401(err)
		return configs, models.APIConfig{}, err
	}

	upserted := make([]models.APIConfig, 0, len(configs)+1)
	replaced := false
	for _, c := range configs {
		if c.Provider == saved.Provider {
			upserted = append(upserted, saved)
			replaced = true
			continue
		}
		upserted = append(upserted, c)
	}
	if !replaced {
		upserted = append(upserted, saved)
	}

	log := logging.WithWorkflow(w.log, "save_api_config")
	log.Info().Str("provider", string(saved.Provider)).Msg("config saved")
	w.record(ctx, store.EntryConfigSaved, string(saved.Provider))
	return upserted, saved, nil
}

// DeleteAPIConfig removes a stored provider config and drops it from
// the projection.
func (w *Workflows) DeleteAPIConfig(ctx context.Context, configs []models.APIConfig, configID string) ([]models.APIConfig, error) {
	if err := w.svc.DeleteAPIConfig(ctx, configID); err != nil {
		w.evictOn401(err)
		return configs, err
	}

	remaining := make([]models.APIConfig, 0, len(configs))
	for _, c := range configs {
		if c.ID != configID {
			remaining = append(remaining, c)
		}
	}

	log := logging.WithWorkflow(w.log, "delete_api_config")
	log.Info().Str("config_id", configID).Msg("config deleted")
	w.record(ctx, store.EntryConfigDeleted, configID)
	return remaining, nil
}

// SaveRiskSettings validates and submits the risk settings. The
// trailing-stop invariant is enforced before any request.
func (w *Workflows) SaveRiskSettings(ctx context.Context, settings models.RiskSettings) (models.RiskSettings, error) {
	if err := settings.Validate(); err != nil {
		return models.RiskSettings{}, err
	}

	saved, err := w.svc.SaveRiskSettings(ctx, settings)
	if err != nil {
		w.evictOn401(err)
		return models.RiskSettings{}, err
	}

	log := logging.WithWorkflow(w.log, "save_risk_settings")
	log.Info().Msg("risk settings saved")
	w.record(ctx, store.EntryRiskSaved, "")
	return saved, nil
}
