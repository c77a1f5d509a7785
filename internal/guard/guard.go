// Package guard decides whether a stored session is still usable.
// Every protected command runs the check once before doing its work;
// a failed check evicts the session so the next attempt starts clean.
package guard

import (
	"context"

	"github.com/rs/zerolog"

	"investctl/internal/errors"
	"investctl/internal/logging"
	"investctl/internal/models"
)

// UserFetcher is the one remote call the guard needs.
type UserFetcher interface {
	Me(ctx context.Context) (models.User, error)
}

// SessionStore is the token storage the guard reads and evicts.
type SessionStore interface {
	Get() (string, bool)
	Clear() error
}

// Guard validates the stored session against the remote service.
type Guard struct {
	client   UserFetcher
	sessions SessionStore
	log      zerolog.Logger
}

// New creates a Guard.
func New(client UserFetcher, sessions SessionStore, log zerolog.Logger) *Guard {
	return &Guard{client: client, sessions: sessions, log: log}
}

// Check resolves the session to a user. With no stored token it fails
// fast without a network call. Any failure of the identity call, not
// just 401, evicts the token: a session that cannot be confirmed is
// treated as no session.
func (g *Guard) Check(ctx context.Context) (models.User, error) {
	if _, ok := g.sessions.Get(); !ok {
		logging.LogSessionEvent(g.log, "check_failed", "no stored token")
		return models.User{}, errors.ErrNoSession
	}

	user, err := g.client.Me(ctx)
	if err != nil {
		if clearErr := g.sessions.Clear(); clearErr != nil {
			g.log.Warn().Err(clearErr).Msg("failed to clear invalid session")
		}
		logging.LogSessionEvent(g.log, "evicted", err.Error())
		if errors.IsUnauthorized(err) {
			return models.User{}, errors.Wrap(errors.ErrSessionExpired, "session rejected")
		}
		return models.User{}, errors.Wrap(err, "session check failed")
	}

	logging.LogSessionEvent(g.log, "validated", user.Username)
	return user, nil
}
