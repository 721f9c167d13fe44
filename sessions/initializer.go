package sessions

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/pw2712gz/go-auth-client/api"
	"github.com/pw2712gz/go-auth-client/token"
)

// ProfileFetcher is the slice of the API client the initializer needs.
type ProfileFetcher interface {
	CurrentUser(ctx context.Context) (*api.UserResponse, error)
}

// Initializer reconciles the persisted credential pair with the session
// store at startup: either the token still stands and the profile is
// fetched, or the session is cleared.
type Initializer struct {
	store   *Store
	fetcher ProfileFetcher
	log     zerolog.Logger
}

// InitializerOption defines a function type to modify the Initializer instance.
type InitializerOption func(*Initializer)

// WithInitLogger sets the initializer's logger.
func WithInitLogger(log zerolog.Logger) InitializerOption {
	return func(i *Initializer) {
		i.log = log
	}
}

// NewInitializer creates an Initializer for store using fetcher.
func NewInitializer(store *Store, fetcher ProfileFetcher, options ...InitializerOption) (*Initializer, error) {
	if store == nil {
		return nil, errors.New("[NewInitializer] store is required")
	}
	if fetcher == nil {
		return nil, errors.New("[NewInitializer] profile fetcher is required")
	}

	initializer := &Initializer{
		store:   store,
		fetcher: fetcher,
		log:     zerolog.Nop(),
	}
	for _, opt := range options {
		opt(initializer)
	}
	return initializer, nil
}

// Run restores the session once at startup. A missing or expired access
// token logs the session out without touching the network. A failed profile
// fetch also logs out: one failed attempt means an invalid session, no
// retry. The returned error covers storage failures only; every
// authentication outcome terminates in a defined session state.
func (i *Initializer) Run(ctx context.Context) error {
	accessToken, ok := i.store.AccessToken()
	if !ok || token.IsExpired(accessToken) {
		i.log.Warn().Msg("invalid or expired token, logging out")
		return i.store.Logout()
	}

	user, err := i.fetcher.CurrentUser(ctx)
	if err != nil {
		i.log.Error().Err(err).Msg("failed to fetch user, logging out")
		return i.store.Logout()
	}

	i.store.SetCurrentUser(user)
	i.log.Info().Str("email", user.Email).Msg("session restored")
	return nil
}
