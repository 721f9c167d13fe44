package sessions

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/pw2712gz/go-auth-client/api"
	autherrors "github.com/pw2712gz/go-auth-client/internal/errors"
	"github.com/pw2712gz/go-auth-client/storage"
)

// Store holds the in-memory session state derived from the persisted
// credential pair: whether a user is logged in and, once fetched, their
// profile. It is an explicit object constructed from a storage repo and
// injected into every consumer; there is no ambient global session.
//
// The store and the storage repo are kept in lockstep by every mutator.
// Mutations are synchronous: once Login, Logout or ApplyRefresh returns,
// any reader observes the new state.
type Store struct {
	repo storage.Repo
	log  zerolog.Logger

	lock        sync.RWMutex
	loggedIn    bool
	currentUser *api.UserResponse
	epoch       uint64
}

// StoreOption defines a function type to modify the Store instance.
type StoreOption func(*Store)

// WithLogger sets the store's logger.
func WithLogger(log zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.log = log
	}
}

// NewStore creates a Store backed by repo. The logged-in flag is seeded
// from access-token presence; the profile starts unset until restored or
// fetched after login.
func NewStore(repo storage.Repo, options ...StoreOption) (*Store, error) {
	if repo == nil {
		return nil, errors.New("[NewStore] storage repo is required")
	}

	store := &Store{
		repo: repo,
		log:  zerolog.Nop(),
	}
	_, hasToken := repo.Get(storage.AccessTokenKey)
	store.loggedIn = hasToken

	for _, opt := range options {
		opt(store)
	}
	return store, nil
}

// Login persists the token pair and marks the session logged in. It does
// not fetch the profile; that is the caller's next step.
func (s *Store) Login(accessToken, refreshToken string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.repo.Set(storage.AccessTokenKey, accessToken); err != nil {
		return errors.Wrap(err, "[Store.Login] persist access token")
	}
	if err := s.repo.Set(storage.RefreshTokenKey, refreshToken); err != nil {
		return errors.Wrap(err, "[Store.Login] persist refresh token")
	}

	s.loggedIn = true
	s.epoch++
	s.log.Info().Msg("login successful")
	return nil
}

// Logout removes both persisted tokens, clears the profile and marks the
// session logged out. Safe to call when already logged out. Bumping the
// epoch invalidates any refresh still in flight, so a late refresh result
// cannot resurrect a logged-out session.
func (s *Store) Logout() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.repo.Delete(storage.AccessTokenKey); err != nil {
		return errors.Wrap(err, "[Store.Logout] remove access token")
	}
	if err := s.repo.Delete(storage.RefreshTokenKey); err != nil {
		return errors.Wrap(err, "[Store.Logout] remove refresh token")
	}

	s.loggedIn = false
	s.currentUser = nil
	s.epoch++
	s.log.Info().Msg("logged out and session cleared")
	return nil
}

// ApplyRefresh persists a refreshed token pair, provided the session epoch
// still matches the one observed when the refresh started. A mismatch means
// a logout or login happened meanwhile; the stale result is discarded and
// ErrSessionConflict returned.
func (s *Store) ApplyRefresh(observedEpoch uint64, accessToken, refreshToken string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.epoch != observedEpoch {
		s.log.Warn().
			Uint64("observed", observedEpoch).
			Uint64("current", s.epoch).
			Msg("discarding refresh result from a previous session")
		return autherrors.ErrSessionConflict
	}

	if err := s.repo.Set(storage.AccessTokenKey, accessToken); err != nil {
		return errors.Wrap(err, "[Store.ApplyRefresh] persist access token")
	}
	if err := s.repo.Set(storage.RefreshTokenKey, refreshToken); err != nil {
		return errors.Wrap(err, "[Store.ApplyRefresh] persist refresh token")
	}
	return nil
}

// SetCurrentUser records the profile after a successful fetch.
func (s *Store) SetCurrentUser(user *api.UserResponse) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.currentUser = user
}

// IsLoggedIn reports whether the session is authenticated.
func (s *Store) IsLoggedIn() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.loggedIn
}

// CurrentUser returns the fetched profile, or nil before any fetch and
// after logout.
func (s *Store) CurrentUser() *api.UserResponse {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.currentUser
}

// Epoch returns the current session epoch. Callers snapshot it before a
// refresh and hand it back to ApplyRefresh.
func (s *Store) Epoch() uint64 {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.epoch
}

// AccessToken reads the persisted access token.
func (s *Store) AccessToken() (string, bool) {
	return s.repo.Get(storage.AccessTokenKey)
}

// RefreshToken reads the persisted refresh token.
func (s *Store) RefreshToken() (string, bool) {
	return s.repo.Get(storage.RefreshTokenKey)
}
