package transport

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/pw2712gz/go-auth-client/api"
	"github.com/pw2712gz/go-auth-client/sessions"
	"github.com/pw2712gz/go-auth-client/token"
)

// DefaultRefreshWindow is how close to expiry an access token may get
// before an outgoing request refreshes it first.
const DefaultRefreshWindow = 60 * time.Second

// Refresher is the slice of the API client the transport uses to exchange
// refresh tokens. Its requests must not pass back through an AuthTransport
// with credential logic applied; the auth-endpoint check guarantees they
// are forwarded untouched even if they do.
type Refresher interface {
	Refresh(ctx context.Context, req api.RefreshTokenRequest) (*api.AuthResponse, error)
}

// AuthTransport is an http.RoundTripper that sits in front of every
// outgoing API request and applies the credential policy:
//
//  1. Requests to the unauthenticated auth endpoints (login, register,
//     refresh) are forwarded untouched, whatever the token state.
//  2. With no access token or no decodable subject, the request is
//     forwarded without credentials. Best effort, not a hard failure.
//  3. A token expiring within the refresh window, with a refresh token at
//     hand, is refreshed first; the new token is persisted before the
//     original request is sent with it attached.
//  4. A failed refresh never blocks the request: it is forwarded without
//     an Authorization header and the server's verdict stands.
//  5. Otherwise the access token is attached as a bearer credential.
//
// Concurrent requests observing an expiring token share a single in-flight
// refresh call rather than each issuing their own.
type AuthTransport struct {
	store     *sessions.Store
	refresher Refresher
	base      http.RoundTripper
	window    time.Duration
	log       zerolog.Logger

	refreshLock sync.Mutex
	inflight    *refreshCall
}

// refreshCall is a single in-flight refresh shared by concurrent requests.
type refreshCall struct {
	done        chan struct{}
	accessToken string
	err         error
}

// AuthTransportOption defines a function type to modify the AuthTransport instance.
type AuthTransportOption func(*AuthTransport)

// WithBase sets the underlying round tripper. Defaults to
// http.DefaultTransport.
func WithBase(base http.RoundTripper) AuthTransportOption {
	return func(t *AuthTransport) {
		t.base = base
	}
}

// WithRefreshWindow overrides DefaultRefreshWindow.
func WithRefreshWindow(window time.Duration) AuthTransportOption {
	return func(t *AuthTransport) {
		t.window = window
	}
}

// WithLogger sets the transport's logger.
func WithLogger(log zerolog.Logger) AuthTransportOption {
	return func(t *AuthTransport) {
		t.log = log
	}
}

// NewAuthTransport creates an AuthTransport over store and refresher.
func NewAuthTransport(store *sessions.Store, refresher Refresher, options ...AuthTransportOption) (*AuthTransport, error) {
	if store == nil {
		return nil, errors.New("[NewAuthTransport] store is required")
	}
	if refresher == nil {
		return nil, errors.New("[NewAuthTransport] refresher is required")
	}

	transport := &AuthTransport{
		store:     store,
		refresher: refresher,
		base:      http.DefaultTransport,
		window:    DefaultRefreshWindow,
		log:       zerolog.Nop(),
	}
	for _, opt := range options {
		opt(transport)
	}
	return transport, nil
}

// RoundTrip implements http.RoundTripper.
func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if isAuthEndpoint(req.URL.Path) {
		t.log.Debug().Str("url", req.URL.String()).Msg("skipping auth endpoint")
		return t.base.RoundTrip(req)
	}

	accessToken, _ := t.store.AccessToken()
	refreshToken, _ := t.store.RefreshToken()
	email := token.Subject(accessToken)

	if accessToken == "" || email == "" {
		t.log.Warn().Str("url", req.URL.String()).Msg("no token, skipping Authorization")
		return t.base.RoundTrip(req)
	}

	if token.WillExpireSoon(accessToken, t.window) && refreshToken != "" {
		t.log.Info().Msg("token expiring, refreshing")

		refreshed, err := t.refreshAccessToken(req.Context(), refreshToken, email)
		if err != nil {
			// Liveness over strictness: send the request without
			// credentials and let the server's verdict stand.
			t.log.Error().Err(err).Msg("refresh failed, forwarding unauthenticated")
			return t.base.RoundTrip(withoutAuthorization(req))
		}
		return t.base.RoundTrip(withBearer(req, refreshed))
	}

	return t.base.RoundTrip(withBearer(req, accessToken))
}

// refreshAccessToken exchanges the refresh token for a new pair, coalescing
// concurrent callers behind one network call. The new pair is persisted
// before any caller proceeds, unless the session epoch moved meanwhile, in
// which case the stale result is dropped.
func (t *AuthTransport) refreshAccessToken(ctx context.Context, refreshToken, email string) (string, error) {
	t.refreshLock.Lock()
	if call := t.inflight; call != nil {
		t.refreshLock.Unlock()
		select {
		case <-call.done:
			return call.accessToken, call.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	call := &refreshCall{done: make(chan struct{})}
	t.inflight = call
	epoch := t.store.Epoch()
	t.refreshLock.Unlock()

	res, err := t.refresher.Refresh(ctx, api.RefreshTokenRequest{
		Email:        email,
		RefreshToken: refreshToken,
	})
	if err == nil {
		err = t.store.ApplyRefresh(epoch, res.AuthenticationToken, res.RefreshToken)
	}
	if err != nil {
		call.err = err
	} else {
		call.accessToken = res.AuthenticationToken
	}

	t.refreshLock.Lock()
	t.inflight = nil
	t.refreshLock.Unlock()
	close(call.done)

	return call.accessToken, call.err
}

// withBearer clones the request with the token attached. RoundTrippers must
// not mutate the caller's request.
func withBearer(req *http.Request, accessToken string) *http.Request {
	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "Bearer "+accessToken)
	return cloned
}

// withoutAuthorization clones the request with any Authorization header
// removed.
func withoutAuthorization(req *http.Request) *http.Request {
	cloned := req.Clone(req.Context())
	cloned.Header.Del("Authorization")
	return cloned
}

func isAuthEndpoint(path string) bool {
	for _, endpoint := range api.PublicEndpointPaths {
		if strings.HasPrefix(path, endpoint) {
			return true
		}
	}
	return false
}
