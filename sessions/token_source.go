package sessions

import (
	"time"

	"golang.org/x/oauth2"

	autherrors "github.com/pw2712gz/go-auth-client/internal/errors"
	"github.com/pw2712gz/go-auth-client/token"
)

// TokenSource exposes the stored credential pair as an oauth2.TokenSource
// so oauth2-aware libraries can consume it. The source reads storage on
// every call and performs no refreshing of its own; the request
// interceptor owns that.
func (s *Store) TokenSource() oauth2.TokenSource {
	return storeTokenSource{store: s}
}

type storeTokenSource struct {
	store *Store
}

func (ts storeTokenSource) Token() (*oauth2.Token, error) {
	accessToken, ok := ts.store.AccessToken()
	if !ok {
		return nil, autherrors.ErrNoAccessToken
	}
	refreshToken, _ := ts.store.RefreshToken()

	return &oauth2.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		Expiry:       time.UnixMilli(token.ExpiryEpochMillis(accessToken)),
	}, nil
}
