package sessions_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	autherrors "github.com/pw2712gz/go-auth-client/internal/errors"
)

func TestStore_TokenSource(t *testing.T) {
	t.Run("exposes the stored pair", func(t *testing.T) {
		store, _ := newTestStore(t)
		accessToken := mintToken(t, time.Unix(1700000000, 0))
		require.NoError(t, store.Login(accessToken, "refresh-r"))

		oauthToken, err := store.TokenSource().Token()
		require.NoError(t, err)
		require.Equal(t, accessToken, oauthToken.AccessToken)
		require.Equal(t, "refresh-r", oauthToken.RefreshToken)
		require.Equal(t, "Bearer", oauthToken.TokenType)
		require.Equal(t, time.Unix(1700000000, 0).UnixMilli(), oauthToken.Expiry.UnixMilli())
	})

	t.Run("errors when logged out", func(t *testing.T) {
		store, _ := newTestStore(t)
		_, err := store.TokenSource().Token()
		require.ErrorIs(t, err, autherrors.ErrNoAccessToken)
	})
}
