package guards_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pw2712gz/go-auth-client/guards"
)

type fakeSession struct {
	loggedIn bool
}

func (f fakeSession) IsLoggedIn() bool { return f.loggedIn }

func TestProtected(t *testing.T) {
	t.Run("allows authenticated navigation", func(t *testing.T) {
		decision := guards.Protected(fakeSession{loggedIn: true})
		require.True(t, decision.Allowed)
		require.Empty(t, decision.RedirectTo)
	})

	t.Run("redirects unauthenticated callers to login", func(t *testing.T) {
		decision := guards.Protected(fakeSession{loggedIn: false})
		require.False(t, decision.Allowed)
		require.Equal(t, guards.LoginRoute, decision.RedirectTo)
	})
}

func TestPublicOnly(t *testing.T) {
	t.Run("allows logged-out navigation", func(t *testing.T) {
		decision := guards.PublicOnly(fakeSession{loggedIn: false})
		require.True(t, decision.Allowed)
		require.Empty(t, decision.RedirectTo)
	})

	t.Run("redirects authenticated callers to dashboard", func(t *testing.T) {
		decision := guards.PublicOnly(fakeSession{loggedIn: true})
		require.False(t, decision.Allowed)
		require.Equal(t, guards.DashboardRoute, decision.RedirectTo)
	})
}
