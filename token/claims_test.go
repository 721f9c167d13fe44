package token_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/pw2712gz/go-auth-client/token"
)

const testSecret = "test-secret"

// mintToken creates a signed token; the signature is irrelevant to the
// decoder but keeps the three-segment structure realistic.
func mintToken(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestDecodeClaims(t *testing.T) {
	t.Run("well-formed token", func(t *testing.T) {
		raw := mintToken(t, jwtlib.MapClaims{
			"exp":   float64(1700000000),
			"sub":   "john.doe@example.com",
			"roles": []any{"USER"},
		})

		claims, ok := token.DecodeClaims(raw)
		require.True(t, ok)
		require.Equal(t, int64(1700000000), claims.Exp)
		require.Equal(t, "john.doe@example.com", claims.Sub)
		require.Contains(t, claims.Extra, "roles")
	})

	t.Run("malformed token", func(t *testing.T) {
		_, ok := token.DecodeClaims("not-a-token")
		require.False(t, ok)
	})

	t.Run("empty token", func(t *testing.T) {
		_, ok := token.DecodeClaims("")
		require.False(t, ok)
	})

	t.Run("missing claims decode to zero values", func(t *testing.T) {
		raw := mintToken(t, jwtlib.MapClaims{"aud": "api"})

		claims, ok := token.DecodeClaims(raw)
		require.True(t, ok)
		require.Zero(t, claims.Exp)
		require.Empty(t, claims.Sub)
	})
}

func TestExpiryEpochMillis(t *testing.T) {
	t.Run("converts seconds to milliseconds", func(t *testing.T) {
		raw := mintToken(t, jwtlib.MapClaims{"exp": float64(1700000000)})
		require.Equal(t, int64(1700000000000), token.ExpiryEpochMillis(raw))
	})

	t.Run("zero on decode failure", func(t *testing.T) {
		require.Equal(t, int64(0), token.ExpiryEpochMillis("garbage.token.value"))
	})
}

func TestSubject(t *testing.T) {
	t.Run("returns sub claim", func(t *testing.T) {
		raw := mintToken(t, jwtlib.MapClaims{"sub": "jane@example.com", "exp": float64(time.Now().Add(time.Hour).Unix())})
		require.Equal(t, "jane@example.com", token.Subject(raw))
	})

	t.Run("empty on decode failure", func(t *testing.T) {
		require.Empty(t, token.Subject("garbage"))
	})

	t.Run("empty when absent", func(t *testing.T) {
		raw := mintToken(t, jwtlib.MapClaims{"exp": float64(1700000000)})
		require.Empty(t, token.Subject(raw))
	})
}
