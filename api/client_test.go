package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pw2712gz/go-auth-client/api"
	autherrors "github.com/pw2712gz/go-auth-client/internal/errors"
)

func newTestClient(t *testing.T, wantMethod, wantPath string, status int, body any) *api.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, wantMethod, r.Method)
		require.Equal(t, wantPath, r.URL.Path)
		require.NotEmpty(t, r.Header.Get("X-Request-Id"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		require.NoError(t, json.NewEncoder(w).Encode(body))
	}))
	t.Cleanup(server.Close)
	return api.NewClient(server.URL)
}

func TestClient_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		want := api.AuthResponse{
			AuthenticationToken: "access-a",
			RefreshToken:        "refresh-r",
			ExpiresAt:           "2026-01-01T00:00:00Z",
			Username:            "john.doe@example.com",
		}
		client := newTestClient(t, http.MethodPost, "/api/auth/login", http.StatusOK, want)

		res, err := client.Login(context.Background(), api.LoginRequest{Email: "john.doe@example.com", Password: "secret"})
		require.NoError(t, err)
		require.Equal(t, want, *res)
	})

	t.Run("server message surfaced verbatim", func(t *testing.T) {
		client := newTestClient(t, http.MethodPost, "/api/auth/login", http.StatusUnauthorized,
			api.MessageResponse{Message: "Invalid credentials"})

		_, err := client.Login(context.Background(), api.LoginRequest{Email: "x@example.com", Password: "wrong"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "Invalid credentials")
		require.ErrorIs(t, err, autherrors.ErrUnauthorized)
	})
}

func TestClient_Register(t *testing.T) {
	client := newTestClient(t, http.MethodPost, "/api/auth/register", http.StatusOK,
		api.MessageResponse{Message: "Registration successful"})

	res, err := client.Register(context.Background(), api.RegisterRequest{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john.doe@example.com",
		Password:  "secret",
	})
	require.NoError(t, err)
	require.Equal(t, "Registration successful", res.Message)
}

func TestClient_Refresh(t *testing.T) {
	want := api.AuthResponse{AuthenticationToken: "access-next", RefreshToken: "refresh-next"}
	client := newTestClient(t, http.MethodPost, "/api/auth/refresh", http.StatusOK, want)

	res, err := client.Refresh(context.Background(), api.RefreshTokenRequest{
		Email:        "john.doe@example.com",
		RefreshToken: "refresh-r",
	})
	require.NoError(t, err)
	require.Equal(t, want, *res)
}

func TestClient_Logout(t *testing.T) {
	client := newTestClient(t, http.MethodPost, "/api/auth/logout", http.StatusOK,
		api.MessageResponse{Message: "Logged out and refresh token deleted"})

	res, err := client.Logout(context.Background(), api.RefreshTokenRequest{
		Email:        "john.doe@example.com",
		RefreshToken: "refresh-r",
	})
	require.NoError(t, err)
	require.Equal(t, "Logged out and refresh token deleted", res.Message)
}

func TestClient_CurrentUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		want := api.UserResponse{ID: 1, FirstName: "John", LastName: "Doe", Email: "john.doe@example.com"}
		client := newTestClient(t, http.MethodGet, "/api/auth/me", http.StatusOK, want)

		res, err := client.CurrentUser(context.Background())
		require.NoError(t, err)
		require.Equal(t, want, *res)
	})

	t.Run("server error", func(t *testing.T) {
		client := newTestClient(t, http.MethodGet, "/api/auth/me", http.StatusInternalServerError,
			api.MessageResponse{Message: "boom"})

		_, err := client.CurrentUser(context.Background())
		require.ErrorIs(t, err, autherrors.ErrServer)
	})
}

func TestClient_PasswordReset(t *testing.T) {
	t.Run("forgot password", func(t *testing.T) {
		client := newTestClient(t, http.MethodPost, "/api/auth/forgot-password", http.StatusOK,
			api.MessageResponse{Message: "Reset password email sent"})

		res, err := client.ForgotPassword(context.Background(), api.ForgotPasswordRequest{Email: "john.doe@example.com"})
		require.NoError(t, err)
		require.Equal(t, "Reset password email sent", res.Message)
	})

	t.Run("reset password with invalid token", func(t *testing.T) {
		client := newTestClient(t, http.MethodPost, "/api/auth/reset-password", http.StatusBadRequest,
			api.MessageResponse{Message: "Invalid or expired token."})

		_, err := client.ResetPassword(context.Background(), api.ResetPasswordRequest{Token: "bad", NewPassword: "newpass"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "Invalid or expired token.")
		require.ErrorIs(t, err, autherrors.ErrBadRequest)
	})
}

func TestClient_Health(t *testing.T) {
	client := newTestClient(t, http.MethodGet, "/api/auth/health", http.StatusOK,
		api.MessageResponse{Message: "OK"})

	res, err := client.Health(context.Background())
	require.NoError(t, err)
	require.Equal(t, "OK", res.Message)
}

func TestClient_RequestBodies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, map[string]string{
			"email":        "john.doe@example.com",
			"refreshToken": "refresh-r",
		}, body)

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(api.AuthResponse{}))
	}))
	t.Cleanup(server.Close)

	client := api.NewClient(server.URL)
	_, err := client.Refresh(context.Background(), api.RefreshTokenRequest{
		Email:        "john.doe@example.com",
		RefreshToken: "refresh-r",
	})
	require.NoError(t, err)
}
