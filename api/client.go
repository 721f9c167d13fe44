package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// BasePath is the path prefix of every auth endpoint.
const BasePath = "/api/auth"

// PublicEndpointPaths lists the endpoints that accept unauthenticated
// requests. The request interceptor never attaches a bearer token to these.
var PublicEndpointPaths = []string{
	BasePath + "/login",
	BasePath + "/register",
	BasePath + "/refresh",
}

// Client is a typed client for the remote auth API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*Client)

// WithHTTPClient sets the underlying HTTP client. This is how the auth
// request interceptor is layered under the SDK for non-auth endpoints.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the client's logger.
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a Client for the API at baseURL
// (e.g. "https://auth.example.com").
func NewClient(baseURL string, options ...ClientOption) *Client {
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		log:        zerolog.Nop(),
	}
	for _, opt := range options {
		opt(client)
	}
	return client
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var res AuthResponse
	if err := c.post(ctx, "/login", req, &res); err != nil {
		return nil, errors.Wrap(err, "[Client.Login]")
	}
	c.log.Info().Str("username", res.Username).Msg("login successful")
	return &res, nil
}

// Register creates a new user account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*MessageResponse, error) {
	var res MessageResponse
	if err := c.post(ctx, "/register", req, &res); err != nil {
		return nil, errors.Wrap(err, "[Client.Register]")
	}
	return &res, nil
}

// Refresh exchanges a refresh token for a new token pair.
func (c *Client) Refresh(ctx context.Context, req RefreshTokenRequest) (*AuthResponse, error) {
	var res AuthResponse
	if err := c.post(ctx, "/refresh", req, &res); err != nil {
		return nil, errors.Wrap(err, "[Client.Refresh]")
	}
	c.log.Debug().Msg("token refreshed")
	return &res, nil
}

// Logout invalidates the refresh token server-side.
func (c *Client) Logout(ctx context.Context, req RefreshTokenRequest) (*MessageResponse, error) {
	var res MessageResponse
	if err := c.post(ctx, "/logout", req, &res); err != nil {
		return nil, errors.Wrap(err, "[Client.Logout]")
	}
	return &res, nil
}

// CurrentUser fetches the authenticated user's profile.
func (c *Client) CurrentUser(ctx context.Context) (*UserResponse, error) {
	var res UserResponse
	if err := c.get(ctx, "/me", &res); err != nil {
		return nil, errors.Wrap(err, "[Client.CurrentUser]")
	}
	return &res, nil
}

// ForgotPassword requests a password reset email.
func (c *Client) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (*MessageResponse, error) {
	var res MessageResponse
	if err := c.post(ctx, "/forgot-password", req, &res); err != nil {
		return nil, errors.Wrap(err, "[Client.ForgotPassword]")
	}
	return &res, nil
}

// ResetPassword sets a new password using a reset token.
func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) (*MessageResponse, error) {
	var res MessageResponse
	if err := c.post(ctx, "/reset-password", req, &res); err != nil {
		return nil, errors.Wrap(err, "[Client.ResetPassword]")
	}
	return &res, nil
}

// Health checks the API's public health endpoint.
func (c *Client) Health(ctx context.Context) (*MessageResponse, error) {
	var res MessageResponse
	if err := c.get(ctx, "/health", &res); err != nil {
		return nil, errors.Wrap(err, "[Client.Health]")
	}
	return &res, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+BasePath+path, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+BasePath+path, nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.New().String())

	res, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "send request")
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrap(err, "read response")
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &APIError{
			StatusCode: res.StatusCode,
			Message:    serverMessage(data),
		}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

// serverMessage extracts the server-provided error text, falling back to a
// generic string for unparseable bodies.
func serverMessage(data []byte) string {
	var msg MessageResponse
	if err := json.Unmarshal(data, &msg); err == nil && msg.Message != "" {
		return msg.Message
	}
	if text := strings.TrimSpace(string(data)); text != "" {
		return text
	}
	return "request failed"
}
