package api

import (
	"fmt"
	"net/http"

	apierrors "github.com/pw2712gz/go-auth-client/internal/errors"
)

// APIError is a non-2xx response from the auth API. Message carries the
// server-provided text verbatim when the body could be parsed, otherwise a
// generic fallback.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.StatusCode)
}

// Unwrap maps the status code onto the client's sentinel errors so callers
// can branch with errors.Is.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		return apierrors.ErrUnauthorized
	case e.StatusCode >= 500:
		return apierrors.ErrServer
	case e.StatusCode >= 400:
		return apierrors.ErrBadRequest
	}
	return nil
}
