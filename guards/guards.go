package guards

// Navigation targets produced by the guards.
const (
	LoginRoute     = "/login"
	DashboardRoute = "/dashboard"
)

// SessionReader is the read-only view of the session the guards consult.
type SessionReader interface {
	IsLoggedIn() bool
}

// Decision is the outcome of evaluating a guard before a navigation
// completes: either the navigation proceeds, or it is denied with a
// redirect target.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

// Allow is the decision that lets a navigation proceed.
var Allow = Decision{Allowed: true}

// Redirect denies the navigation and sends the caller to target.
func Redirect(target string) Decision {
	return Decision{RedirectTo: target}
}

// Protected gates routes that require authentication. Unauthenticated
// callers are redirected to the login route. The guard never mutates the
// session.
func Protected(session SessionReader) Decision {
	if session.IsLoggedIn() {
		return Allow
	}
	return Redirect(LoginRoute)
}

// PublicOnly gates routes meant for logged-out users (login, register).
// Authenticated callers are redirected to the dashboard.
func PublicOnly(session SessionReader) Decision {
	if session.IsLoggedIn() {
		return Redirect(DashboardRoute)
	}
	return Allow
}
