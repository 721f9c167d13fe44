package api

// Request body for the login endpoint
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Request body for the registration endpoint
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Request body for the token refresh and logout endpoints
type RefreshTokenRequest struct {
	Email        string `json:"email"`
	RefreshToken string `json:"refreshToken"`
}

// Request body for the forgot-password endpoint
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// Request body for the reset-password endpoint
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// AuthResponse is returned by the login and refresh endpoints.
type AuthResponse struct {
	AuthenticationToken string `json:"authenticationToken"`
	RefreshToken        string `json:"refreshToken"`
	ExpiresAt           string `json:"expiresAt"`
	Username            string `json:"username"`
}

// UserResponse is returned by the me endpoint.
type UserResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// MessageResponse carries the confirmation text returned by the register,
// logout, forgot-password, reset-password and health endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}
