package authsdk

import "time"

// Envelope wraps every response body.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ============================================================================
// Requests
// ============================================================================

// RegisterRequest creates an account. Role may only be "user" (or empty).
type RegisterRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Contact      string `json:"contact,omitempty"`
	Role         string `json:"role,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
	Address      string `json:"address,omitempty"`
}

// LoginRequest exchanges an email and password for tokens.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest exchanges a refresh token for a new pair.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ResetLinkRequest asks for a password reset email.
type ResetLinkRequest struct {
	Email string `json:"email"`
}

// ForgotPasswordRequest consumes the token from a reset email.
type ForgotPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
	Token       string `json:"token"`
}

// ChangePasswordRequest sets a new password for the bearer of the
// Authorization header.
type ChangePasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

// UpdateAccountRequest edits profile fields. Nil fields are left alone.
type UpdateAccountRequest struct {
	Name         *string `json:"name,omitempty"`
	Contact      *string `json:"contact,omitempty"`
	ProfileImage *string `json:"profileImage,omitempty"`
	Address      *string `json:"address,omitempty"`
}

// String returns a pointer to s, for UpdateAccountRequest fields.
func String(s string) *string { return &s }

// ============================================================================
// Responses
// ============================================================================

// Account is the public view of an account. It never carries the password.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Contact      string    `json:"contact,omitempty"`
	Role         string    `json:"role"`
	ProfileImage string    `json:"profileImage"`
	Address      string    `json:"address,omitempty"`
	IsBanned     bool      `json:"isBanned"`
	IsDeleted    bool      `json:"isDeleted"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AuthData is the data of a successful register, login or refresh.
type AuthData struct {
	Account          Account   `json:"account"`
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

// HealthResponse represents the response structure for health check endpoints.
// Used by /health, /livez and /readyz (readyz includes the Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks is only present on /readyz
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of each dependency on /readyz.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}
