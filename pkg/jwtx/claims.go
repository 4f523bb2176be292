package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token lifetimes. Services may override access and refresh windows,
// the reset window is fixed.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	DefaultAccessTokenTTL = 24 * time.Hour

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	// It must stay longer than the access window.
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour

	// ResetTokenTTL bounds how long an emailed reset link stays usable.
	ResetTokenTTL = 10 * time.Minute
)

// Purpose tags what a token may be used for. A token minted for one purpose
// is rejected everywhere else.
type Purpose string

const (
	PurposeAccess  Purpose = "access"
	PurposeRefresh Purpose = "refresh"
	PurposeReset   Purpose = "reset"
)

// Valid reports whether p is one of the known purposes.
func (p Purpose) Valid() bool {
	switch p {
	case PurposeAccess, PurposeRefresh, PurposeReset:
		return true
	default:
		return false
	}
}

// Claims carried by every token this service signs. The subject is the
// account id.
type Claims struct {
	jwt.RegisteredClaims

	Email   string  `json:"email"`
	Role    string  `json:"role"`
	Purpose Purpose `json:"typ"`

	// Binding ties a token to account state at issue time. A verifier that
	// sees the state change treats the token as spent.
	Binding string `json:"bnd,omitempty"`
}

// NewClaims builds identity claims for an account. Timing fields (iat, exp,
// jti, iss) are filled in by the Codec at issue time.
func NewClaims(subject, email, role string, purpose Purpose) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: subject,
		},
		Email:   email,
		Role:    role,
		Purpose: purpose,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim so two
// tokens issued in the same second still differ.
func NewJTI() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
