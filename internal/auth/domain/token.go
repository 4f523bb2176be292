package domain

import "time"

// TokenPair is what a successful registration, login or refresh hands back.
// Neither token is persisted.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}
