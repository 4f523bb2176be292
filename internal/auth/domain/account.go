package domain

import "time"

// Account is an identity record. PasswordHash is populated only inside the
// store and the credential flows; it is never serialised.
type Account struct {
	ID              string
	Name            string
	Email           string
	PasswordHash    string `json:"-"`
	Contact         string
	Role            Role
	ProfileImageURL string
	Address         string
	IsBanned        bool
	IsDeleted       bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// WithoutSecret returns a copy safe to hand to callers outside the
// credential flows.
func (a Account) WithoutSecret() Account {
	a.PasswordHash = ""
	return a
}

// ProfileUpdate carries the optional fields an account holder may change.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Name            *string
	Contact         *string
	ProfileImageURL *string
	Address         *string
}

// Empty reports whether the update changes nothing.
func (u ProfileUpdate) Empty() bool {
	return u.Name == nil && u.Contact == nil && u.ProfileImageURL == nil && u.Address == nil
}

// AuthContext is the identity the authorization gate attaches to a request.
type AuthContext struct {
	AccountID string
	Email     string
	Role      Role
}
