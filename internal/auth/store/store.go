package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/idgate/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement it and expose sub-repositories per concern.
type Store interface {
	Accounts() Accounts

	// ApplyMigrations brings the schema up to date. Safe to call on every start.
	ApplyMigrations(ctx context.Context) error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error

	Close() error
}

// ReadOptions controls the projection of account reads.
type ReadOptions struct {
	IncludeSecret bool
}

// ReadOption mutates ReadOptions.
type ReadOption func(*ReadOptions)

// WithSecret makes a read include the password hash. Only the credential
// flows that verify a password should ask for it.
func WithSecret() ReadOption {
	return func(o *ReadOptions) { o.IncludeSecret = true }
}

// ApplyReadOptions folds opts into a ReadOptions value. Drivers call this.
func ApplyReadOptions(opts []ReadOption) ReadOptions {
	var o ReadOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ListFilter narrows List results.
type ListFilter struct {
	// IncludeDeleted also returns soft-deleted accounts.
	IncludeDeleted bool
}

// PasswordMatch guards a password write. Empty fields are not checked.
type PasswordMatch struct {
	Role domain.Role
	Hash string
}

type Accounts interface {
	// GetByEmail looks an account up by its exact (case-sensitive) email.
	GetByEmail(ctx context.Context, email string, opts ...ReadOption) (domain.Account, error)

	// GetByID looks an account up by id. Soft-deleted accounts are returned.
	GetByID(ctx context.Context, id string, opts ...ReadOption) (domain.Account, error)

	// Create inserts a. ErrAlreadyExists when the email is taken. The returned
	// account never carries the hash.
	Create(ctx context.Context, a domain.Account) (domain.Account, error)

	// UpdatePasswordHash replaces the hash of the account with id. The row
	// must also satisfy match, otherwise ErrNotFound is returned and nothing
	// changes.
	UpdatePasswordHash(ctx context.Context, id string, match PasswordMatch, hash string) (domain.Account, error)

	// UpdateProfile applies the non-nil fields of u.
	UpdateProfile(ctx context.Context, id string, u domain.ProfileUpdate) (domain.Account, error)

	// SetBanned flips the ban flag.
	SetBanned(ctx context.Context, id string, banned bool) (domain.Account, error)

	// SoftDelete marks the account deleted. The row is kept.
	SoftDelete(ctx context.Context, id string) (domain.Account, error)

	// List returns accounts oldest first.
	List(ctx context.Context, f ListFilter) ([]domain.Account, error)

	// Count returns the number of accounts, deleted included.
	Count(ctx context.Context) (int, error)
}
