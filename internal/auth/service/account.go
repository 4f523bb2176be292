package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/idgate/internal/auth/domain"
	"github.com/aussiebroadwan/idgate/internal/auth/store"
	"github.com/aussiebroadwan/idgate/pkg/slogx"
)

// AccountService manages account records on behalf of an authorized caller.
// It never touches credentials.
type AccountService struct {
	Store store.Store
}

// List returns every account that is not soft-deleted.
func (s *AccountService) List(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.Store.Accounts().List(ctx, store.ListFilter{})
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	return accounts, nil
}

// Get returns the account with id. Deleted accounts are still returned.
func (s *AccountService) Get(ctx context.Context, id string) (domain.Account, error) {
	a, err := s.Store.Accounts().GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, ErrAccountNotFound
	}
	return a, err
}

// Profile returns the caller's own account.
func (s *AccountService) Profile(ctx context.Context, actor domain.AuthContext) (domain.Account, error) {
	return s.Get(ctx, actor.AccountID)
}

// Update applies u to the account with id. Callers may edit themselves;
// admins may edit anyone. Deleted accounts cannot be edited.
func (s *AccountService) Update(ctx context.Context, actor domain.AuthContext, id string, u domain.ProfileUpdate) (domain.Account, error) {
	if err := canManage(actor, id); err != nil {
		return domain.Account{}, err
	}
	if u.Empty() {
		return domain.Account{}, NewValidationError(map[string]string{"body": "no updatable fields supplied"})
	}
	if u.Name != nil && *u.Name == "" {
		return domain.Account{}, NewValidationError(map[string]string{"name": "must not be empty"})
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return domain.Account{}, err
	}
	if current.IsDeleted {
		return domain.Account{}, ErrAccountDeleted
	}

	a, err := s.Store.Accounts().UpdateProfile(ctx, id, u)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, ErrAccountNotFound
	}
	if err != nil {
		return domain.Account{}, err
	}

	slogx.FromContext(ctx).Info("account updated",
		slog.String("account_id", id),
		slog.String("actor_id", actor.AccountID),
	)
	return a, nil
}

// Delete soft-deletes the account with id. Deleting twice is not an error.
func (s *AccountService) Delete(ctx context.Context, actor domain.AuthContext, id string) (domain.Account, error) {
	if err := canManage(actor, id); err != nil {
		return domain.Account{}, err
	}

	a, err := s.Store.Accounts().SoftDelete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, ErrAccountNotFound
	}
	if err != nil {
		return domain.Account{}, err
	}

	slogx.FromContext(ctx).Info("account deleted",
		slog.String("account_id", id),
		slog.String("actor_id", actor.AccountID),
	)
	return a, nil
}

// SetBanned bans or unbans the account with id. Admin only; an admin cannot
// ban themselves.
func (s *AccountService) SetBanned(ctx context.Context, actor domain.AuthContext, id string, banned bool) (domain.Account, error) {
	if actor.Role != domain.RoleAdmin {
		return domain.Account{}, ErrInsufficientRole
	}
	if banned && actor.AccountID == id {
		return domain.Account{}, NewValidationError(map[string]string{"id": "an admin cannot ban their own account"})
	}

	a, err := s.Store.Accounts().SetBanned(ctx, id, banned)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, ErrAccountNotFound
	}
	if err != nil {
		return domain.Account{}, err
	}

	slogx.FromContext(ctx).Info("account ban changed",
		slog.String("account_id", id),
		slog.Bool("banned", banned),
		slog.String("actor_id", actor.AccountID),
	)
	return a, nil
}

func canManage(actor domain.AuthContext, id string) error {
	if actor.Role == domain.RoleAdmin || actor.AccountID == id {
		return nil
	}
	return ErrNotAccountOwner
}
