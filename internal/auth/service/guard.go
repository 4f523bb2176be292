package service

import (
	"errors"

	"github.com/aussiebroadwan/idgate/internal/auth/domain"
	"github.com/aussiebroadwan/idgate/internal/auth/store"
)

// Guard rejects accounts that may not take part in a credential operation.
// Deletion is checked before ban.
func Guard(a domain.Account) error {
	if a.IsDeleted {
		return ErrAccountDeleted
	}
	if a.IsBanned {
		return ErrAccountBanned
	}
	return nil
}

// guarded folds a store lookup into the guard: a missing row is reported as
// ErrAccountNotFound before any state predicate is looked at.
func guarded(a domain.Account, err error) (domain.Account, error) {
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, err
	}
	if err := Guard(a); err != nil {
		return domain.Account{}, err
	}
	return a, nil
}
