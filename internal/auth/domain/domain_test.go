package domain_test

import (
	"testing"

	"github.com/aussiebroadwan/idgate/internal/auth/domain"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, ok := domain.ParseRole("admin")
	require.True(t, ok)
	require.Equal(t, domain.RoleAdmin, r)

	_, ok = domain.ParseRole("Admin")
	require.False(t, ok)

	_, ok = domain.ParseRole("")
	require.False(t, ok)
}

func TestWithoutSecret(t *testing.T) {
	a := domain.Account{ID: "acc-1", PasswordHash: "$2a$10$abc"}
	safe := a.WithoutSecret()

	require.Empty(t, safe.PasswordHash)
	require.Equal(t, "acc-1", safe.ID)
	require.Equal(t, "$2a$10$abc", a.PasswordHash, "original untouched")
}

func TestProfileUpdateEmpty(t *testing.T) {
	require.True(t, domain.ProfileUpdate{}.Empty())

	name := "A"
	require.False(t, domain.ProfileUpdate{Name: &name}.Empty())
}
