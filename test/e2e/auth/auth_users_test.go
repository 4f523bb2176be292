package auth_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/idgate/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestAccountAdministration exercises the role gate with the admin seeded
// from the environment and a self-registered user.
func TestAccountAdministration(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)
	ctx := t.Context()

	admin := loginAdmin(t, client)
	user := registerUser(t, client, "Carol", "carol@example.com")

	t.Run("UserCannotList", func(t *testing.T) {
		_, err := client.ListAccounts(ctx, user.AccessToken)
		assertStatus(t, err, http.StatusForbidden, "List as user")
	})

	t.Run("AnonymousCannotList", func(t *testing.T) {
		_, err := client.ListAccounts(ctx, "")
		assertStatus(t, err, http.StatusUnauthorized, "List without token")
	})

	t.Run("AdminLists", func(t *testing.T) {
		accounts, err := client.ListAccounts(ctx, admin.AccessToken)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(accounts), 2)
	})

	t.Run("UserUpdatesOwnProfile", func(t *testing.T) {
		updated, err := client.UpdateAccount(ctx, user.AccessToken, user.Account.ID, authsdk.UpdateAccountRequest{
			Name:    authsdk.String("Carol Smith"),
			Address: authsdk.String("1 Example St"),
		})
		require.NoError(t, err)
		require.Equal(t, "Carol Smith", updated.Name)
		require.Equal(t, "1 Example St", updated.Address)
	})

	t.Run("UserCannotUpdateOthers", func(t *testing.T) {
		_, err := client.UpdateAccount(ctx, user.AccessToken, admin.Account.ID, authsdk.UpdateAccountRequest{
			Name: authsdk.String("Mallory"),
		})
		assertStatus(t, err, http.StatusForbidden, "Update another account")
	})

	t.Run("BanBlocksLoginAndTokens", func(t *testing.T) {
		banned, err := client.BanAccount(ctx, admin.AccessToken, user.Account.ID)
		require.NoError(t, err)
		require.True(t, banned.IsBanned)

		_, err = client.Login(ctx, authsdk.LoginRequest{Email: "carol@example.com", Password: userPassword})
		assertStatus(t, err, http.StatusForbidden, "Login while banned")

		_, err = client.Profile(ctx, user.AccessToken)
		assertStatus(t, err, http.StatusForbidden, "Profile while banned")

		_, err = client.UnbanAccount(ctx, admin.AccessToken, user.Account.ID)
		require.NoError(t, err)

		profile, err := client.Profile(ctx, user.AccessToken)
		require.NoError(t, err)
		require.False(t, profile.IsBanned)
	})

	t.Run("DeleteIsPermanentForLogin", func(t *testing.T) {
		deleted, err := client.DeleteAccount(ctx, admin.AccessToken, user.Account.ID)
		require.NoError(t, err)
		require.True(t, deleted.IsDeleted)

		_, err = client.Login(ctx, authsdk.LoginRequest{Email: "carol@example.com", Password: userPassword})
		assertStatus(t, err, http.StatusForbidden, "Login after delete")

		_, err = client.Refresh(ctx, user.RefreshToken)
		assertStatus(t, err, http.StatusForbidden, "Refresh after delete")
	})
}
