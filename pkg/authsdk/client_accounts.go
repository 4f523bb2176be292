package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// ListAccounts returns every account that has not been deleted.
func (c *SDKClient) ListAccounts(ctx context.Context, accessToken string) ([]Account, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v1/users", accessToken, nil)
	if err != nil {
		return nil, err
	}

	var accounts []Account
	if err := decodeEnvelope(resp, &accounts, http.StatusOK); err != nil {
		return nil, err
	}
	return accounts, nil
}

// Profile returns the account that owns accessToken.
func (c *SDKClient) Profile(ctx context.Context, accessToken string) (*Account, error) {
	return c.accountCall(ctx, http.MethodGet, "/api/v1/users/profile", accessToken, nil, http.StatusOK)
}

// GetAccount returns the account with id.
func (c *SDKClient) GetAccount(ctx context.Context, accessToken, id string) (*Account, error) {
	return c.accountCall(ctx, http.MethodGet, accountPath(id), accessToken, nil, http.StatusOK)
}

// UpdateAccount edits the profile fields set in req.
func (c *SDKClient) UpdateAccount(ctx context.Context, accessToken, id string, req UpdateAccountRequest) (*Account, error) {
	return c.accountCall(ctx, http.MethodPatch, accountPath(id), accessToken, req, http.StatusOK)
}

// DeleteAccount soft-deletes the account with id.
func (c *SDKClient) DeleteAccount(ctx context.Context, accessToken, id string) (*Account, error) {
	return c.accountCall(ctx, http.MethodDelete, accountPath(id), accessToken, nil, http.StatusOK)
}

// BanAccount bans the account with id. Admin only.
func (c *SDKClient) BanAccount(ctx context.Context, accessToken, id string) (*Account, error) {
	return c.accountCall(ctx, http.MethodPost, accountPath(id)+"/ban", accessToken, nil, http.StatusOK)
}

// UnbanAccount lifts a ban. Admin only.
func (c *SDKClient) UnbanAccount(ctx context.Context, accessToken, id string) (*Account, error) {
	return c.accountCall(ctx, http.MethodPost, accountPath(id)+"/unban", accessToken, nil, http.StatusOK)
}

func accountPath(id string) string {
	return "/api/v1/users/" + url.PathEscape(id)
}
