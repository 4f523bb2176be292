package authsdk

import (
	"context"
	"net/http"
)

// Register creates an account and returns its first token pair.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*AuthData, error) {
	return c.authCall(ctx, "/api/v1/auth/register", req, http.StatusCreated)
}

// Login exchanges an email and password for a token pair.
func (c *SDKClient) Login(ctx context.Context, req LoginRequest) (*AuthData, error) {
	return c.authCall(ctx, "/api/v1/auth/login", req, http.StatusOK)
}

// Refresh exchanges a refresh token for a new token pair.
func (c *SDKClient) Refresh(ctx context.Context, refreshToken string) (*AuthData, error) {
	return c.authCall(ctx, "/api/v1/auth/refresh", RefreshRequest{RefreshToken: refreshToken}, http.StatusOK)
}

func (c *SDKClient) authCall(ctx context.Context, path string, body any, expected int) (*AuthData, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, path, "", body)
	if err != nil {
		return nil, err
	}

	var data AuthData
	if err := decodeEnvelope(resp, &data, expected); err != nil {
		return nil, err
	}
	return &data, nil
}

// SendResetLink asks the service to email a password reset link.
func (c *SDKClient) SendResetLink(ctx context.Context, req ResetLinkRequest) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/reset-link", "", req)
	if err != nil {
		return err
	}
	return decodeEnvelope(resp, nil, http.StatusOK)
}

// ForgotPassword consumes a reset token and sets a new password.
func (c *SDKClient) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (*Account, error) {
	return c.accountCall(ctx, http.MethodPost, "/api/v1/auth/forgot-password", "", req, http.StatusOK)
}

// ChangePassword sets a new password for the holder of accessToken.
func (c *SDKClient) ChangePassword(ctx context.Context, accessToken string, req ChangePasswordRequest) (*Account, error) {
	return c.accountCall(ctx, http.MethodPost, "/api/v1/auth/change-password", accessToken, req, http.StatusOK)
}

func (c *SDKClient) accountCall(ctx context.Context, method, path, token string, body any, expected int) (*Account, error) {
	resp, err := c.doRequest(ctx, method, path, token, body)
	if err != nil {
		return nil, err
	}

	var account Account
	if err := decodeEnvelope(resp, &account, expected); err != nil {
		return nil, err
	}
	return &account, nil
}
