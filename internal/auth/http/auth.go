package http

import (
	"net/http"

	"github.com/aussiebroadwan/idgate/internal/auth/domain"
	"github.com/aussiebroadwan/idgate/internal/auth/service"
	"github.com/aussiebroadwan/idgate/pkg/authsdk"
)

// AuthHandler serves the credential endpoints.
type AuthHandler struct {
	AuthService *service.AuthService
}

// HandleRegister godoc
//
//	@Summary		Register an account
//	@Description	Creates a user account and returns it with a fresh access and refresh token.
//	@Description	Only the "user" role may be requested here.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegisterRequest						true	"New account"
//	@Success		201		{object}	authsdk.Envelope{data=authsdk.AuthData}		"Account and tokens"
//	@Failure		400		{object}	authsdk.Envelope							"Validation failed"
//	@Failure		409		{object}	authsdk.Envelope							"Email already registered"
//	@Failure		429		{object}	authsdk.Envelope							"Too many requests"
//	@Router			/api/v1/auth/register [post]
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	res, err := h.AuthService.Register(r.Context(), service.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		Contact:         req.Contact,
		Role:            domain.Role(req.Role),
		ProfileImageURL: req.ProfileImage,
		Address:         req.Address,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeOK(w, http.StatusCreated, "User registered successfully", toAuthData(res))
}

// HandleLogin godoc
//
//	@Summary		Log in
//	@Description	Exchanges an email and password for an access and refresh token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest					true	"Credentials"
//	@Success		200		{object}	authsdk.Envelope{data=authsdk.AuthData}	"Account and tokens"
//	@Failure		400		{object}	authsdk.Envelope						"Validation failed"
//	@Failure		401		{object}	authsdk.Envelope						"Invalid credentials"
//	@Failure		403		{object}	authsdk.Envelope						"Account banned or deleted"
//	@Failure		404		{object}	authsdk.Envelope						"Account not found"
//	@Failure		429		{object}	authsdk.Envelope						"Too many requests"
//	@Router			/api/v1/auth/login [post]
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	res, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, "User logged in successfully", toAuthData(res))
}

// HandleRefresh godoc
//
//	@Summary		Refresh tokens
//	@Description	Exchanges a refresh token for a new access and refresh token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RefreshRequest					true	"Refresh token"
//	@Success		200		{object}	authsdk.Envelope{data=authsdk.AuthData}	"Account and tokens"
//	@Failure		401		{object}	authsdk.Envelope						"Invalid or expired token"
//	@Failure		403		{object}	authsdk.Envelope						"Account banned or deleted"
//	@Router			/api/v1/auth/refresh [post]
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RefreshRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	res, err := h.AuthService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, "Token refreshed successfully", toAuthData(res))
}

// HandleResetLink godoc
//
//	@Summary		Send a password reset link
//	@Description	Emails a single-purpose reset link valid for ten minutes.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.ResetLinkRequest	true	"Account email"
//	@Success		200		{object}	authsdk.Envelope			"Link sent"
//	@Failure		403		{object}	authsdk.Envelope			"Account banned or deleted"
//	@Failure		404		{object}	authsdk.Envelope			"Account not found"
//	@Failure		502		{object}	authsdk.Envelope			"Email could not be sent"
//	@Router			/api/v1/auth/reset-link [post]
func (h *AuthHandler) HandleResetLink(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ResetLinkRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if err := h.AuthService.SendResetLink(r.Context(), req.Email); err != nil {
		writeError(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, "Password reset link sent successfully", nil)
}

// HandleForgotPassword godoc
//
//	@Summary		Reset a password
//	@Description	Consumes the token from a reset link and sets a new password.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.ForgotPasswordRequest			true	"Reset token and new password"
//	@Success		200		{object}	authsdk.Envelope{data=authsdk.Account}	"Updated account"
//	@Failure		400		{object}	authsdk.Envelope						"Validation failed"
//	@Failure		401		{object}	authsdk.Envelope						"Invalid or expired token"
//	@Failure		403		{object}	authsdk.Envelope						"Token not issued for this account"
//	@Failure		404		{object}	authsdk.Envelope						"Account not found"
//	@Router			/api/v1/auth/forgot-password [post]
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ForgotPasswordRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	a, err := h.AuthService.ResetPassword(r.Context(), service.ResetInput{
		Email:       req.Email,
		NewPassword: req.NewPassword,
		Token:       req.Token,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, "Password reset successfully", toAccount(a))
}

// HandleChangePassword godoc
//
//	@Summary		Change password
//	@Description	Sets a new password for the holder of the bearer token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		authsdk.ChangePasswordRequest			true	"Account email and new password"
//	@Success		200		{object}	authsdk.Envelope{data=authsdk.Account}	"Updated account"
//	@Failure		400		{object}	authsdk.Envelope						"Validation failed"
//	@Failure		401		{object}	authsdk.Envelope						"Missing or invalid token"
//	@Failure		403		{object}	authsdk.Envelope						"Token not issued for this account"
//	@Router			/api/v1/auth/change-password [post]
func (h *AuthHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ChangePasswordRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	a, err := h.AuthService.ChangePassword(r.Context(), r.Header.Get("Authorization"), service.ChangePasswordInput{
		Email:       req.Email,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, "Password changed successfully", toAccount(a))
}

func toAccount(a domain.Account) authsdk.Account {
	return authsdk.Account{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		Contact:      a.Contact,
		Role:         a.Role.String(),
		ProfileImage: a.ProfileImageURL,
		Address:      a.Address,
		IsBanned:     a.IsBanned,
		IsDeleted:    a.IsDeleted,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func toAuthData(res service.AuthResult) authsdk.AuthData {
	return authsdk.AuthData{
		Account:          toAccount(res.Account),
		AccessToken:      res.Tokens.AccessToken,
		RefreshToken:     res.Tokens.RefreshToken,
		AccessExpiresAt:  res.Tokens.AccessExpiresAt,
		RefreshExpiresAt: res.Tokens.RefreshExpiresAt,
	}
}
