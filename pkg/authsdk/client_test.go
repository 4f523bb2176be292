package authsdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *SDKClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewSDKClient(srv.URL + "/")
}

func TestLoginDecodesEnvelope(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/auth/login", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Empty(t, r.Header.Get("Authorization"))

		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "alice@example.com", req.Email)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Envelope{
			Success: true,
			Message: "User logged in successfully",
			Data: AuthData{
				Account:      Account{ID: "01H", Email: "alice@example.com", Role: "user"},
				AccessToken:  "access",
				RefreshToken: "refresh",
			},
		})
	})

	data, err := c.Login(context.Background(), LoginRequest{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, "01H", data.Account.ID)
	require.Equal(t, "access", data.AccessToken)
	require.Equal(t, "refresh", data.RefreshToken)
}

func TestErrorsBecomeAPIError(t *testing.T) {
	t.Parallel()

	t.Run("validation with fields", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			NewValidationError(map[string]string{"email": "invalid email address"}).WriteError(w)
		})

		_, err := c.Register(context.Background(), RegisterRequest{})
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		require.Equal(t, "validation failed", apiErr.Message)
		require.Equal(t, "invalid email address", apiErr.Fields["email"])
	})

	t.Run("plain failure", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			(&APIError{StatusCode: http.StatusUnauthorized, Message: "invalid credentials"}).WriteError(w)
		})

		_, err := c.Login(context.Background(), LoginRequest{})
		require.Equal(t, http.StatusUnauthorized, StatusCode(err))
		require.Contains(t, err.Error(), "invalid credentials")
	})

	t.Run("non json body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream down", http.StatusBadGateway)
		})

		err := c.SendResetLink(context.Background(), ResetLinkRequest{Email: "alice@example.com"})
		require.Equal(t, http.StatusBadGateway, StatusCode(err))
	})
}

func TestAccountCallsSendBearer(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		switch {
		case r.Method == http.MethodPatch && r.URL.Path == "/api/v1/users/01H":
			var req UpdateAccountRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.NotNil(t, req.Contact)
			require.Nil(t, req.Name)
			_ = json.NewEncoder(w).Encode(Envelope{Success: true, Data: Account{ID: "01H", Contact: *req.Contact}})
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/users/01H/ban":
			_ = json.NewEncoder(w).Encode(Envelope{Success: true, Data: Account{ID: "01H", IsBanned: true}})
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/users":
			_ = json.NewEncoder(w).Encode(Envelope{Success: true, Data: []Account{{ID: "01A"}, {ID: "01B"}}})
		default:
			ErrNotFound.WriteError(w)
		}
	})
	ctx := context.Background()

	a, err := c.UpdateAccount(ctx, "tok", "01H", UpdateAccountRequest{Contact: String("555")})
	require.NoError(t, err)
	require.Equal(t, "555", a.Contact)

	a, err = c.BanAccount(ctx, "tok", "01H")
	require.NoError(t, err)
	require.True(t, a.IsBanned)

	list, err := c.ListAccounts(ctx, "tok")
	require.NoError(t, err)
	require.Len(t, list, 2)

	_, err = c.GetAccount(ctx, "tok", "missing")
	require.Equal(t, http.StatusNotFound, StatusCode(err))
}

func TestHealth(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/readyz" {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(HealthResponse{Status: "degraded"})
			return
		}
		_ = json.NewEncoder(w).Encode(HealthResponse{Status: "ok", Version: "test"})
	})

	h, err := c.GetLiveness(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ok", h.Status)

	_, err = c.GetReadiness(context.Background())
	require.Equal(t, http.StatusServiceUnavailable, StatusCode(err))
}
