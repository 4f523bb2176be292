package http

import (
	"context"
	"encoding/json"
	"errors"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/idgate/internal/auth/domain"
	"github.com/aussiebroadwan/idgate/internal/auth/service"
	"github.com/aussiebroadwan/idgate/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/idgate/pkg/authsdk"
	"github.com/aussiebroadwan/idgate/pkg/cryptox"
	"github.com/aussiebroadwan/idgate/pkg/httpx"
	"github.com/aussiebroadwan/idgate/pkg/jwtx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var generous = httpx.RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000}

type outbox struct {
	mu     sync.Mutex
	bodies []string
	err    error
}

func (o *outbox) Send(_ context.Context, _, _, body string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.bodies = append(o.bodies, body)
	return nil
}

var hrefPattern = regexp.MustCompile(`href="([^"]+)"`)

func (o *outbox) lastLink(t *testing.T) *url.URL {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotEmpty(t, o.bodies)
	m := hrefPattern.FindStringSubmatch(o.bodies[len(o.bodies)-1])
	require.Len(t, m, 2)
	u, err := url.Parse(html.UnescapeString(m[1]))
	require.NoError(t, err)
	return u
}

type testServer struct {
	*httptest.Server
	client *authsdk.SDKClient
	auth   *service.AuthService
	outbox *outbox
}

func newTestServer(t *testing.T, configure ...func(*Router)) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations(context.Background()))

	hasher, err := cryptox.NewHasher(bcrypt.MinCost, 4)
	require.NoError(t, err)
	access, err := jwtx.NewCodec([]byte("access-secret-for-http-tests"), "idgate-test")
	require.NoError(t, err)
	refresh, err := jwtx.NewCodec([]byte("refresh-secret-for-http-tests"), "idgate-test")
	require.NoError(t, err)
	tokens, err := service.NewTokenService(access, refresh, time.Hour, 24*time.Hour)
	require.NoError(t, err)

	box := &outbox{}
	authSvc := &service.AuthService{
		Store:        st,
		Hasher:       hasher,
		Tokens:       tokens,
		Sender:       box,
		ResetLinkURL: "https://app.example.com/reset-password",
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := NewRouter("test", st, logger)
	r.AuthService = authSvc
	r.AccountService = &service.AccountService{Store: st}
	r.Gate = &service.Gate{Store: st, Tokens: tokens}
	r.StrictLimit, r.ModerateLimit, r.LenientLimit = generous, generous, generous
	for _, fn := range configure {
		fn(r)
	}
	r.ApplyRoutes()

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testServer{
		Server: srv,
		client: authsdk.NewSDKClient(srv.URL),
		auth:   authSvc,
		outbox: box,
	}
}

func (s *testServer) register(t *testing.T, name, email string) *authsdk.AuthData {
	t.Helper()
	data, err := s.client.Register(context.Background(), authsdk.RegisterRequest{Name: name, Email: email, Password: "secret1"})
	require.NoError(t, err)
	return data
}

func (s *testServer) registerAdmin(t *testing.T, email string) *authsdk.AuthData {
	t.Helper()
	_, err := s.auth.RegisterPrivileged(context.Background(), service.RegisterInput{
		Name: "Admin", Email: email, Password: "secret1", Role: domain.RoleAdmin,
	})
	require.NoError(t, err)
	data, err := s.client.Login(context.Background(), authsdk.LoginRequest{Email: email, Password: "secret1"})
	require.NoError(t, err)
	return data
}

func (s *testServer) do(t *testing.T, method, path, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, s.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) authsdk.Envelope {
	t.Helper()
	var env authsdk.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	var apiErr *authsdk.APIError
	require.True(t, errors.As(err, &apiErr), "expected *APIError, got %v", err)
	require.Equal(t, status, apiErr.StatusCode, apiErr.Message)
}

func TestRegisterLoginProfile(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	reg := s.register(t, "Alice", "alice@example.com")
	require.NotEmpty(t, reg.Account.ID)
	require.Equal(t, "user", reg.Account.Role)
	require.NotEqual(t, reg.AccessToken, reg.RefreshToken)
	require.True(t, reg.RefreshExpiresAt.After(reg.AccessExpiresAt))

	login, err := s.client.Login(ctx, authsdk.LoginRequest{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, reg.Account.ID, login.Account.ID)

	me, err := s.client.Profile(ctx, login.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", me.Email)
	require.Equal(t, "Alice", me.Name)
}

func TestRegisterResponseOmitsPassword(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodPost, "/api/v1/auth/register", "",
		`{"name":"Alice","email":"alice@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "secret1")
	require.NotContains(t, string(raw), "$2a$")
	require.Contains(t, string(raw), `"message":"User registered successfully"`)
}

func TestRegisterFailures(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	s.register(t, "Alice", "alice@example.com")

	t.Run("validation", func(t *testing.T) {
		_, err := s.client.Register(ctx, authsdk.RegisterRequest{Email: "not-an-email", Password: "123"})
		requireStatus(t, err, http.StatusBadRequest)

		var apiErr *authsdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Contains(t, apiErr.Fields, "name")
		require.Contains(t, apiErr.Fields, "email")
		require.Contains(t, apiErr.Fields, "password")
	})

	t.Run("self-assigned admin role", func(t *testing.T) {
		_, err := s.client.Register(ctx, authsdk.RegisterRequest{Name: "M", Email: "mallory@example.com", Password: "secret1", Role: "admin"})
		requireStatus(t, err, http.StatusBadRequest)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := s.client.Register(ctx, authsdk.RegisterRequest{Name: "B", Email: "alice@example.com", Password: "secret1"})
		requireStatus(t, err, http.StatusConflict)
	})

	t.Run("malformed body", func(t *testing.T) {
		resp := s.do(t, http.MethodPost, "/api/v1/auth/register", "", `{"name":`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.False(t, decodeEnvelope(t, resp).Success)
	})

	t.Run("unknown field", func(t *testing.T) {
		resp := s.do(t, http.MethodPost, "/api/v1/auth/register", "",
			`{"name":"C","email":"carol@example.com","password":"secret1","isAdmin":true}`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestLoginFailures(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	s.register(t, "Alice", "alice@example.com")

	_, err := s.client.Login(ctx, authsdk.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	requireStatus(t, err, http.StatusUnauthorized)

	_, err = s.client.Login(ctx, authsdk.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	requireStatus(t, err, http.StatusNotFound)

	resp := s.do(t, http.MethodPost, "/api/v1/auth/login", "", `{"email":"alice@example.com","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Empty(t, resp.Header.Get("WWW-Authenticate"))
}

func TestRefreshOverHTTP(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	reg := s.register(t, "Alice", "alice@example.com")

	refreshed, err := s.client.Refresh(ctx, reg.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, reg.Account.ID, refreshed.Account.ID)

	_, err = s.client.Profile(ctx, refreshed.AccessToken)
	require.NoError(t, err)

	_, err = s.client.Refresh(ctx, reg.AccessToken)
	requireStatus(t, err, http.StatusUnauthorized)
}

func TestPasswordResetOverHTTP(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	s.register(t, "Alice", "alice@example.com")
	s.register(t, "Bob", "bob@example.com")

	require.NoError(t, s.client.SendResetLink(ctx, authsdk.ResetLinkRequest{Email: "alice@example.com"}))
	link := s.outbox.lastLink(t)
	require.Equal(t, "alice@example.com", link.Query().Get("email"))
	token := link.Query().Get("token")
	require.NotEmpty(t, token)

	_, err := s.client.ForgotPassword(ctx, authsdk.ForgotPasswordRequest{Email: "bob@example.com", NewPassword: "hijack1", Token: token})
	requireStatus(t, err, http.StatusForbidden)

	a, err := s.client.ForgotPassword(ctx, authsdk.ForgotPasswordRequest{Email: "alice@example.com", NewPassword: "secret2", Token: token})
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", a.Email)

	_, err = s.client.Login(ctx, authsdk.LoginRequest{Email: "alice@example.com", Password: "secret1"})
	requireStatus(t, err, http.StatusUnauthorized)
	_, err = s.client.Login(ctx, authsdk.LoginRequest{Email: "alice@example.com", Password: "secret2"})
	require.NoError(t, err)

	// The link is spent once it has been used.
	_, err = s.client.ForgotPassword(ctx, authsdk.ForgotPasswordRequest{Email: "alice@example.com", NewPassword: "secret3", Token: token})
	requireStatus(t, err, http.StatusUnauthorized)

	err = s.client.SendResetLink(ctx, authsdk.ResetLinkRequest{Email: "nobody@example.com"})
	requireStatus(t, err, http.StatusNotFound)
}

func TestResetLinkDeliveryFailure(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "Alice", "alice@example.com")
	s.outbox.err = errors.New("smtp: connection refused")

	err := s.client.SendResetLink(context.Background(), authsdk.ResetLinkRequest{Email: "alice@example.com"})
	requireStatus(t, err, http.StatusBadGateway)
}

func TestChangePasswordOverHTTP(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	alice := s.register(t, "Alice", "alice@example.com")
	s.register(t, "Bob", "bob@example.com")

	t.Run("missing token carries a bearer challenge", func(t *testing.T) {
		resp := s.do(t, http.MethodPost, "/api/v1/auth/change-password", "",
			`{"email":"alice@example.com","newPassword":"secret2"}`)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Contains(t, resp.Header.Get("WWW-Authenticate"), "Bearer")
	})

	t.Run("someone else's email", func(t *testing.T) {
		_, err := s.client.ChangePassword(ctx, alice.AccessToken, authsdk.ChangePasswordRequest{Email: "bob@example.com", NewPassword: "secret2"})
		requireStatus(t, err, http.StatusForbidden)
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		_, err := s.client.ChangePassword(ctx, alice.RefreshToken, authsdk.ChangePasswordRequest{Email: "alice@example.com", NewPassword: "secret2"})
		requireStatus(t, err, http.StatusUnauthorized)
	})

	t.Run("success", func(t *testing.T) {
		a, err := s.client.ChangePassword(ctx, alice.AccessToken, authsdk.ChangePasswordRequest{Email: "alice@example.com", NewPassword: "secret2"})
		require.NoError(t, err)
		require.Equal(t, alice.Account.ID, a.ID)

		_, err = s.client.Login(ctx, authsdk.LoginRequest{Email: "alice@example.com", Password: "secret2"})
		require.NoError(t, err)
	})
}

func TestUsersEndpoints(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	alice := s.register(t, "Alice", "alice@example.com")
	bob := s.register(t, "Bob", "bob@example.com")
	admin := s.registerAdmin(t, "admin@example.com")

	t.Run("list and get", func(t *testing.T) {
		list, err := s.client.ListAccounts(ctx, alice.AccessToken)
		require.NoError(t, err)
		require.Len(t, list, 3)

		got, err := s.client.GetAccount(ctx, alice.AccessToken, bob.Account.ID)
		require.NoError(t, err)
		require.Equal(t, "bob@example.com", got.Email)

		_, err = s.client.GetAccount(ctx, alice.AccessToken, "01HNOSUCHACCOUNT")
		requireStatus(t, err, http.StatusNotFound)
	})

	t.Run("update self but not others", func(t *testing.T) {
		a, err := s.client.UpdateAccount(ctx, alice.AccessToken, alice.Account.ID, authsdk.UpdateAccountRequest{Name: authsdk.String("Alice B")})
		require.NoError(t, err)
		require.Equal(t, "Alice B", a.Name)

		_, err = s.client.UpdateAccount(ctx, alice.AccessToken, bob.Account.ID, authsdk.UpdateAccountRequest{Name: authsdk.String("Hacked")})
		requireStatus(t, err, http.StatusForbidden)

		b, err := s.client.UpdateAccount(ctx, admin.AccessToken, bob.Account.ID, authsdk.UpdateAccountRequest{Contact: authsdk.String("0400 000 000")})
		require.NoError(t, err)
		require.Equal(t, "0400 000 000", b.Contact)
	})

	t.Run("only admins ban", func(t *testing.T) {
		_, err := s.client.BanAccount(ctx, alice.AccessToken, bob.Account.ID)
		requireStatus(t, err, http.StatusUnauthorized)

		banned, err := s.client.BanAccount(ctx, admin.AccessToken, bob.Account.ID)
		require.NoError(t, err)
		require.True(t, banned.IsBanned)

		_, err = s.client.Profile(ctx, bob.AccessToken)
		requireStatus(t, err, http.StatusForbidden)

		_, err = s.client.UnbanAccount(ctx, admin.AccessToken, bob.Account.ID)
		require.NoError(t, err)
		_, err = s.client.Profile(ctx, bob.AccessToken)
		require.NoError(t, err)
	})

	t.Run("delete is soft and locks the account out", func(t *testing.T) {
		deleted, err := s.client.DeleteAccount(ctx, bob.AccessToken, bob.Account.ID)
		require.NoError(t, err)
		require.True(t, deleted.IsDeleted)

		list, err := s.client.ListAccounts(ctx, alice.AccessToken)
		require.NoError(t, err)
		require.Len(t, list, 2)

		_, err = s.client.Login(ctx, authsdk.LoginRequest{Email: "bob@example.com", Password: "secret1"})
		requireStatus(t, err, http.StatusForbidden)

		_, err = s.client.Profile(ctx, bob.AccessToken)
		requireStatus(t, err, http.StatusForbidden)
	})
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodGet, "/api/v1/nope", "", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	env := decodeEnvelope(t, resp)
	require.False(t, env.Success)
	require.Equal(t, "API not found", env.Message)
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	h, err := s.client.GetHealth(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", h.Status)
	require.Equal(t, "test", h.Version)

	live, err := s.client.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.NotEmpty(t, live.Uptime)

	ready, err := s.client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Database)
	require.Equal(t, "ok", ready.Checks.Signer)
}

func TestLoginRateLimit(t *testing.T) {
	s := newTestServer(t, func(r *Router) {
		r.StrictLimit = httpx.RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2}
	})

	body := `{"email":"alice@example.com","password":"wrong"}`
	for range 2 {
		resp := s.do(t, http.MethodPost, "/api/v1/auth/login", "", body)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	}

	resp := s.do(t, http.MethodPost, "/api/v1/auth/login", "", body)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("Retry-After"))
}

func TestStatusFor(t *testing.T) {
	t.Parallel()

	cases := map[service.Kind]int{
		service.KindConflict:     http.StatusConflict,
		service.KindNotFound:     http.StatusNotFound,
		service.KindForbidden:    http.StatusForbidden,
		service.KindUnauthorized: http.StatusUnauthorized,
		service.KindValidation:   http.StatusBadRequest,
		service.KindDelivery:     http.StatusBadGateway,
		service.KindInternal:     http.StatusInternalServerError,
	}
	for kind, want := range cases {
		require.Equal(t, want, statusFor(kind), kind)
	}
}

func TestWriteErrorHidesUnclassifiedFailures(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	writeError(rec, req, errors.New("db error: disk I/O error at /var/lib/idgate"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "/var/lib/idgate")
}
