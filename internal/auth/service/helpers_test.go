package service

import (
	"context"
	"errors"
	"html"
	"net/url"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/idgate/internal/auth/domain"
	"github.com/aussiebroadwan/idgate/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/idgate/pkg/cryptox"
	"github.com/aussiebroadwan/idgate/pkg/jwtx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testIssuer        = "idgate-test"
	testResetLinkURL  = "https://app.example.com/reset-password"
	testAccessSecret  = "access-secret-for-tests-0123456789"
	testRefreshSecret = "refresh-secret-for-tests-9876543210"
)

type sentEmail struct {
	To      string
	Subject string
	Body    string
}

// recordingSender keeps every email instead of delivering it.
type recordingSender struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (r *recordingSender) Send(_ context.Context, to, subject, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, sentEmail{To: to, Subject: subject, Body: body})
	return nil
}

func (r *recordingSender) last(t *testing.T) sentEmail {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.sent, "no email was sent")
	return r.sent[len(r.sent)-1]
}

var hrefPattern = regexp.MustCompile(`href="([^"]+)"`)

// resetLinkFrom pulls the reset URL out of an email body.
func resetLinkFrom(t *testing.T, body string) *url.URL {
	t.Helper()
	m := hrefPattern.FindStringSubmatch(body)
	require.Len(t, m, 2, "reset email has no link")
	u, err := url.Parse(html.UnescapeString(m[1]))
	require.NoError(t, err)
	return u
}

type testEnv struct {
	store   *sqlite.Store
	sender  *recordingSender
	tokens  *TokenService
	auth    *AuthService
	gate    *Gate
	account *AccountService
}

func newTokenService(t *testing.T, opts ...jwtx.Option) *TokenService {
	t.Helper()
	access, err := jwtx.NewCodec([]byte(testAccessSecret), testIssuer, opts...)
	require.NoError(t, err)
	refresh, err := jwtx.NewCodec([]byte(testRefreshSecret), testIssuer, opts...)
	require.NoError(t, err)
	tokens, err := NewTokenService(access, refresh, jwtx.DefaultAccessTokenTTL, jwtx.DefaultRefreshTokenTTL)
	require.NoError(t, err)
	return tokens
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations(context.Background()))

	hasher, err := cryptox.NewHasher(bcrypt.MinCost, 4)
	require.NoError(t, err)

	tokens := newTokenService(t)
	sender := &recordingSender{}

	return &testEnv{
		store:  st,
		sender: sender,
		tokens: tokens,
		auth: &AuthService{
			Store:        st,
			Hasher:       hasher,
			Tokens:       tokens,
			Sender:       sender,
			ResetLinkURL: testResetLinkURL,
		},
		gate:    &Gate{Store: st, Tokens: tokens},
		account: &AccountService{Store: st},
	}
}

func (e *testEnv) register(t *testing.T, name, email, password string) AuthResult {
	t.Helper()
	res, err := e.auth.Register(context.Background(), RegisterInput{Name: name, Email: email, Password: password})
	require.NoError(t, err)
	return res
}

func (e *testEnv) registerAdmin(t *testing.T, email, password string) AuthResult {
	t.Helper()
	res, err := e.auth.RegisterPrivileged(context.Background(), RegisterInput{
		Name: "Admin", Email: email, Password: password, Role: domain.RoleAdmin,
	})
	require.NoError(t, err)
	return res
}

func bearer(token string) string { return "Bearer " + token }

// issueAt signs a token as if it had been minted at t.
func issueAt(t *testing.T, at time.Time, a domain.Account, p jwtx.Purpose, ttl time.Duration) string {
	t.Helper()
	codec, err := jwtx.NewCodec([]byte(testAccessSecret), testIssuer, jwtx.WithClock(func() time.Time { return at }))
	require.NoError(t, err)
	token, _, err := codec.Issue(jwtx.NewClaims(a.ID, a.Email, a.Role.String(), p), ttl)
	require.NoError(t, err)
	return token
}

var errSMTPDown = errors.New("smtp: connection refused")
