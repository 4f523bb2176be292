package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/idgate/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func newCodec(t *testing.T, secret string, opts ...jwtx.Option) *jwtx.Codec {
	t.Helper()
	c, err := jwtx.NewCodec([]byte(secret), "idgate-test", opts...)
	require.NoError(t, err)
	return c
}

func TestNewCodec_EmptySecret(t *testing.T) {
	_, err := jwtx.NewCodec(nil, "idgate-test")
	require.ErrorIs(t, err, jwtx.ErrEmptySecret)
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	c := newCodec(t, "access-secret")

	token, issued, err := c.Issue(jwtx.NewClaims("acc-1", "a@x.io", "admin", jwtx.PurposeAccess), time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotNil(t, issued.ExpiresAt)
	require.NotEmpty(t, issued.ID)

	got, err := c.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "acc-1", got.Subject)
	require.Equal(t, "a@x.io", got.Email)
	require.Equal(t, "admin", got.Role)
	require.Equal(t, jwtx.PurposeAccess, got.Purpose)
	require.Equal(t, "idgate-test", got.Issuer)
	require.WithinDuration(t, time.Now().Add(time.Hour), got.ExpiresAt.Time, 2*time.Second)
}

func TestIssue_RejectsNonPositiveTTL(t *testing.T) {
	c := newCodec(t, "access-secret")

	for _, ttl := range []time.Duration{0, -time.Second} {
		_, _, err := c.Issue(jwtx.NewClaims("acc-1", "a@x.io", "user", jwtx.PurposeAccess), ttl)
		require.ErrorIs(t, err, jwtx.ErrNoExpiry)
	}
}

func TestVerify_Expired(t *testing.T) {
	past := func() time.Time { return time.Now().Add(-2 * time.Hour) }
	issuer := newCodec(t, "access-secret", jwtx.WithClock(past))
	verifier := newCodec(t, "access-secret")

	token, _, err := issuer.Issue(jwtx.NewClaims("acc-1", "a@x.io", "user", jwtx.PurposeAccess), time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestVerify_ExpiredWithForeignSignature(t *testing.T) {
	past := func() time.Time { return time.Now().Add(-2 * time.Hour) }
	foreign := newCodec(t, "other-secret", jwtx.WithClock(past))
	verifier := newCodec(t, "access-secret")

	token, _, err := foreign.Issue(jwtx.NewClaims("acc-1", "a@x.io", "user", jwtx.PurposeAccess), time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestVerify_WrongSecret(t *testing.T) {
	a := newCodec(t, "secret-a")
	b := newCodec(t, "secret-b")

	token, _, err := a.Issue(jwtx.NewClaims("acc-1", "a@x.io", "user", jwtx.PurposeAccess), time.Hour)
	require.NoError(t, err)

	_, err = b.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestVerify_Tampered(t *testing.T) {
	c := newCodec(t, "access-secret")

	token, _, err := c.Issue(jwtx.NewClaims("acc-1", "a@x.io", "user", jwtx.PurposeAccess), time.Hour)
	require.NoError(t, err)

	// Swap the payload for one claiming admin, keep the original signature.
	forged, _, err := newCodec(t, "attacker").Issue(jwtx.NewClaims("acc-1", "a@x.io", "admin", jwtx.PurposeAccess), time.Hour)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	forgedParts := strings.Split(forged, ".")
	tampered := parts[0] + "." + forgedParts[1] + "." + parts[2]

	_, err = c.Verify(tampered)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestVerify_Malformed(t *testing.T) {
	c := newCodec(t, "access-secret")

	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := c.Verify(raw)
		require.ErrorIs(t, err, jwtx.ErrMalformed, raw)
	}
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	c := newCodec(t, "access-secret")

	claims := jwtx.NewClaims("acc-1", "a@x.io", "user", jwtx.PurposeAccess)
	claims.Issuer = "idgate-test"
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("access-secret"))
	require.NoError(t, err)

	_, err = c.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestVerify_RequiresExpiry(t *testing.T) {
	c := newCodec(t, "access-secret")

	claims := jwtx.NewClaims("acc-1", "a@x.io", "user", jwtx.PurposeAccess)
	claims.Issuer = "idgate-test"

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("access-secret"))
	require.NoError(t, err)

	_, err = c.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrNoExpiry)
}

func TestVerify_IssuerMismatch(t *testing.T) {
	other, err := jwtx.NewCodec([]byte("access-secret"), "someone-else")
	require.NoError(t, err)
	c := newCodec(t, "access-secret")

	token, _, err := other.Issue(jwtx.NewClaims("acc-1", "a@x.io", "user", jwtx.PurposeAccess), time.Hour)
	require.NoError(t, err)

	_, err = c.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
}

func TestVerify_UnknownPurpose(t *testing.T) {
	c := newCodec(t, "access-secret")

	token, _, err := c.Issue(jwtx.NewClaims("acc-1", "a@x.io", "user", jwtx.Purpose("session")), time.Hour)
	require.NoError(t, err)

	_, err = c.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrMalformed)
}
