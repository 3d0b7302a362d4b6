package helpers

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhudevswayam/service-app/pkg/apperr"
)

var issuedAt = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func newTestTokens(now time.Time) *TokenService {
	return NewTokenService("test-secret", "service-app", 24*time.Hour, 0).WithClock(fixedClock(now))
}

func TestIssueAndVerify(t *testing.T) {
	svc := newTestTokens(issuedAt)
	tok, exp, err := svc.Issue("u-1", "acme", "business")
	require.NoError(t, err)
	assert.True(t, issuedAt.Add(24*time.Hour).Equal(exp))

	claims, err := newTestTokens(issuedAt.Add(time.Second)).Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID())
	assert.Equal(t, "acme", claims.TenantID)
	assert.Equal(t, "business", claims.Role)
	assert.Equal(t, issuedAt.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, exp.Unix(), claims.ExpiresAt.Unix())
}

func TestIssueReportsSignedExpiry(t *testing.T) {
	at := issuedAt.Add(700 * time.Millisecond)
	tok, exp, err := newTestTokens(at).Issue("u-1", "acme", "regular")
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(24*time.Hour).Unix(), exp.Unix())
	assert.Zero(t, exp.Nanosecond())

	// the reported instant is already expired
	_, err = newTestTokens(exp).Verify(tok)
	assert.ErrorIs(t, err, apperr.ErrTokenExpired)
	_, err = newTestTokens(exp.Add(-time.Millisecond)).Verify(tok)
	assert.NoError(t, err)
}

func TestVerifyExpiry(t *testing.T) {
	tok, _, err := newTestTokens(issuedAt).Issue("u-1", "acme", "regular")
	require.NoError(t, err)

	t.Run("one second before expiry", func(t *testing.T) {
		_, err := newTestTokens(issuedAt.Add(24*time.Hour - time.Second)).Verify(tok)
		require.NoError(t, err)
	})
	t.Run("exactly at expiry", func(t *testing.T) {
		_, err := newTestTokens(issuedAt.Add(24 * time.Hour)).Verify(tok)
		assert.ErrorIs(t, err, apperr.ErrTokenExpired)
	})
	t.Run("one second after expiry", func(t *testing.T) {
		_, err := newTestTokens(issuedAt.Add(24*time.Hour + time.Second)).Verify(tok)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrTokenExpired)
		assert.NotErrorIs(t, err, apperr.ErrTokenInvalid)
	})
	t.Run("leeway extends acceptance", func(t *testing.T) {
		svc := newTestTokens(issuedAt.Add(24*time.Hour + time.Second))
		svc.Leeway = 30 * time.Second
		_, err := svc.Verify(tok)
		require.NoError(t, err)
	})
}

func TestVerifyRejectsTampering(t *testing.T) {
	tok, _, err := newTestTokens(issuedAt).Issue("u-1", "acme", "regular")
	require.NoError(t, err)
	verifier := newTestTokens(issuedAt.Add(time.Minute))

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenService("other-secret", "service-app", 24*time.Hour, 0).WithClock(fixedClock(issuedAt))
		forged, _, err := other.Issue("u-1", "acme", "business")
		require.NoError(t, err)
		_, err = verifier.Verify(forged)
		assert.ErrorIs(t, err, apperr.ErrTokenInvalid)
	})
	t.Run("garbage", func(t *testing.T) {
		_, err := verifier.Verify("not-a-token")
		assert.ErrorIs(t, err, apperr.ErrTokenInvalid)
	})
	t.Run("modified payload", func(t *testing.T) {
		elevated, _, err := newTestTokens(issuedAt).Issue("u-1", "acme", "business")
		require.NoError(t, err)
		orig := strings.Split(tok, ".")
		swapped := strings.Split(elevated, ".")
		_, err = verifier.Verify(orig[0] + "." + swapped[1] + "." + orig[2])
		assert.ErrorIs(t, err, apperr.ErrTokenInvalid)
	})
	t.Run("alg none", func(t *testing.T) {
		claims := &Claims{TenantID: "acme", Role: "business", RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-1",
			Issuer:    "service-app",
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
		}}
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = verifier.Verify(unsigned)
		assert.ErrorIs(t, err, apperr.ErrTokenInvalid)
	})
	t.Run("unknown role", func(t *testing.T) {
		odd, _, err := newTestTokens(issuedAt).Issue("u-1", "acme", "admin")
		require.NoError(t, err)
		_, err = verifier.Verify(odd)
		assert.ErrorIs(t, err, apperr.ErrTokenInvalid)
	})
	t.Run("missing tenant claim", func(t *testing.T) {
		odd, _, err := newTestTokens(issuedAt).Issue("u-1", "", "regular")
		require.NoError(t, err)
		_, err = verifier.Verify(odd)
		assert.ErrorIs(t, err, apperr.ErrTokenInvalid)
	})
	t.Run("foreign issuer", func(t *testing.T) {
		other := NewTokenService("test-secret", "someone-else", 24*time.Hour, 0).WithClock(fixedClock(issuedAt))
		foreign, _, err := other.Issue("u-1", "acme", "regular")
		require.NoError(t, err)
		_, err = verifier.Verify(foreign)
		assert.ErrorIs(t, err, apperr.ErrTokenInvalid)
	})
}
