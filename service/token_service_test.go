package service

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := NewTokenService("secret", WithClock(fixedClock(now)))

	tok, err := svc.Issue(42, 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, now.Add(30*time.Minute), tok.ExpiresAt)

	subject, err := svc.Verify(tok.Value)
	require.NoError(t, err)
	assert.Equal(t, int64(42), subject)
}

func TestTokenService_Expiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := now
	svc := NewTokenService("secret", WithClock(func() time.Time { return clock }))

	t.Run("zero ttl is already expired", func(t *testing.T) {
		tok, err := svc.Issue(1, 0)
		require.NoError(t, err)
		_, err = svc.Verify(tok.Value)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expires once the clock passes exp", func(t *testing.T) {
		clock = now
		tok, err := svc.Issue(1, time.Minute)
		require.NoError(t, err)

		clock = now.Add(59 * time.Second)
		_, err = svc.Verify(tok.Value)
		assert.NoError(t, err)

		clock = now.Add(time.Minute)
		_, err = svc.Verify(tok.Value)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestTokenService_Rejects(t *testing.T) {
	svc := NewTokenService("secret")
	sign := func(method jwt.SigningMethod, key any, subject string, exp time.Time) string {
		tok, err := jwt.NewWithClaims(method, jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(exp),
		}).SignedString(key)
		require.NoError(t, err)
		return tok
	}
	future := time.Now().Add(time.Hour)

	valid, err := svc.Issue(7, time.Hour)
	require.NoError(t, err)
	parts := strings.Split(valid.Value, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "7"}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := map[string]string{
		"garbage":            "not.a.token",
		"empty":              "",
		"tampered signature": tampered,
		"other secret":       sign(jwt.SigningMethodHS256, []byte("other"), "7", future),
		"other algorithm":    sign(jwt.SigningMethodHS384, []byte("secret"), "7", future),
		"none algorithm":     sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, "7", future),
		"non numeric sub":    sign(jwt.SigningMethodHS256, []byte("secret"), "alice", future),
		"zero sub":           sign(jwt.SigningMethodHS256, []byte("secret"), "0", future),
		"missing exp":        noExp,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Verify(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestAuthorize(t *testing.T) {
	assert.NoError(t, Authorize(5, 5))
	assert.ErrorIs(t, Authorize(5, 6), ErrForbidden)
}
