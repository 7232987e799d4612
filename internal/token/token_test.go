package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsEmptySecret(t *testing.T) {
	_, err := New("", time.Hour)
	require.Error(t, err)
}

func TestIssueAndVerify(t *testing.T) {
	svc, err := New("test-secret", time.Hour)
	require.NoError(t, err)

	tok, err := svc.Issue("user_123")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := svc.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user_123", claims.UserID)
	assert.NotEmpty(t, claims.ID, "jti should be set")
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestVerifyExpired(t *testing.T) {
	svc, err := New("test-secret", time.Hour)
	require.NoError(t, err)

	// Craft a token whose expiry is already in the past, signed with the
	// right secret. It must come back as expired, not merely invalid.
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti-1",
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
		UserID: "user_123",
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Verify(tok)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuing, err := New("secret-a", time.Hour)
	require.NoError(t, err)
	verifying, err := New("secret-b", time.Hour)
	require.NoError(t, err)

	tok, err := issuing.Issue("user_123")
	require.NoError(t, err)

	_, err = verifying.Verify(tok)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestVerifyGarbage(t *testing.T) {
	svc, err := New("test-secret", time.Hour)
	require.NoError(t, err)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.Verify(tok)
		assert.ErrorIs(t, err, ErrMalformed, "token %q", tok)
	}
}
