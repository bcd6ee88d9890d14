package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParseAccessToken(t *testing.T) {
	manager := JWTManager{Secret: []byte("test-secret"), Issuer: "talentmatch"}

	token, expiresAt, err := manager.IssueAccessToken("user-1", "alice", "alice@example.com", "sess-1", false)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)

	claims, err := manager.ParseAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, "alice", claims.Subject)
	require.Equal(t, "alice@example.com", claims.Email)
	require.Equal(t, "sess-1", claims.SessionID)
	require.NotNil(t, claims.ExpiresAt)
}

func TestIssueAccessTokenRemembered(t *testing.T) {
	manager := JWTManager{Secret: []byte("test-secret")}

	token, expiresAt, err := manager.IssueAccessToken("user-1", "alice", "alice@example.com", "sess-1", true)
	require.NoError(t, err)
	require.True(t, expiresAt.IsZero())

	claims, err := manager.ParseAccessToken(token)
	require.NoError(t, err)
	require.Nil(t, claims.ExpiresAt)
}

func TestParseAccessTokenWrongSecret(t *testing.T) {
	manager := JWTManager{Secret: []byte("test-secret")}
	token, _, err := manager.IssueAccessToken("user-1", "alice", "alice@example.com", "sess-1", false)
	require.NoError(t, err)

	other := JWTManager{Secret: []byte("other-secret")}
	_, err = other.ParseAccessToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessTokenExpired(t *testing.T) {
	manager := JWTManager{Secret: []byte("test-secret")}
	claims := AccessClaims{
		UserID:    "user-1",
		SessionID: "sess-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(manager.Secret)
	require.NoError(t, err)

	_, err = manager.ParseAccessToken(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessTokenRejectsNonHMAC(t *testing.T) {
	manager := JWTManager{Secret: []byte("test-secret")}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, AccessClaims{UserID: "user-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = manager.ParseAccessToken(unsigned)
	require.ErrorIs(t, err, ErrInvalidToken)
}
