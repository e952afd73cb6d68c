package authutils

import (
	"context"
	"testing"
	"time"

	"meditation-server/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims models.Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestNewJWTVerifier_EmptySecret(t *testing.T) {
	_, err := NewJWTVerifier("", nil)
	assert.Error(t, err)
}

func TestVerifyToken(t *testing.T) {
	verifier, err := NewJWTVerifier(testSecret, nil)
	require.NoError(t, err)
	userID := uuid.New()

	t.Run("valid token", func(t *testing.T) {
		tok := signToken(t, testSecret, models.Claims{
			UserID: userID,
			Roles:  []string{models.RoleUser},
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		claims, err := verifier.VerifyToken(context.Background(), tok)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.True(t, models.HasRole(claims.Roles, models.RoleUser))
	})

	t.Run("expired token", func(t *testing.T) {
		tok := signToken(t, testSecret, models.Claims{
			UserID: userID,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
		})
		_, err := verifier.VerifyToken(context.Background(), tok)
		assert.ErrorIs(t, err, models.ErrTokenExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		tok := signToken(t, "other-secret", models.Claims{UserID: userID})
		_, err := verifier.VerifyToken(context.Background(), tok)
		assert.ErrorIs(t, err, models.ErrTokenInvalid)
	})

	t.Run("malformed token", func(t *testing.T) {
		_, err := verifier.VerifyToken(context.Background(), "not-a-jwt")
		assert.ErrorIs(t, err, models.ErrTokenMalformed)
	})

	t.Run("missing user id", func(t *testing.T) {
		tok := signToken(t, testSecret, models.Claims{Roles: []string{models.RoleAdmin}})
		_, err := verifier.VerifyToken(context.Background(), tok)
		assert.ErrorIs(t, err, models.ErrTokenInvalid)
	})
}
