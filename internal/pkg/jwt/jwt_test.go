//go:build unit

package jwt

import (
	"testing"
	"time"

	"fastpick/internal/domain/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_RoundTrip(t *testing.T) {
	svc := NewService("secret", time.Hour)
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, auth.RoleAdmin)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestService_ValidateToken(t *testing.T) {
	t.Run("expired", func(t *testing.T) {
		svc := NewService("secret", time.Minute)
		svc.now = func() time.Time { return time.Now().Add(-time.Hour) }
		token, err := svc.GenerateToken(uuid.New(), auth.RoleMember)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewService("a", time.Hour).GenerateToken(uuid.New(), auth.RoleMember)
		require.NoError(t, err)

		_, err = NewService("b", time.Hour).ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := NewService("a", time.Hour).ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("nil user id", func(t *testing.T) {
		svc := NewService("a", time.Hour)
		token, err := svc.GenerateToken(uuid.Nil, auth.RoleMember)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
