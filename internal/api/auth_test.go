package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserId(t *testing.T) {
	id := uuid.New()

	tcases := []struct {
		name     string
		ctx      context.Context
		userId   uuid.UUID
		expected bool
	}{
		{
			name:     "no user ID",
			ctx:      context.Background(),
			userId:   uuid.Nil,
			expected: false,
		},
		{
			name:     "user ID set",
			ctx:      WithUserId(context.Background(), id),
			userId:   id,
			expected: true,
		},
		{
			name:     "wrong type",
			ctx:      context.WithValue(context.Background(), userIdKey, id.String()),
			userId:   uuid.Nil,
			expected: false,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			userId, ok := UserId(tc.ctx)
			assert.Equal(t, tc.expected, ok, "expected UserId to return %v", tc.expected)
			assert.Equal(t, tc.userId, userId)
		})
	}
}

func TestSessionToken(t *testing.T) {
	app := &RoomCalApp{signingKey: []byte("test-signing-key")}
	userId := uuid.New()

	t.Run("round trip", func(t *testing.T) {
		token, err := app.createJwtForSession(userId, time.Hour)
		require.NoError(t, err)

		got, err := app.extractUserIdFromToken(token)
		require.NoError(t, err)
		assert.Equal(t, userId, got)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := app.createJwtForSession(userId, -time.Minute)
		require.NoError(t, err)

		_, err = app.extractUserIdFromToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong key", func(t *testing.T) {
		other := &RoomCalApp{signingKey: []byte("another-key")}
		token, err := other.createJwtForSession(userId, time.Hour)
		require.NoError(t, err)

		_, err = app.extractUserIdFromToken(token)
		assert.Error(t, err)
	})

	t.Run("numeric user id claim", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			userIdClaim: 42,
			expClaim:    time.Now().Add(time.Hour).Unix(),
		}).SignedString(app.signingKey)
		require.NoError(t, err)

		_, err = app.extractUserIdFromToken(token)
		assert.ErrorContains(t, err, "invalid user id claim")
	})

	t.Run("unsigned token", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			userIdClaim: userId.String(),
			expClaim:    time.Now().Add(time.Hour).Unix(),
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = app.extractUserIdFromToken(token)
		assert.Error(t, err)
	})
}

func TestJwtCookies(t *testing.T) {
	c := createJwtCookie("abc", time.Hour)
	assert.Equal(t, tokenCookieKey, c.Name)
	assert.Equal(t, "abc", c.Value)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.Equal(t, 3600, c.MaxAge)

	expired := expiredJwtCookie()
	assert.Empty(t, expired.Value)
	assert.Equal(t, -1, expired.MaxAge)
	assert.True(t, expired.Expires.Before(time.Now()))
}
