package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTIssuer_Issue(t *testing.T) {
	secret := "test-secret"
	issuer := NewJWTIssuer(secret)

	token, err := issuer.Issue("operator-1", []string{"admin"}, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	claims, ok := parsed.Claims.(*jwtClaims)
	require.True(t, ok)
	assert.Equal(t, "operator-1", claims.Subject)
	assert.Equal(t, []string{"admin"}, claims.Roles)
}

func TestJWTVerifier_Verify(t *testing.T) {
	secret := "test-secret"
	verifier := NewJWTVerifier(secret)

	t.Run("round trip", func(t *testing.T) {
		token, err := NewJWTIssuer(secret).Issue("operator-1", []string{"admin", "support"}, time.Hour)
		require.NoError(t, err)

		p, err := verifier.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "operator-1", p.Subject)
		assert.True(t, p.HasRole("admin"))
		assert.False(t, p.HasRole("root"))
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewJWTIssuer("other").Issue("operator-1", nil, time.Hour)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		issuer := &jwtIssuer{secret: []byte(secret), now: func() time.Time { return time.Now().Add(-2 * time.Hour) }}
		token, err := issuer.Issue("operator-1", []string{"admin"}, time.Hour)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing expiry", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "operator-1"},
		}).SignedString([]byte(secret))
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		token, err := NewJWTIssuer(secret).Issue("", []string{"admin"}, time.Hour)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := verifier.Verify("not-a-jwt")
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}
