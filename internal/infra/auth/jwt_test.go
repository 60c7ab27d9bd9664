package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_RoundTrip(t *testing.T) {
	j, err := NewJWTUtil("segredo", time.Hour)
	require.NoError(t, err)

	token, err := j.GenerateToken("user-1", "ana@example.com")
	require.NoError(t, err)

	claims, err := j.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestJWT_Rejects(t *testing.T) {
	j, err := NewJWTUtil("segredo", time.Hour)
	require.NoError(t, err)

	sign := func(method jwt.SigningMethod, claims UserClaims, key []byte) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	valid := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}

	cases := map[string]string{
		"outro algoritmo": sign(jwt.SigningMethodHS512, UserClaims{UserID: "u", RegisteredClaims: valid}, []byte("segredo")),
		"outra chave":     sign(jwt.SigningMethodHS256, UserClaims{UserID: "u", RegisteredClaims: valid}, []byte("outra")),
		"sem user_id":     sign(jwt.SigningMethodHS256, UserClaims{RegisteredClaims: valid}, []byte("segredo")),
		"expirado": sign(jwt.SigningMethodHS256, UserClaims{UserID: "u", RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		}}, []byte("segredo")),
		"lixo": "nao.e.jwt",
	}
	for name, token := range cases {
		_, err := j.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken, name)
	}
}

func TestNewJWTUtil(t *testing.T) {
	_, err := NewJWTUtil("", time.Hour)
	assert.Error(t, err)

	j, err := NewJWTUtil("k", 0)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, j.expiration)
}
