package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestNewSessionToken(t *testing.T) {
	secret := "test-secret"
	st, err := NewSessionToken(secret, 42, "admin", "alice", 30)
	require.NoError(t, err)
	require.NotEmpty(t, st.Token)

	// Expiry lands roughly 30 days out.
	require.WithinDuration(t, time.Now().UTC().Add(30*24*time.Hour), st.Exp, time.Minute)

	parsed, err := jwt.Parse(st.Token, func(tok *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.EqualValues(t, 42, claims["sub"])
	require.Equal(t, "admin", claims["role"])
	require.Equal(t, "alice", claims["username"])
	require.EqualValues(t, st.Exp.Unix(), claims["exp"])
}

func TestSessionTokenRejectsWrongSecret(t *testing.T) {
	st, err := NewSessionToken("right-secret", 1, "user", "bob", 1)
	require.NoError(t, err)

	_, err = jwt.Parse(st.Token, func(tok *jwt.Token) (any, error) {
		return []byte("wrong-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.Error(t, err)
}
