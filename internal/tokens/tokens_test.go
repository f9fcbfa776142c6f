package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	secret := []byte("secret")

	token, err := NewAccessToken(secret, 42, "shop", time.Now().Add(time.Hour))
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "shop", claims.UserType)
}

func TestAccessTokenExpired(t *testing.T) {
	secret := []byte("secret")

	token, err := NewAccessToken(secret, 42, "buyer", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(token, secret)
	require.Error(t, err)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, err := NewAccessToken([]byte("secret"), 42, "buyer", time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(token, []byte("other"))
	require.Error(t, err)
}
