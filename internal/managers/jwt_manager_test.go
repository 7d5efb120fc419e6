package managers

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTManager(t *testing.T) *JWTManager {
	t.Helper()

	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	return NewJWTManager(privateKey, publicKey).(*JWTManager)
}

func TestGenerateAndValidateJWT(t *testing.T) {
	jwtMgr := newTestJWTManager(t)

	token, err := jwtMgr.GenerateJWT("2e9a5f8e-4a38-4bfb-8f5d-8d6e9e9c1a11")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userId, err := jwtMgr.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "2e9a5f8e-4a38-4bfb-8f5d-8d6e9e9c1a11", userId)
}

func TestValidateJWTExpired(t *testing.T) {
	jwtMgr := newTestJWTManager(t)

	// Sign a token whose expiry already passed with the manager's own key
	claims := jwt.MapClaims{
		"iss": "account-service",
		"iat": time.Now().Add(-2 * time.Hour).Unix(),
		"exp": time.Now().Add(-1 * time.Hour).Unix(),
		"sub": "2e9a5f8e-4a38-4bfb-8f5d-8d6e9e9c1a11",
	}
	expiredToken, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(jwtMgr.privateKey)
	require.NoError(t, err)

	_, err = jwtMgr.ValidateJWT(expiredToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateJWTWrongKey(t *testing.T) {
	jwtMgr := newTestJWTManager(t)
	otherMgr := newTestJWTManager(t)

	token, err := otherMgr.GenerateJWT("2e9a5f8e-4a38-4bfb-8f5d-8d6e9e9c1a11")
	require.NoError(t, err)

	_, err = jwtMgr.ValidateJWT(token)
	assert.Error(t, err)
}

func TestValidateJWTMalformed(t *testing.T) {
	jwtMgr := newTestJWTManager(t)

	_, err := jwtMgr.ValidateJWT("not-a-token")
	assert.Error(t, err)
}
