package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashingSalted(t *testing.T) {
	plaintext := "secret.Password1"

	first, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	require.NoError(t, err)
	second, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	require.NoError(t, err)

	// Fresh salt per call, so the stored values differ and never equal the plaintext
	assert.NotEqual(t, first, second)
	assert.NotEqual(t, plaintext, string(first))

	assert.NoError(t, bcrypt.CompareHashAndPassword(first, []byte(plaintext)))
	assert.NoError(t, bcrypt.CompareHashAndPassword(second, []byte(plaintext)))
	assert.Error(t, bcrypt.CompareHashAndPassword(first, []byte("wrong.Password1")))
}
