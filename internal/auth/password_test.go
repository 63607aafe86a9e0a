package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("longpassword1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	assert.NotContains(t, hash, "longpassword1")

	assert.True(t, VerifyPassword(hash, "longpassword1"))
	assert.False(t, VerifyPassword(hash, "longpassword2"))
	assert.False(t, VerifyPassword(hash, ""))
}

func TestHashPasswordSalted(t *testing.T) {
	h1, err := HashPassword("same-password")
	require.NoError(t, err)
	h2, err := HashPassword("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2, "each hash carries a fresh random salt")
}

func TestVerifyPasswordBcryptLegacy(t *testing.T) {
	hash, err := HashPasswordBcrypt("legacy-password", 12)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2"))

	assert.True(t, VerifyPassword(hash, "legacy-password"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	assert.False(t, VerifyPassword("", "anything"))
	assert.False(t, VerifyPassword("$argon2id$garbage", "anything"))
	assert.False(t, VerifyPassword("$argon2id$v=19$m=65536,t=4,p=1$notbase64!$nothex", "anything"))
	assert.False(t, VerifyPassword("plaintext", "plaintext"))
}
