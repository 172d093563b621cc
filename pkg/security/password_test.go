package security_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmreyes-dev/partstream-backend/pkg/config"
	"github.com/dmreyes-dev/partstream-backend/pkg/security"
)

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := security.HashPassword("very-secure-password", testPasswordConfig())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := security.VerifyPassword("very-secure-password", hash)
	require.NoError(t, err)
	assert.True(t, ok, "correct password should verify")

	ok, err = security.VerifyPassword("bogus-password", hash)
	require.NoError(t, err)
	assert.False(t, ok, "wrong password should not verify")
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	_, err := security.HashPassword("", testPasswordConfig())
	require.Error(t, err)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	for _, encoded := range []string{
		"not-a-hash",
		"$argon2i$v=19$m=32768,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=32768,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$aGFzaA",
	} {
		_, err := security.VerifyPassword("irrelevant", encoded)
		assert.ErrorIs(t, err, security.ErrInvalidHash, encoded)
	}
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	cfg := testPasswordConfig()
	first, err := security.HashPassword("same-password", cfg)
	require.NoError(t, err)
	second, err := security.HashPassword("same-password", cfg)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
