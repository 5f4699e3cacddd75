package cryptox_test

import (
	"strings"
	"testing"

	"github.com/otpvault/otpvault/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := cryptox.HashPassword("vault-unlock-pw")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	require.NoError(t, cryptox.VerifyPassword("vault-unlock-pw", hash))
	require.Error(t, cryptox.VerifyPassword("wrong-pw", hash))
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	t.Parallel()

	hash1, err := cryptox.HashPassword("same")
	require.NoError(t, err)
	hash2, err := cryptox.HashPassword("same")
	require.NoError(t, err)
	require.NotEqual(t, hash1, hash2, "random salt should make hashes differ")
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	t.Parallel()

	require.Error(t, cryptox.VerifyPassword("pw", "not-a-phc-string"))
	require.Error(t, cryptox.VerifyPassword("pw", "$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA"))
}

func TestGenerateSecret(t *testing.T) {
	t.Parallel()

	secret, err := cryptox.GenerateSecret(cryptox.SecretSize160)
	require.NoError(t, err)
	require.NotEmpty(t, secret)
	require.Equal(t, 32, len(secret), "20 bytes base32-encode to 32 chars without padding")
	require.NotContains(t, secret, "=")

	_, err = cryptox.GenerateSecret(0)
	require.Error(t, err)
}
