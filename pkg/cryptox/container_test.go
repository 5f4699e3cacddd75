package cryptox_test

import (
	"crypto/sha256"
	"testing"

	"github.com/otpvault/otpvault/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptContainer(t *testing.T) {
	t.Parallel()

	plaintext := []byte(`[{"secret":"ABCDEF","label":"test"}]`)

	encrypted, err := cryptox.EncryptContainer("hunter2", plaintext)
	require.NoError(t, err)
	require.NotEmpty(t, encrypted)
	require.Len(t, encrypted, cryptox.ContainerIVSize+len(plaintext)+cryptox.ContainerTagSize)

	decrypted, err := cryptox.DecryptContainer("hunter2", encrypted)
	require.NoError(t, err)
	require.Equal(t, plaintext, decrypted)
}

func TestEncryptContainerUniqueIVs(t *testing.T) {
	t.Parallel()

	plaintext := []byte("same plaintext twice")

	encrypted1, err := cryptox.EncryptContainer("pw", plaintext)
	require.NoError(t, err)
	encrypted2, err := cryptox.EncryptContainer("pw", plaintext)
	require.NoError(t, err)

	require.NotEqual(t, encrypted1, encrypted2, "random IV should make ciphertexts differ")
	require.NotEqual(t,
		encrypted1[:cryptox.ContainerIVSize],
		encrypted2[:cryptox.ContainerIVSize],
		"IVs must not repeat across encryptions")
}

func TestEncryptContainerEmptyPlaintext(t *testing.T) {
	t.Parallel()

	out, err := cryptox.EncryptContainer("pw", nil)
	require.ErrorIs(t, err, cryptox.ErrEmptyPlaintext)
	require.Nil(t, out)

	out, err = cryptox.EncryptContainer("pw", []byte{})
	require.ErrorIs(t, err, cryptox.ErrEmptyPlaintext)
	require.Nil(t, out)
}

func TestEncryptContainerEmptyPassword(t *testing.T) {
	t.Parallel()

	// The empty password derives an empty key, which AES key setup rejects.
	out, err := cryptox.EncryptContainer("", []byte("data"))
	require.Error(t, err)
	require.Nil(t, out)
}

func TestDecryptContainerWrongPassword(t *testing.T) {
	t.Parallel()

	encrypted, err := cryptox.EncryptContainer("correct", []byte("secret data"))
	require.NoError(t, err)

	out, err := cryptox.DecryptContainer("incorrect", encrypted)
	require.Error(t, err)
	require.Nil(t, out, "no partial plaintext on auth failure")
}

func TestDecryptContainerTampered(t *testing.T) {
	t.Parallel()

	encrypted, err := cryptox.EncryptContainer("pw", []byte("integrity matters"))
	require.NoError(t, err)

	// Flip one byte in every ciphertext/tag position; each must fail closed.
	for i := cryptox.ContainerIVSize; i < len(encrypted); i++ {
		tampered := make([]byte, len(encrypted))
		copy(tampered, encrypted)
		tampered[i] ^= 0x01

		out, err := cryptox.DecryptContainer("pw", tampered)
		require.Error(t, err, "flipped byte at offset %d must be detected", i)
		require.Nil(t, out)
	}
}

func TestDecryptContainerTooShort(t *testing.T) {
	t.Parallel()

	// Anything not longer than IV+tag is rejected before any crypto runs.
	for _, size := range []int{0, 1, 27, 28} {
		out, err := cryptox.DecryptContainer("pw", make([]byte, size))
		require.ErrorIs(t, err, cryptox.ErrCiphertextTooShort, "size %d", size)
		require.Nil(t, out)
	}
}

func TestDeriveContainerKey(t *testing.T) {
	t.Parallel()

	// Fixed by the external format: a single unsalted SHA-256 pass.
	sum := sha256.Sum256([]byte("password"))
	require.Equal(t, sum[:], cryptox.DeriveContainerKey("password"))

	require.Nil(t, cryptox.DeriveContainerKey(""), "empty password passes through underived")
}
