package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
)

// andOTP container layout: [12-byte IV][ciphertext][16-byte auth tag].
// These sizes are fixed by the external format and must not change.
const (
	ContainerIVSize  = 12
	ContainerTagSize = 16
)

var (
	// ErrEmptyPlaintext is returned when asked to encrypt an empty buffer.
	ErrEmptyPlaintext = errors.New("cryptox: empty plaintext")

	// ErrCiphertextTooShort is returned when a container cannot even hold
	// an IV plus an auth tag. No cryptographic work is attempted.
	ErrCiphertextTooShort = errors.New("cryptox: ciphertext too short")
)

// DeriveContainerKey derives the AES-256 key for the andOTP container as a
// single unsalted SHA-256 of the UTF-8 password bytes. This is deliberately
// NOT a modern password KDF: the external format fixes the derivation, and
// changing it would break interop with containers produced by the app we
// exchange files with. An empty password passes through as an empty key,
// which the AES setup downstream rejects.
func DeriveContainerKey(password string) []byte {
	if password == "" {
		return nil
	}
	sum := sha256.Sum256([]byte(password))
	return sum[:]
}

// EncryptContainer encrypts plaintext under password into the andOTP
// container layout. The IV is freshly random per call; no state is shared
// between calls, so concurrent encryptions cannot reuse an IV.
func EncryptContainer(password string, plaintext []byte) ([]byte, error) {
	if len(plaintext) == 0 {
		return nil, ErrEmptyPlaintext
	}

	gcm, err := containerAEAD(password)
	if err != nil {
		return nil, err
	}

	iv := make([]byte, ContainerIVSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, fmt.Errorf("cryptox: failed to generate IV: %w", err)
	}

	// Seal appends ciphertext and the trailing tag to the IV, giving the
	// container layout directly.
	return gcm.Seal(iv, iv, plaintext, nil), nil
}

// DecryptContainer authenticates and decrypts an andOTP container. It fails
// closed: a short buffer, malformed stream, or tag mismatch returns an error
// and no plaintext, never a partial result.
func DecryptContainer(password string, data []byte) ([]byte, error) {
	if len(data) <= ContainerIVSize+ContainerTagSize {
		return nil, ErrCiphertextTooShort
	}

	gcm, err := containerAEAD(password)
	if err != nil {
		return nil, err
	}

	iv, sealed := data[:ContainerIVSize], data[ContainerIVSize:]
	plaintext, err := gcm.Open(nil, iv, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("cryptox: container decryption failed: %w", err)
	}

	return plaintext, nil
}

// containerAEAD builds a call-scoped AES-256-GCM instance from the derived
// container key. The tag size matches GCM's default of 16 bytes.
func containerAEAD(password string) (cipher.AEAD, error) {
	block, err := aes.NewCipher(DeriveContainerKey(password))
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to create cipher: %w", err)
	}

	// GCM's defaults are a 12-byte nonce and 16-byte tag, exactly the
	// container's IV and tag sizes.
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to create GCM: %w", err)
	}

	return gcm, nil
}
