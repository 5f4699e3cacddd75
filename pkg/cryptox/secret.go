package cryptox

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
)

// Secret size constants (in bytes before encoding).
const (
	// SecretSize128 provides 128 bits of entropy, the RFC 4226 minimum.
	SecretSize128 = 16
	// SecretSize160 provides 160 bits of entropy, matching SHA-1's block.
	SecretSize160 = 20
	// SecretSize256 provides 256 bits of entropy for SHA-256 tokens.
	SecretSize256 = 32
)

// GenerateSecret creates a cryptographically secure random OTP secret of the
// specified byte length. The secret is returned base32-encoded without
// padding, the form authenticator apps exchange.
func GenerateSecret(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("secret size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random secret: %w", err)
	}

	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf), nil
}
