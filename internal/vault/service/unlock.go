package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/otpvault/otpvault/internal/vault/store"
	"github.com/otpvault/otpvault/pkg/cryptox"
)

// ErrLocked reports a wrong (or missing) vault unlock password.
var ErrLocked = errors.New("service: wrong vault password")

// UnlockService guards the vault with an optional master password. The hash
// is argon2id; this is deliberately stronger than the andOTP container's
// SHA-256 derivation, which only the interop path uses.
type UnlockService struct {
	Store store.Store
}

// SetPassword sets or replaces the unlock password. When a password is
// already set, current must verify against it first. An empty new password
// is rejected; use the zero state (never set) for an unprotected vault.
func (s *UnlockService) SetPassword(ctx context.Context, current, next string) error {
	if next == "" {
		return errors.New("service: unlock password must not be empty")
	}
	if err := s.Verify(ctx, current); err != nil {
		return err
	}

	hash, err := cryptox.HashPassword(next)
	if err != nil {
		return fmt.Errorf("service: failed to hash unlock password: %w", err)
	}
	return s.Store.Meta().SetPasswordHash(ctx, hash)
}

// Verify checks password against the stored hash. A vault with no password
// set accepts any input.
func (s *UnlockService) Verify(ctx context.Context, password string) error {
	hash, err := s.Store.Meta().GetPasswordHash(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := cryptox.VerifyPassword(password, hash); err != nil {
		return ErrLocked
	}
	return nil
}
