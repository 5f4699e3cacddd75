package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/otpvault/otpvault/internal/vault/domain"
	"github.com/otpvault/otpvault/internal/vault/store"
	"github.com/otpvault/otpvault/pkg/idx"
)

var (
	ErrInvalidToken = errors.New("service: token needs a label or a secret")
	ErrOutOfRange   = errors.New("service: token parameter out of range")
)

// TokenService owns the persisted token collection.
type TokenService struct {
	Store store.Store
}

// Add validates and persists a token, assigning it a fresh ULID.
func (s *TokenService) Add(ctx context.Context, token *domain.Token) (idx.ID, error) {
	if err := checkToken(token); err != nil {
		return idx.Zero, err
	}

	rec := store.Record{ID: idx.New(), Token: *token}
	if err := s.Store.Tokens().Create(ctx, rec); err != nil {
		return idx.Zero, fmt.Errorf("service: failed to store token: %w", err)
	}
	return rec.ID, nil
}

// AddBatch persists a set of tokens atomically: either all of them are
// stored or none are. Used after a successful import so a mid-batch storage
// fault cannot leave a half-written collection.
func (s *TokenService) AddBatch(ctx context.Context, tokens []*domain.Token) ([]idx.ID, error) {
	for _, token := range tokens {
		if err := checkToken(token); err != nil {
			return nil, err
		}
	}

	ids := make([]idx.ID, 0, len(tokens))
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		for _, token := range tokens {
			rec := store.Record{ID: idx.New(), Token: *token}
			if err := tx.Tokens().Create(ctx, rec); err != nil {
				return err
			}
			ids = append(ids, rec.ID)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("service: failed to store token batch: %w", err)
	}
	return ids, nil
}

// List returns all stored tokens in insertion order.
func (s *TokenService) List(ctx context.Context) ([]store.Record, error) {
	return s.Store.Tokens().List(ctx)
}

// Get returns a single stored token.
func (s *TokenService) Get(ctx context.Context, id idx.ID) (store.Record, error) {
	return s.Store.Tokens().GetByID(ctx, id)
}

// Remove deletes a stored token.
func (s *TokenService) Remove(ctx context.Context, id idx.ID) error {
	return s.Store.Tokens().Delete(ctx, id)
}

// MigrateLegacy upgrades legacy tokens into the current model and persists
// them in one transaction. Invalid legacy entries (no label, no secret) are
// skipped, mirroring the lenient import rules; the legacy values are not
// referenced after conversion. Returns the number of migrated tokens.
func (s *TokenService) MigrateLegacy(ctx context.Context, legacy []domain.LegacyToken) (int, error) {
	upgraded := make([]*domain.Token, 0, len(legacy))
	for i := range legacy {
		if !legacy[i].Valid() {
			continue
		}
		upgraded = append(upgraded, legacy[i].Upgrade(reclassify(legacy[i].Type)))
	}

	if len(upgraded) == 0 {
		return 0, nil
	}
	if _, err := s.AddBatch(ctx, upgraded); err != nil {
		return 0, err
	}
	return len(upgraded), nil
}

// reclassify maps a legacy type tag onto the current model. The legacy
// format had loosely typed entries (e.g. Authy tokens were a TOTP subtype);
// anything unrecognized becomes TOTP, the most permissive variant.
func reclassify(typ domain.TokenType) domain.TokenType {
	switch typ {
	case domain.TypeTOTP, domain.TypeHOTP, domain.TypeSteam:
		return typ
	default:
		return domain.TypeTOTP
	}
}

// checkToken enforces the storable-token policy: minimal identity plus
// numeric ranges for the fields the variant actually uses.
func checkToken(token *domain.Token) error {
	if !token.Valid() {
		return ErrInvalidToken
	}

	switch token.Type {
	case domain.TypeHOTP:
		if token.Digits < domain.MinDigits || token.Digits > domain.MaxDigits {
			return fmt.Errorf("%w: digits %d", ErrOutOfRange, token.Digits)
		}
		if token.Counter > domain.MaxCounter {
			return fmt.Errorf("%w: counter %d", ErrOutOfRange, token.Counter)
		}
	case domain.TypeTOTP:
		if token.Digits < domain.MinDigits || token.Digits > domain.MaxDigits {
			return fmt.Errorf("%w: digits %d", ErrOutOfRange, token.Digits)
		}
		if token.Period < domain.MinPeriod || token.Period > domain.MaxPeriod {
			return fmt.Errorf("%w: period %d", ErrOutOfRange, token.Period)
		}
	case domain.TypeSteam:
		// Steam ignores stored digits/algorithm and has a fixed period;
		// nothing beyond identity to check.
	}

	return nil
}
