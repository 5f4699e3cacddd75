package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/otpvault/otpvault/internal/vault/domain"
	"github.com/otpvault/otpvault/internal/vault/service"
	"github.com/otpvault/otpvault/internal/vault/store"
	"github.com/otpvault/otpvault/internal/vault/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "vault.db"))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func validTOTP(label string) *domain.Token {
	token := domain.NewToken(domain.TypeTOTP)
	token.Label = label
	token.Secret = "JBSWY3DPEHPK3PXP"
	token.Period = 30
	token.Digits = 6
	token.Algorithm = domain.AlgorithmSHA1
	return token
}

func TestTokenServiceAddAndGet(t *testing.T) {
	st := newTestStore(t)
	svc := &service.TokenService{Store: st}
	ctx := context.Background()

	id, err := svc.Add(ctx, validTOTP("GitHub"))
	require.NoError(t, err)
	require.False(t, id.IsZero())

	rec, err := svc.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "GitHub", rec.Token.Label)
}

func TestTokenServiceAddRejectsInvalid(t *testing.T) {
	st := newTestStore(t)
	svc := &service.TokenService{Store: st}
	ctx := context.Background()

	t.Run("no identity", func(t *testing.T) {
		_, err := svc.Add(ctx, domain.NewToken(domain.TypeTOTP))
		require.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("digits out of range", func(t *testing.T) {
		token := validTOTP("bad digits")
		token.Digits = 11
		_, err := svc.Add(ctx, token)
		require.ErrorIs(t, err, service.ErrOutOfRange)
	})

	t.Run("period out of range", func(t *testing.T) {
		token := validTOTP("bad period")
		token.Period = 121
		_, err := svc.Add(ctx, token)
		require.ErrorIs(t, err, service.ErrOutOfRange)
	})

	t.Run("steam skips range checks", func(t *testing.T) {
		token := domain.NewToken(domain.TypeSteam)
		token.Label = "Steam"
		token.Secret = "MFRGGZDFMZTWQ2LK"
		_, err := svc.Add(ctx, token)
		require.NoError(t, err, "steam ignores digits/period entirely")
	})
}

func TestTokenServiceAddBatchAtomic(t *testing.T) {
	st := newTestStore(t)
	svc := &service.TokenService{Store: st}
	ctx := context.Background()

	t.Run("pre-validation failure stores nothing", func(t *testing.T) {
		bad := validTOTP("bad")
		bad.Digits = 2
		_, err := svc.AddBatch(ctx, []*domain.Token{validTOTP("good"), bad})
		require.ErrorIs(t, err, service.ErrOutOfRange)

		all, err := svc.List(ctx)
		require.NoError(t, err)
		require.Empty(t, all)
	})

	t.Run("valid batch stores all", func(t *testing.T) {
		ids, err := svc.AddBatch(ctx, []*domain.Token{validTOTP("one"), validTOTP("two")})
		require.NoError(t, err)
		require.Len(t, ids, 2)

		all, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
	})
}

func TestTokenServiceRemove(t *testing.T) {
	st := newTestStore(t)
	svc := &service.TokenService{Store: st}
	ctx := context.Background()

	id, err := svc.Add(ctx, validTOTP("temp"))
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, id))
	_, err = svc.Get(ctx, id)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestTokenServiceMigrateLegacy(t *testing.T) {
	st := newTestStore(t)
	svc := &service.TokenService{Store: st}
	ctx := context.Background()

	legacy := []domain.LegacyToken{
		{
			Type:      domain.TypeTOTP,
			Label:     "kept totp",
			Secret:    "JBSWY3DPEHPK3PXP",
			Digits:    6,
			Period:    30,
			Algorithm: domain.AlgorithmSHA1,
		},
		{
			Type:      domain.TypeHOTP,
			Label:     "kept hotp",
			Secret:    "NBSWY3DPEB3W64TMMQ",
			Digits:    6,
			Counter:   9,
			Algorithm: domain.AlgorithmSHA256,
		},
		{
			// Untagged legacy entries (e.g. Authy imports) become TOTP.
			Label:     "untyped",
			Secret:    "MFRGGZDFMZTWQ2LK",
			Digits:    7,
			Period:    10,
			Algorithm: domain.AlgorithmSHA1,
		},
		{}, // no label, no secret: skipped
	}

	migrated, err := svc.MigrateLegacy(ctx, legacy)
	require.NoError(t, err)
	require.Equal(t, 3, migrated)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	require.Equal(t, domain.TypeTOTP, all[0].Token.Type)
	require.Equal(t, domain.TypeHOTP, all[1].Token.Type)
	require.Equal(t, uint32(9), all[1].Token.Counter)
	require.Equal(t, domain.TypeTOTP, all[2].Token.Type, "unknown legacy type reclassified")
	require.Equal(t, uint(7), all[2].Token.Digits, "fields preserved through upgrade")
}

func TestTokenServiceMigrateLegacyAllInvalid(t *testing.T) {
	st := newTestStore(t)
	svc := &service.TokenService{Store: st}

	migrated, err := svc.MigrateLegacy(context.Background(), []domain.LegacyToken{{}, {}})
	require.NoError(t, err)
	require.Zero(t, migrated)
}
