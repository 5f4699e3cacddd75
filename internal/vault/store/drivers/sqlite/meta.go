package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/otpvault/otpvault/internal/vault/store"
)

const passwordHashKey = "password_hash"

type metaRepo struct {
	q querier
}

func (r *metaRepo) GetPasswordHash(ctx context.Context) (string, error) {
	var hash string
	err := r.q.QueryRowContext(ctx,
		`SELECT value FROM vault_meta WHERE key = ?;`, passwordHashKey).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return hash, nil
}

func (r *metaRepo) SetPasswordHash(ctx context.Context, hash string) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO vault_meta (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value;`,
		passwordHashKey, hash)
	return err
}
