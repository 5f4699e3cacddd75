package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/otpvault/otpvault/internal/vault/domain"
	"github.com/otpvault/otpvault/internal/vault/store"
	"github.com/otpvault/otpvault/pkg/idx"
)

// querier is satisfied by both *sql.DB and *sql.Tx so the repo works inside
// and outside transactions.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type tokensRepo struct {
	q querier
}

func (r *tokensRepo) Create(ctx context.Context, rec store.Record) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO tokens (id, type, label, secret, digits, period, counter, algorithm)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
		rec.ID.String(),
		uint8(rec.Token.Type),
		rec.Token.Label,
		rec.Token.Secret,
		rec.Token.Digits,
		rec.Token.Period,
		rec.Token.Counter,
		uint8(rec.Token.Algorithm),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *tokensRepo) GetByID(ctx context.Context, id idx.ID) (store.Record, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, type, label, secret, digits, period, counter, algorithm
		FROM tokens WHERE id = ?;`, id.String())
	return scanRecord(row)
}

func (r *tokensRepo) List(ctx context.Context) ([]store.Record, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, type, label, secret, digits, period, counter, algorithm
		FROM tokens ORDER BY id ASC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *tokensRepo) UpdateCounter(ctx context.Context, id idx.ID, counter uint32) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE tokens SET counter = ? WHERE id = ?;`, counter, id.String())
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *tokensRepo) Delete(ctx context.Context, id idx.ID) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM tokens WHERE id = ?;`, id.String())
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (store.Record, error) {
	var (
		rec       store.Record
		id        string
		typ       uint8
		algorithm uint8
	)
	err := s.Scan(
		&id,
		&typ,
		&rec.Token.Label,
		&rec.Token.Secret,
		&rec.Token.Digits,
		&rec.Token.Period,
		&rec.Token.Counter,
		&algorithm,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Record{}, store.ErrNotFound
	}
	if err != nil {
		return store.Record{}, err
	}

	rec.ID = idx.ID(id)
	rec.Token.Type = domain.TokenType(typ)
	rec.Token.Algorithm = domain.Algorithm(algorithm)
	return rec, nil
}

func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
