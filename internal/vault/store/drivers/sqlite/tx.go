package sqlite

import (
	"database/sql"

	"github.com/otpvault/otpvault/internal/vault/store"
)

// txStore wraps a *sql.Tx so repositories run their statements inside the
// transaction. Commit/Rollback delegate to the underlying transaction.
type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Tokens() store.Tokens { return &tokensRepo{q: t.tx} }
func (t *txStore) Meta() store.Meta     { return &metaRepo{q: t.tx} }

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }
