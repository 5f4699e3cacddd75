package store

import (
	"context"
	"errors"

	"github.com/otpvault/otpvault/internal/vault/domain"
	"github.com/otpvault/otpvault/pkg/idx"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Record is a persisted token: the domain entity plus its storage identity.
// Only the store layer sees IDs; the codec and cipher work on bare tokens.
type Record struct {
	ID    idx.ID
	Token domain.Token
}

// Store is the root data access interface. Concrete drivers (sqlite)
// implement this. It is the modern form of the old TokenDatabase
// collaborator: callers never touch the database file directly.
type Store interface {
	Tokens() Tokens
	Meta() Meta

	ApplyMigrations() error

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Tokens() Tokens
	Meta() Meta
	Commit() error
	Rollback() error
}

type Tokens interface {
	// Create inserts a new token record (id is provided by the app via ULID).
	Create(ctx context.Context, rec Record) error

	// GetByID returns a single token record.
	GetByID(ctx context.Context, id idx.ID) (Record, error)

	// List returns all token records in insertion order (ULIDs sort by time).
	List(ctx context.Context) ([]Record, error)

	// UpdateCounter advances an HOTP token's counter after code generation.
	UpdateCounter(ctx context.Context, id idx.ID, counter uint32) error

	// Delete removes a token record.
	Delete(ctx context.Context, id idx.ID) error
}

// Meta stores vault-level key/value settings, currently just the unlock
// password hash.
type Meta interface {
	// GetPasswordHash returns the stored argon2id unlock hash, or
	// ErrNotFound when the vault has no unlock password set.
	GetPasswordHash(ctx context.Context) (string, error)

	// SetPasswordHash stores (or replaces) the unlock hash.
	SetPasswordHash(ctx context.Context, hash string) error
}
