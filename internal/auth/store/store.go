package store

import (
	"context"
	"errors"
	"time"

	"github.com/terracehq/terrace-auth/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. Sub-repositories keep concerns tidy and let services
// depend on just the slice they touch.
type Store interface {
	Users() Users
	PasswordResets() PasswordResets

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise. Prefer this over Tx directly.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It exposes the same repos plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login and reset initiation.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordDigest replaces the stored digest and bumps updated_at.
	UpdatePasswordDigest(ctx context.Context, userID string, digest string) error

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

type PasswordResets interface {
	// CreatePasswordReset writes a new reset record (code_hash is the
	// SHA-256 fingerprint of the opaque code, never the code itself).
	CreatePasswordReset(ctx context.Context, pr domain.PasswordReset) error

	// GetPasswordResetByCodeHash returns the record regardless of state;
	// callers judge expiry and consumption.
	GetPasswordResetByCodeHash(ctx context.Context, hash string) (domain.PasswordReset, error)

	// ConsumePasswordReset conditionally marks the reset with the given
	// code hash consumed at the given instant. The update is keyed on
	// "not yet consumed and not yet expired", so of any number of
	// concurrent callers exactly one succeeds; the rest get ErrNotFound
	// and must re-read to find out why. Inside a transaction this must be
	// the FIRST statement so that racing transactions queue on the write
	// lock here rather than failing a read-to-write upgrade.
	ConsumePasswordReset(ctx context.Context, codeHash string, at time.Time) error

	// DeleteExpiredPasswordResets is housekeeping.
	DeleteExpiredPasswordResets(ctx context.Context) error
}
