package store

import (
	"context"
	"errors"

	"github.com/oakmontlabs/accounts/internal/accounts/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. Sub-repositories are exposed as methods to keep concerns
// tidy and to stop callers from accidentally nesting transactions.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for multi-step operations that must be atomic.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources (optional for sqlite).
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the email is already registered; the
	// email column collates case-insensitively so Alice@ and alice@ collide.
	CreateUser(ctx context.Context, u domain.User) error

	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during authentication. Lookup is
	// case-insensitive.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// UpdateProfile applies a partial profile update and bumps updated_at.
	// Returns the updated user. A patch that renames the email onto an
	// existing account returns ErrAlreadyExists.
	UpdateProfile(ctx context.Context, userID string, patch domain.ProfilePatch) (domain.User, error)

	// DeleteUser removes the user row.
	DeleteUser(ctx context.Context, userID string) error

	// CountUsers returns the number of registered users.
	CountUsers(ctx context.Context) (int64, error)
}
