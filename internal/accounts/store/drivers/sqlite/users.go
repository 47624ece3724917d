package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/oakmontlabs/accounts/internal/accounts/domain"
	"github.com/oakmontlabs/accounts/internal/accounts/store"
)

type usersRepo struct {
	q querier
}

const userColumns = `id, first_name, last_name, email, password_hash, created_at, updated_at`

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (id, first_name, last_name, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.FirstName, u.LastName, u.Email, u.PasswordHash, now, now,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = ?`,
		id,
	)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	// email collates NOCASE (per schema) so this lookup is case-insensitive.
	row := r.q.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = ?`,
		email,
	)
	return scanUser(row)
}

func (r *usersRepo) UpdateProfile(
	ctx context.Context,
	userID string,
	patch domain.ProfilePatch,
) (domain.User, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users
		SET first_name = COALESCE(?, first_name),
		    last_name  = COALESCE(?, last_name),
		    email      = COALESCE(?, email),
		    updated_at = ?
		WHERE id = ?`,
		mapOptionalString(patch.FirstName),
		mapOptionalString(patch.LastName),
		mapOptionalString(patch.Email),
		time.Now().UTC(),
		userID,
	)
	if err != nil {
		return domain.User{}, mapConstraint(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return domain.User{}, err
	}
	if affected == 0 {
		return domain.User{}, store.ErrNotFound
	}

	return r.GetUserByID(ctx, userID)
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

func scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}
