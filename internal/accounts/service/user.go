package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/oakmontlabs/accounts/internal/accounts/domain"
	"github.com/oakmontlabs/accounts/internal/accounts/store"
	"github.com/oakmontlabs/accounts/pkg/cryptox"
	"github.com/oakmontlabs/accounts/pkg/idx"
	"github.com/oakmontlabs/accounts/pkg/slogx"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrEmailTaken       = errors.New("email already in use")
	ErrUserNotFound     = errors.New("user not found")
	ErrNotOwner         = errors.New("not the account owner")
	ErrPasswordMismatch = errors.New("password mismatch")
)

type UserService struct {
	Store store.Store
}

// Register creates a new account with an argon2-hashed password. The email
// must not already belong to an account; uniqueness is case-insensitive and
// enforced by the database, so concurrent registrations cannot both win.
func (s *UserService) Register(
	ctx context.Context,
	firstName, lastName, email, password string,
) (domain.User, error) {
	l := slogx.FromContext(ctx)

	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	email = strings.TrimSpace(email)

	if firstName == "" || lastName == "" || email == "" || password == "" {
		return domain.User{}, ErrInvalidInput
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.User{}, ErrInvalidInput
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           idx.New().String(),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}

	l.Info("user registered", slog.String("user_id", user.ID))
	return s.Store.Users().GetUserByID(ctx, user.ID)
}

// GetUser fetches an account by id. Only the owner may read their record;
// the ownership check runs before the existence check so callers cannot
// probe which IDs exist.
func (s *UserService) GetUser(ctx context.Context, callerID, userID string) (domain.User, error) {
	if callerID != userID {
		return domain.User{}, ErrNotOwner
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// UpdateProfile applies a partial profile update. Only the owner may update
// their record. An empty patch is a no-op that returns the current state.
func (s *UserService) UpdateProfile(
	ctx context.Context,
	callerID, userID string,
	patch domain.ProfilePatch,
) (domain.User, error) {
	l := slogx.FromContext(ctx)

	if callerID != userID {
		return domain.User{}, ErrNotOwner
	}

	if patch.Email != nil {
		trimmed := strings.TrimSpace(*patch.Email)
		if _, err := mail.ParseAddress(trimmed); err != nil {
			return domain.User{}, ErrInvalidInput
		}
		patch.Email = &trimmed
	}
	if patch.FirstName != nil && strings.TrimSpace(*patch.FirstName) == "" {
		return domain.User{}, ErrInvalidInput
	}
	if patch.LastName != nil && strings.TrimSpace(*patch.LastName) == "" {
		return domain.User{}, ErrInvalidInput
	}

	if patch.IsEmpty() {
		return s.GetUser(ctx, callerID, userID)
	}

	user, err := s.Store.Users().UpdateProfile(ctx, userID, patch)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return domain.User{}, ErrUserNotFound
		case errors.Is(err, store.ErrAlreadyExists):
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}

	l.Info("user profile updated", slog.String("user_id", userID))
	return user, nil
}

// Delete removes an account. The owner must re-prove their identity by
// supplying the current password; a bearer token alone is not enough. The
// password check and the delete run in one transaction so a concurrent
// password change cannot race the verification.
func (s *UserService) Delete(
	ctx context.Context,
	callerID, userID, password string,
) (domain.User, error) {
	l := slogx.FromContext(ctx)

	if callerID != userID {
		return domain.User{}, ErrNotOwner
	}

	var removed domain.User

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
			if errors.Is(err, cryptox.ErrPasswordMismatch) {
				return ErrPasswordMismatch
			}
			return err
		}

		if err := tx.Users().DeleteUser(ctx, userID); err != nil {
			return err
		}

		removed = user
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	l.Info("user deleted", slog.String("user_id", userID))
	return removed, nil
}
