package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/oakmontlabs/accounts/internal/accounts/domain"
	"github.com/oakmontlabs/accounts/internal/accounts/store"
	"github.com/oakmontlabs/accounts/internal/accounts/store/drivers/sqlite"
	"github.com/oakmontlabs/accounts/pkg/cryptox"
	"github.com/oakmontlabs/accounts/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Set up a temporary pepper file for testing
	tmpDir := os.TempDir()
	pepperPath := filepath.Join(tmpDir, "test-pepper-service")
	cryptox.SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func mustRegister(t *testing.T, svc *UserService, email, password string) domain.User {
	t.Helper()

	user, err := svc.Register(context.Background(), "Alice", "Smith", email, password)
	require.NoError(t, err)
	return user
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc := &UserService{Store: newTestStore(t)}

	t.Run("creates a user with hashed password", func(t *testing.T) {
		user, err := svc.Register(ctx, "Alice", "Smith", "alice@example.com", "supersecret")
		require.NoError(t, err)

		_, err = idx.Parse(user.ID)
		require.NoError(t, err)

		require.Equal(t, "Alice", user.FirstName)
		require.Equal(t, "Smith", user.LastName)
		require.Equal(t, "alice@example.com", user.Email)
		require.NotEqual(t, "supersecret", user.PasswordHash)
		require.NoError(t, cryptox.VerifyPassword("supersecret", user.PasswordHash))
		require.False(t, user.CreatedAt.IsZero())
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, "Other", "Person", "alice@example.com", "different")
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("duplicate check is case-insensitive", func(t *testing.T) {
		_, err := svc.Register(ctx, "Other", "Person", "ALICE@Example.COM", "different")
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		_, err := svc.Register(ctx, "", "Smith", "bob@example.com", "pw")
		require.ErrorIs(t, err, ErrInvalidInput)

		_, err = svc.Register(ctx, "Bob", "Smith", "bob@example.com", "")
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		_, err := svc.Register(ctx, "Bob", "Smith", "not-an-email", "pw")
		require.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()
	svc := &UserService{Store: newTestStore(t)}
	user := mustRegister(t, svc, "alice@example.com", "supersecret")

	t.Run("owner can read their record", func(t *testing.T) {
		got, err := svc.GetUser(ctx, user.ID, user.ID)
		require.NoError(t, err)
		require.Equal(t, user.ID, got.ID)
		require.Equal(t, user.Email, got.Email)
	})

	t.Run("other callers are rejected", func(t *testing.T) {
		_, err := svc.GetUser(ctx, idx.New().String(), user.ID)
		require.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("ownership check wins over existence", func(t *testing.T) {
		missing := idx.New().String()
		_, err := svc.GetUser(ctx, user.ID, missing)
		require.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("missing record", func(t *testing.T) {
		missing := idx.New().String()
		_, err := svc.GetUser(ctx, missing, missing)
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc := &UserService{Store: newTestStore(t)}
	user := mustRegister(t, svc, "alice@example.com", "supersecret")

	t.Run("partial update leaves other fields untouched", func(t *testing.T) {
		name := "Mike"
		got, err := svc.UpdateProfile(ctx, user.ID, user.ID, domain.ProfilePatch{FirstName: &name})
		require.NoError(t, err)
		require.Equal(t, "Mike", got.FirstName)
		require.Equal(t, "Smith", got.LastName)
		require.Equal(t, "alice@example.com", got.Email)
	})

	t.Run("empty patch is a no-op", func(t *testing.T) {
		got, err := svc.UpdateProfile(ctx, user.ID, user.ID, domain.ProfilePatch{})
		require.NoError(t, err)
		require.Equal(t, "Mike", got.FirstName)
	})

	t.Run("other callers are rejected", func(t *testing.T) {
		name := "Eve"
		_, err := svc.UpdateProfile(ctx, idx.New().String(), user.ID, domain.ProfilePatch{FirstName: &name})
		require.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("cannot rename email onto another account", func(t *testing.T) {
		other, err := svc.Register(ctx, "Bob", "Jones", "bob@example.com", "otherpw")
		require.NoError(t, err)

		email := "Alice@Example.com"
		_, err = svc.UpdateProfile(ctx, other.ID, other.ID, domain.ProfilePatch{Email: &email})
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("rejects blank names and bad emails", func(t *testing.T) {
		blank := "  "
		_, err := svc.UpdateProfile(ctx, user.ID, user.ID, domain.ProfilePatch{FirstName: &blank})
		require.ErrorIs(t, err, ErrInvalidInput)

		bad := "nope"
		_, err = svc.UpdateProfile(ctx, user.ID, user.ID, domain.ProfilePatch{Email: &bad})
		require.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc := &UserService{Store: newTestStore(t)}
	user := mustRegister(t, svc, "alice@example.com", "supersecret")

	t.Run("other callers are rejected", func(t *testing.T) {
		_, err := svc.Delete(ctx, idx.New().String(), user.ID, "supersecret")
		require.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("wrong password is rejected and nothing is deleted", func(t *testing.T) {
		_, err := svc.Delete(ctx, user.ID, user.ID, "wrong")
		require.ErrorIs(t, err, ErrPasswordMismatch)

		got, err := svc.GetUser(ctx, user.ID, user.ID)
		require.NoError(t, err)
		require.Equal(t, user.ID, got.ID)
	})

	t.Run("correct password removes the account", func(t *testing.T) {
		removed, err := svc.Delete(ctx, user.ID, user.ID, "supersecret")
		require.NoError(t, err)
		require.Equal(t, user.ID, removed.ID)
		require.Equal(t, "alice@example.com", removed.Email)

		_, err = svc.GetUser(ctx, user.ID, user.ID)
		require.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("freed email can be registered again", func(t *testing.T) {
		fresh := mustRegister(t, svc, "alice@example.com", "newsecret")
		require.NotEqual(t, user.ID, fresh.ID)
	})
}
