package accounts_test

import (
	"net/http"
	"testing"

	"github.com/oakmontlabs/accounts/pkg/accountsdk"
	"github.com/stretchr/testify/require"
)

// TestAccountLifecycle walks an account through its full life: register,
// authenticate, update, and finally delete with password re-auth.
func TestAccountLifecycle(t *testing.T) {
	baseURL, cleanup := setupAccountsContainer(t)
	defer cleanup()

	client := accountsdk.NewSDKClient(baseURL)

	user := registerAccount(t, client, "John", "Smith", "john@example.com", "supersecret")
	require.Equal(t, "John", user.FirstName)
	require.Equal(t, "Smith", user.LastName)
	require.Equal(t, "john@example.com", user.Email)

	session := performLogin(t, client, "john@example.com", "supersecret")
	require.Equal(t, user.ID, session.User().ID)

	// Patch a single field; the rest must be untouched
	first := "Mike"
	updated, err := session.UpdateUser(t.Context(), user.ID, accountsdk.UpdateUserRequest{
		FirstName: &first,
	})
	require.NoError(t, err)
	require.Equal(t, "Mike", updated.FirstName)
	require.Equal(t, "Smith", updated.LastName)
	require.Equal(t, "john@example.com", updated.Email)

	// Delete requires the current password as fresh proof of identity
	removed, err := session.DeleteUser(t.Context(), user.ID, "supersecret")
	require.NoError(t, err)
	require.Equal(t, user.ID, removed.ID)

	// The record is gone afterwards
	_, err = session.GetUser(t.Context(), user.ID)
	assertAPIError(t, err, http.StatusNotFound, "fetch after delete")
}

// TestRegistrationRejectsDuplicateEmail verifies email uniqueness across
// case variations.
func TestRegistrationRejectsDuplicateEmail(t *testing.T) {
	baseURL, cleanup := setupAccountsContainer(t)
	defer cleanup()

	client := accountsdk.NewSDKClient(baseURL)
	registerAccount(t, client, "Alice", "Smith", "alice@example.com", "supersecret")

	_, err := client.Register(t.Context(), accountsdk.CreateUserRequest{
		FirstName: "Other",
		LastName:  "Person",
		Email:     "ALICE@Example.com",
		Password:  "different",
	})
	assertAPIError(t, err, http.StatusBadRequest, "duplicate registration")
}

// TestOwnershipGuards verifies one user cannot touch another user's account.
func TestOwnershipGuards(t *testing.T) {
	baseURL, cleanup := setupAccountsContainer(t)
	defer cleanup()

	client := accountsdk.NewSDKClient(baseURL)

	alice := registerAccount(t, client, "Alice", "Smith", "alice@example.com", "alicesecret")
	registerAccount(t, client, "Bob", "Jones", "bob@example.com", "bobsecret")

	bobSession := performLogin(t, client, "bob@example.com", "bobsecret")

	name := "Hacked"
	_, err := bobSession.UpdateUser(t.Context(), alice.ID, accountsdk.UpdateUserRequest{
		FirstName: &name,
	})
	assertAPIError(t, err, http.StatusForbidden, "cross-account update")

	_, err = bobSession.DeleteUser(t.Context(), alice.ID, "alicesecret")
	assertAPIError(t, err, http.StatusForbidden, "cross-account delete")

	_, err = bobSession.GetUser(t.Context(), alice.ID)
	assertAPIError(t, err, http.StatusForbidden, "cross-account read")
}

// TestDeleteRequiresCorrectPassword verifies that a valid bearer token alone
// is not enough to delete an account.
func TestDeleteRequiresCorrectPassword(t *testing.T) {
	baseURL, cleanup := setupAccountsContainer(t)
	defer cleanup()

	client := accountsdk.NewSDKClient(baseURL)

	alice := registerAccount(t, client, "Alice", "Smith", "alice@example.com", "alicesecret")
	session := performLogin(t, client, "alice@example.com", "alicesecret")

	_, err := session.DeleteUser(t.Context(), alice.ID, "wrong-password")
	assertAPIError(t, err, http.StatusForbidden, "delete with wrong password")

	// Account must still be there
	got, err := session.GetUser(t.Context(), alice.ID)
	require.NoError(t, err)
	require.Equal(t, alice.ID, got.ID)
}
