package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/oakmontlabs/accounts/internal/accounts/service"
	"github.com/oakmontlabs/accounts/internal/accounts/store/drivers/sqlite"
	"github.com/oakmontlabs/accounts/pkg/accountsdk"
	"github.com/oakmontlabs/accounts/pkg/cryptox"
	"github.com/oakmontlabs/accounts/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Set up a temporary pepper file for testing
	tmpDir := os.TempDir()
	pepperPath := filepath.Join(tmpDir, "test-pepper-http")
	cryptox.SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

func newTestRouter(t *testing.T) *Router {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	keyManager, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{
		Issuer:  "test-issuer",
		NumKeys: 1,
	})
	require.NoError(t, err)

	r := NewRouter(
		keyManager.KeySet,
		keyManager.Verifier,
		"test-issuer",
		"test",
		st,
		slog.New(slog.DiscardHandler),
	)
	r.UserService = &service.UserService{Store: st}
	r.AuthService = &service.AuthService{
		KeyManager: keyManager,
		Store:      st,
		Issuer:     "test-issuer",
		AccessTTL:  time.Minute,
	}
	r.ApplyRoutes()
	return r
}

func doJSON(t *testing.T, r *Router, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeUser(t *testing.T, rec *httptest.ResponseRecorder) accountsdk.UserResponse {
	t.Helper()

	var user accountsdk.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	return user
}

func registerUser(t *testing.T, r *Router, first, last, email, password string) accountsdk.UserResponse {
	t.Helper()

	rec := doJSON(t, r, http.MethodPost, "/users", accountsdk.CreateUserRequest{
		FirstName: first,
		LastName:  last,
		Email:     email,
		Password:  password,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	return decodeUser(t, rec)
}

func loginUser(t *testing.T, r *Router, email, password string) accountsdk.AuthenticationResponse {
	t.Helper()

	rec := doJSON(t, r, http.MethodPost, "/authentication", accountsdk.AuthenticationRequest{
		Strategy: "local",
		Email:    email,
		Password: password,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp accountsdk.AuthenticationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestRegisterEndpoint(t *testing.T) {
	r := newTestRouter(t)

	t.Run("returns exactly the public fields", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/users", accountsdk.CreateUserRequest{
			FirstName: "Alice",
			LastName:  "Smith",
			Email:     "alice@example.com",
			Password:  "supersecret",
		}, "")
		require.Equal(t, http.StatusCreated, rec.Code)

		var raw map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
		require.Len(t, raw, 4)
		require.Contains(t, raw, "id")
		require.Equal(t, "Alice", raw["firstName"])
		require.Equal(t, "Smith", raw["lastName"])
		require.Equal(t, "alice@example.com", raw["email"])
		require.NotContains(t, rec.Body.String(), "supersecret")
	})

	t.Run("rejects duplicate email with 400", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/users", accountsdk.CreateUserRequest{
			FirstName: "Other",
			LastName:  "Person",
			Email:     "Alice@Example.com",
			Password:  "different",
		}, "")
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var errResp accountsdk.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
		require.Equal(t, accountsdk.ErrorCodeValidationError, errResp.Error)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString("{not json"))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthenticationEndpoint(t *testing.T) {
	r := newTestRouter(t)
	registered := registerUser(t, r, "Alice", "Smith", "alice@example.com", "supersecret")

	t.Run("issues token and echoes user", func(t *testing.T) {
		resp := loginUser(t, r, "alice@example.com", "supersecret")
		require.NotEmpty(t, resp.AccessToken)
		require.Equal(t, registered.ID, resp.User.ID)
		require.Equal(t, "alice@example.com", resp.User.Email)
	})

	t.Run("wrong password and unknown email look identical", func(t *testing.T) {
		recWrong := doJSON(t, r, http.MethodPost, "/authentication", accountsdk.AuthenticationRequest{
			Strategy: "local", Email: "alice@example.com", Password: "wrong",
		}, "")
		recUnknown := doJSON(t, r, http.MethodPost, "/authentication", accountsdk.AuthenticationRequest{
			Strategy: "local", Email: "nobody@example.com", Password: "supersecret",
		}, "")

		require.Equal(t, http.StatusUnauthorized, recWrong.Code)
		require.Equal(t, http.StatusUnauthorized, recUnknown.Code)
		require.JSONEq(t, recWrong.Body.String(), recUnknown.Body.String())
	})

	t.Run("unknown strategy is a bad request", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/authentication", accountsdk.AuthenticationRequest{
			Strategy: "oauth", Email: "alice@example.com", Password: "supersecret",
		}, "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateUserEndpoint(t *testing.T) {
	r := newTestRouter(t)
	alice := registerUser(t, r, "John", "Smith", "alice@example.com", "supersecret")
	registerUser(t, r, "Bob", "Jones", "bob@example.com", "bobsecret")

	aliceSession := loginUser(t, r, "alice@example.com", "supersecret")
	bobSession := loginUser(t, r, "bob@example.com", "bobsecret")

	patch := accountsdk.UpdateUserRequest{FirstName: strPtr("Mike")}

	t.Run("rejects missing token with 401", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPatch, "/users/"+alice.ID, patch, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects garbage token with 401", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPatch, "/users/"+alice.ID, patch, "not-a-jwt")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects other user's token with 403", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPatch, "/users/"+alice.ID, patch, bobSession.AccessToken)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("owner can patch a single field", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPatch, "/users/"+alice.ID, patch, aliceSession.AccessToken)
		require.Equal(t, http.StatusOK, rec.Code)

		user := decodeUser(t, rec)
		require.Equal(t, "Mike", user.FirstName)
		require.Equal(t, "Smith", user.LastName)
		require.Equal(t, "alice@example.com", user.Email)
	})
}

func TestDeleteUserEndpoint(t *testing.T) {
	r := newTestRouter(t)
	alice := registerUser(t, r, "Alice", "Smith", "alice@example.com", "supersecret")
	registerUser(t, r, "Bob", "Jones", "bob@example.com", "bobsecret")

	aliceSession := loginUser(t, r, "alice@example.com", "supersecret")
	bobSession := loginUser(t, r, "bob@example.com", "bobsecret")

	deletePath := func(id, password string) string {
		return "/users/" + id + "?password=" + url.QueryEscape(password)
	}

	t.Run("rejects missing token with 401", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodDelete, deletePath(alice.ID, "supersecret"), nil, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects other user's token with 403", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodDelete, deletePath(alice.ID, "supersecret"), nil, bobSession.AccessToken)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("rejects wrong password with 403", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodDelete, deletePath(alice.ID, "wrong"), nil, aliceSession.AccessToken)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("owner with correct password gets the final projection", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodDelete, deletePath(alice.ID, "supersecret"), nil, aliceSession.AccessToken)
		require.Equal(t, http.StatusOK, rec.Code)

		user := decodeUser(t, rec)
		require.Equal(t, alice.ID, user.ID)
		require.Equal(t, "alice@example.com", user.Email)
	})

	t.Run("account is gone afterwards", func(t *testing.T) {
		// The bearer token remains valid until expiry, but the record is gone.
		rec := doJSON(t, r, http.MethodGet, "/users/"+alice.ID, nil, aliceSession.AccessToken)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGetUserEndpoint(t *testing.T) {
	r := newTestRouter(t)
	alice := registerUser(t, r, "Alice", "Smith", "alice@example.com", "supersecret")
	registerUser(t, r, "Bob", "Jones", "bob@example.com", "bobsecret")

	aliceSession := loginUser(t, r, "alice@example.com", "supersecret")
	bobSession := loginUser(t, r, "bob@example.com", "bobsecret")

	t.Run("owner can read their account", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/users/"+alice.ID, nil, aliceSession.AccessToken)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, alice.ID, decodeUser(t, rec).ID)
	})

	t.Run("other accounts are forbidden", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/users/"+alice.ID, nil, bobSession.AccessToken)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestSystemEndpoints(t *testing.T) {
	r := newTestRouter(t)

	t.Run("livez", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/livez", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var health accountsdk.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
		require.Equal(t, "ok", health.Status)
	})

	t.Run("readyz reports dependency checks", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/readyz", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var health accountsdk.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
		require.Equal(t, "ok", health.Status)
		require.NotNil(t, health.Checks)
		require.Equal(t, "ok", health.Checks.Database)
		require.Equal(t, "ok", health.Checks.Signer)
	})

	t.Run("jwks serves the public keys", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/.well-known/jwks.json", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var jwks accountsdk.JWKSResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jwks))
		require.Len(t, jwks.Keys, 1)
		require.Equal(t, "OKP", jwks.Keys[0].Kty)
	})
}

func strPtr(s string) *string { return &s }
