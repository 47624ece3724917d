package accounts_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/oakmontlabs/accounts/pkg/accountsdk"
	"github.com/stretchr/testify/require"
)

// TestRateLimitAuthenticationEndpoint verifies that /authentication is rate
// limited. This endpoint has strict limits (5 req/min per IP) to slow down
// credential stuffing.
func TestRateLimitAuthenticationEndpoint(t *testing.T) {
	baseURL, cleanup := setupAccountsContainerWithDefaultRateLimits(t)
	defer cleanup()

	client := accountsdk.NewSDKClient(baseURL)
	ctx := context.Background()

	// Make requests until we hit the rate limit (strict limit is 5 req/min).
	// We make 6 requests rapidly and expect the 6th to be rate limited.
	var lastErr error
	for i := range 6 {
		_, err := client.Authenticate(ctx, "nobody@example.com", "wrongpass")
		require.Error(t, err)
		if i < 5 {
			// First 5 should fail with authentication error (not rate limit)
			assertAPIError(t, err, http.StatusUnauthorized, "request before limit")
		} else {
			lastErr = err
		}
	}

	assertAPIError(t, lastErr, http.StatusTooManyRequests, "request over limit")
	t.Logf("Successfully rate limited after 5 requests to /authentication")
}
