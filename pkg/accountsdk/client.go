package accountsdk

import (
	"context"
	"net/http"
	"time"
)

// SDKClient is the entry point for talking to the accounts service. It holds
// the unauthenticated operations; Authenticate upgrades to a Session for the
// owner-only ones.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a client for the accounts service at the given base
// URL (e.g. "http://localhost:8080").
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Register creates a new account. The service responds 201 with the public
// projection of the created account; a duplicate email yields a 400 APIError.
func (c *SDKClient) Register(ctx context.Context, req CreateUserRequest) (UserResponse, error) {
	var user UserResponse
	if err := c.doJSON(ctx, http.MethodPost, "/users", req, "", &user); err != nil {
		return UserResponse{}, err
	}
	return user, nil
}

// Authenticate exchanges an email and password for a bearer token using the
// local strategy. On success it returns a Session bound to this client.
func (c *SDKClient) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	req := AuthenticationRequest{
		Strategy: "local",
		Email:    email,
		Password: password,
	}

	var resp AuthenticationResponse
	if err := c.doJSON(ctx, http.MethodPost, "/authentication", req, "", &resp); err != nil {
		return nil, err
	}

	return &Session{
		client:      c,
		accessToken: resp.AccessToken,
		user:        resp.User,
	}, nil
}

// GetLiveness fetches the liveness probe.
func (c *SDKClient) GetLiveness(ctx context.Context) (HealthResponse, error) {
	var health HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/livez", nil, "", &health); err != nil {
		return HealthResponse{}, err
	}
	return health, nil
}

// GetReadiness fetches the readiness probe, including dependency checks.
func (c *SDKClient) GetReadiness(ctx context.Context) (HealthResponse, error) {
	var health HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/readyz", nil, "", &health); err != nil {
		return HealthResponse{}, err
	}
	return health, nil
}

// GetJWKS fetches the service's public signing keys.
func (c *SDKClient) GetJWKS(ctx context.Context) (JWKSResponse, error) {
	var jwks JWKSResponse
	if err := c.doJSON(ctx, http.MethodGet, "/.well-known/jwks.json", nil, "", &jwks); err != nil {
		return JWKSResponse{}, err
	}
	return jwks, nil
}
