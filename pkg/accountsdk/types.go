package accountsdk

import "github.com/oakmontlabs/accounts/pkg/jwtx"

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// UserResponse is the public projection of an account. These four keys are
// the only account fields any response body ever contains; in particular the
// password (hash) is never serialized.
type UserResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// AuthenticationRequest is the body of POST /authentication. Strategy must
// be "local"; it names the credential scheme, mirroring the registration
// payload's email/password pair.
type AuthenticationRequest struct {
	Strategy string `json:"strategy"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthenticationResponse is returned with 201 on successful authentication.
type AuthenticationResponse struct {
	AccessToken string       `json:"accessToken"`
	User        UserResponse `json:"user"`
}

// UpdateUserRequest is the partial body of PATCH /users/{id}. Nil fields are
// left unchanged. Only the three profile fields are mutable.
type UpdateUserRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Email     *string `json:"email,omitempty"`
}

// ErrorResponse is the error body shape, used for parsing HTTP error
// responses. Server code should use APIError from errors.go instead.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// HealthChecks reports per-dependency health on the readiness probe.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// HealthResponse is returned by the /livez and /readyz endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// JWKSResponse is the JSON Web Key Set served at /.well-known/jwks.json.
type JWKSResponse jwtx.JWKS
