package accountsdk

import (
	"context"
	"net/http"
	"net/url"
)

// Session represents an authenticated session with the accounts service. It
// holds the bearer token issued at authentication and the user it belongs
// to, and exposes the operations that require ownership of the account.
type Session struct {
	client      *SDKClient
	accessToken string
	user        UserResponse
}

// AccessToken returns the bearer token issued for this session.
func (s *Session) AccessToken() string {
	return s.accessToken
}

// User returns the account this session was authenticated as, as captured at
// authentication time. It does not reflect later profile updates; use
// GetUser for a fresh copy.
func (s *Session) User() UserResponse {
	return s.user
}

// GetUser fetches an account by ID. The service only permits fetching your
// own account; other IDs come back as a 403 APIError.
func (s *Session) GetUser(ctx context.Context, id string) (UserResponse, error) {
	var user UserResponse
	err := s.client.doJSON(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, s.accessToken, &user)
	if err != nil {
		return UserResponse{}, err
	}
	return user, nil
}

// UpdateUser applies a partial profile update to an account. Nil fields in
// req are left unchanged. Updating an account you do not own yields a 403
// APIError.
func (s *Session) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error) {
	var user UserResponse
	err := s.client.doJSON(ctx, http.MethodPatch, "/users/"+url.PathEscape(id), req, s.accessToken, &user)
	if err != nil {
		return UserResponse{}, err
	}
	return user, nil
}

// DeleteUser removes an account. The current password must be supplied as
// fresh proof of identity; a wrong password or an account you do not own
// yields a 403 APIError. Returns the final projection of the removed
// account.
func (s *Session) DeleteUser(ctx context.Context, id, password string) (UserResponse, error) {
	path := "/users/" + url.PathEscape(id) + "?password=" + url.QueryEscape(password)

	var user UserResponse
	err := s.client.doJSON(ctx, http.MethodDelete, path, nil, s.accessToken, &user)
	if err != nil {
		return UserResponse{}, err
	}
	return user, nil
}
