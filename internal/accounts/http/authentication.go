package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/oakmontlabs/accounts/internal/accounts/service"
	"github.com/oakmontlabs/accounts/pkg/accountsdk"
	"github.com/oakmontlabs/accounts/pkg/httpx"
	"github.com/oakmontlabs/accounts/pkg/slogx"
)

type AuthenticationHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Authentication Endpoint
//	@Description	Exchange an email/password pair for a JWT access token using the "local"
//	@Description	strategy. Unknown email and wrong password produce identical 401 responses.
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			body	body		accountsdk.AuthenticationRequest	true	"strategy (must be \"local\"), email, password"
//	@Success		201		{object}	accountsdk.AuthenticationResponse	"accessToken, user"
//	@Failure		400		{object}	accountsdk.ErrorResponse			"error, error_description"
//	@Failure		401		{object}	accountsdk.ErrorResponse			"error, error_description"
//	@Failure		500		{object}	accountsdk.ErrorResponse			"error, error_description"
//	@Router			/authentication [post].
func (h *AuthenticationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accountsdk.AuthenticationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		accountsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	token, user, err := h.AuthService.Authenticate(ctx, req.Strategy, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedStrategy):
			accountsdk.ErrInvalidRequest.WriteError(w)
		case errors.Is(err, service.ErrInvalidCredentials):
			accountsdk.ErrInvalidCredentials.WriteError(w)
		default:
			log.Error("authentication failed", "err", err)
			accountsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, accountsdk.AuthenticationResponse{
		AccessToken: token,
		User:        toUserResponse(user),
	})
}
