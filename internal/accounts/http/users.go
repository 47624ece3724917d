package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/oakmontlabs/accounts/internal/accounts/domain"
	"github.com/oakmontlabs/accounts/internal/accounts/service"
	"github.com/oakmontlabs/accounts/pkg/accountsdk"
	"github.com/oakmontlabs/accounts/pkg/httpx"
	"github.com/oakmontlabs/accounts/pkg/slogx"
)

type UsersHandler struct {
	UserService *service.UserService
}

// HandleCreate godoc
//
//	@Summary		Register Endpoint
//	@Description	Create a new user account. The password is hashed before storage and never
//	@Description	appears in any response. Email must not belong to an existing account.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			body	body		accountsdk.CreateUserRequest	true	"firstName, lastName, email, password"
//	@Success		201		{object}	accountsdk.UserResponse			"id, firstName, lastName, email"
//	@Failure		400		{object}	accountsdk.ErrorResponse		"error, error_description"
//	@Failure		500		{object}	accountsdk.ErrorResponse		"error, error_description"
//	@Router			/users [post].
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accountsdk.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		accountsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.UserService.Register(ctx, req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			accountsdk.ErrInvalidRequest.WriteError(w)
		case errors.Is(err, service.ErrEmailTaken):
			accountsdk.ErrEmailTaken.WriteError(w)
		default:
			log.Error("failed to register user", "err", err)
			accountsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}

// HandleGet godoc
//
//	@Summary		Get User Endpoint
//	@Description	Fetch an account by ID. Callers may only read their own account; any other
//	@Description	ID yields 403 regardless of whether it exists.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string						true	"User ID"
//	@Success		200	{object}	accountsdk.UserResponse		"id, firstName, lastName, email"
//	@Failure		401	{object}	accountsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		403	{object}	accountsdk.ErrorResponse	"Not the account owner"
//	@Failure		404	{object}	accountsdk.ErrorResponse	"Account no longer exists"
//	@Router			/users/{id} [get].
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	callerID := httpx.UserIDFromContext(ctx)
	if callerID == "" {
		accountsdk.ErrInvalidToken.WriteError(w)
		return
	}

	user, err := h.UserService.GetUser(ctx, callerID, r.PathValue("id"))
	if err != nil {
		writeUserServiceError(w, log, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleUpdate godoc
//
//	@Summary		Update User Endpoint
//	@Description	Apply a partial profile update to an account. Omitted fields are left
//	@Description	unchanged. Callers may only update their own account.
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"User ID"
//	@Param			body	body		accountsdk.UpdateUserRequest	true	"firstName, lastName, email (all optional)"
//	@Success		200		{object}	accountsdk.UserResponse		"id, firstName, lastName, email"
//	@Failure		400		{object}	accountsdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	accountsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		403		{object}	accountsdk.ErrorResponse	"Not the account owner"
//	@Router			/users/{id} [patch].
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	callerID := httpx.UserIDFromContext(ctx)
	if callerID == "" {
		accountsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req accountsdk.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		accountsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	patch := domain.ProfilePatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}

	user, err := h.UserService.UpdateProfile(ctx, callerID, r.PathValue("id"), patch)
	if err != nil {
		writeUserServiceError(w, log, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleDelete godoc
//
//	@Summary		Delete User Endpoint
//	@Description	Remove an account. The current password must be supplied as fresh proof of
//	@Description	identity; a valid bearer token alone is not sufficient. Returns the final
//	@Description	projection of the removed account.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id			path		string						true	"User ID"
//	@Param			password	query		string						true	"Current account password"
//	@Success		200			{object}	accountsdk.UserResponse		"id, firstName, lastName, email"
//	@Failure		401			{object}	accountsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		403			{object}	accountsdk.ErrorResponse	"Not the owner, or wrong password"
//	@Router			/users/{id} [delete].
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	callerID := httpx.UserIDFromContext(ctx)
	if callerID == "" {
		accountsdk.ErrInvalidToken.WriteError(w)
		return
	}

	password := r.URL.Query().Get("password")

	user, err := h.UserService.Delete(ctx, callerID, r.PathValue("id"), password)
	if err != nil {
		writeUserServiceError(w, log, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// writeUserServiceError maps UserService errors onto wire errors. A wrong
// re-auth password maps to 403, same as not owning the account.
func writeUserServiceError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		accountsdk.ErrInvalidRequest.WriteError(w)
	case errors.Is(err, service.ErrEmailTaken):
		accountsdk.ErrEmailTaken.WriteError(w)
	case errors.Is(err, service.ErrNotOwner), errors.Is(err, service.ErrPasswordMismatch):
		accountsdk.ErrForbidden.WriteError(w)
	case errors.Is(err, service.ErrUserNotFound):
		accountsdk.ErrNotFound.WriteError(w)
	default:
		log.Error("user operation failed", "err", err)
		accountsdk.ErrServerError.WriteError(w)
	}
}

func toUserResponse(u domain.User) accountsdk.UserResponse {
	return accountsdk.UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}
