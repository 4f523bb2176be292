package http

import (
	"net/http"

	"github.com/aussiebroadwan/idgate/internal/auth/domain"
	"github.com/aussiebroadwan/idgate/internal/auth/service"
	"github.com/aussiebroadwan/idgate/pkg/authsdk"
)

// UsersHandler serves account management behind the authorization gate.
type UsersHandler struct {
	AccountService *service.AccountService
}

// HandleList godoc
//
//	@Summary		List accounts
//	@Description	Returns every account that has not been deleted.
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	authsdk.Envelope{data=[]authsdk.Account}	"Accounts"
//	@Failure		401	{object}	authsdk.Envelope							"Missing or invalid token"
//	@Router			/api/v1/users [get]
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.AccountService.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]authsdk.Account, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccount(a))
	}
	writeOK(w, http.StatusOK, "Users retrieved successfully", out)
}

// HandleProfile godoc
//
//	@Summary		Current account
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	authsdk.Envelope{data=authsdk.Account}	"Caller's account"
//	@Failure		401	{object}	authsdk.Envelope						"Missing or invalid token"
//	@Router			/api/v1/users/profile [get]
func (h *UsersHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	a, err := h.AccountService.Profile(r.Context(), actorFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "User profile retrieved successfully", toAccount(a))
}

// HandleGet godoc
//
//	@Summary		Get an account
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string									true	"Account ID"
//	@Success		200	{object}	authsdk.Envelope{data=authsdk.Account}	"Account"
//	@Failure		404	{object}	authsdk.Envelope						"Account not found"
//	@Router			/api/v1/users/{id} [get]
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	a, err := h.AccountService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "User retrieved successfully", toAccount(a))
}

// HandleUpdate godoc
//
//	@Summary		Update an account
//	@Description	Edits profile fields. Callers may edit their own account; admins may edit any.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string									true	"Account ID"
//	@Param			request	body		authsdk.UpdateAccountRequest			true	"Fields to change"
//	@Success		200		{object}	authsdk.Envelope{data=authsdk.Account}	"Updated account"
//	@Failure		400		{object}	authsdk.Envelope						"Validation failed"
//	@Failure		403		{object}	authsdk.Envelope						"Not your account"
//	@Failure		404		{object}	authsdk.Envelope						"Account not found"
//	@Router			/api/v1/users/{id} [patch]
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req authsdk.UpdateAccountRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	a, err := h.AccountService.Update(r.Context(), actorFrom(r.Context()), r.PathValue("id"), domain.ProfileUpdate{
		Name:            req.Name,
		Contact:         req.Contact,
		ProfileImageURL: req.ProfileImage,
		Address:         req.Address,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "User updated successfully", toAccount(a))
}

// HandleDelete godoc
//
//	@Summary		Delete an account
//	@Description	Soft-deletes the account. Callers may delete their own account; admins may delete any.
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string									true	"Account ID"
//	@Success		200	{object}	authsdk.Envelope{data=authsdk.Account}	"Deleted account"
//	@Failure		403	{object}	authsdk.Envelope						"Not your account"
//	@Failure		404	{object}	authsdk.Envelope						"Account not found"
//	@Router			/api/v1/users/{id} [delete]
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	a, err := h.AccountService.Delete(r.Context(), actorFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "User deleted successfully", toAccount(a))
}

// HandleBan godoc
//
//	@Summary		Ban an account
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string									true	"Account ID"
//	@Success		200	{object}	authsdk.Envelope{data=authsdk.Account}	"Banned account"
//	@Failure		401	{object}	authsdk.Envelope						"Admin role required"
//	@Failure		404	{object}	authsdk.Envelope						"Account not found"
//	@Router			/api/v1/users/{id}/ban [post]
func (h *UsersHandler) HandleBan(w http.ResponseWriter, r *http.Request) {
	h.setBanned(w, r, true, "User banned successfully")
}

// HandleUnban godoc
//
//	@Summary		Lift a ban
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string									true	"Account ID"
//	@Success		200	{object}	authsdk.Envelope{data=authsdk.Account}	"Account"
//	@Failure		401	{object}	authsdk.Envelope						"Admin role required"
//	@Failure		404	{object}	authsdk.Envelope						"Account not found"
//	@Router			/api/v1/users/{id}/unban [post]
func (h *UsersHandler) HandleUnban(w http.ResponseWriter, r *http.Request) {
	h.setBanned(w, r, false, "User unbanned successfully")
}

func (h *UsersHandler) setBanned(w http.ResponseWriter, r *http.Request, banned bool, msg string) {
	a, err := h.AccountService.SetBanned(r.Context(), actorFrom(r.Context()), r.PathValue("id"), banned)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, msg, toAccount(a))
}
