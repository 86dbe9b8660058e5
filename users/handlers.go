package users

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/user/accounts-go/apperror"
	"github.com/user/accounts-go/auth"
)

// Handlers exposes the account service over HTTP.
type Handlers struct {
	service  *AccountService
	tokens   *auth.TokenService
	validate *validator.Validate
}

// NewHandlers creates the HTTP handlers for login and account CRUD.
func NewHandlers(service *AccountService, tokens *auth.TokenService) *Handlers {
	return &Handlers{
		service:  service,
		tokens:   tokens,
		validate: validator.New(),
	}
}

// HandleLogin authenticates a form-encoded username/password pair and issues
// a bearer token. The username field carries the account email. Bad
// credentials always yield the same 401.
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid form body", err))
			return
		}
		email := r.PostFormValue("username")
		password := r.PostFormValue("password")
		if email == "" || password == "" {
			auth.WriteError(w, r, apperror.NewBadRequestError("username and password are required", nil))
			return
		}

		user, err := h.service.Authenticate(r.Context(), email, password)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		token, err := h.tokens.Issue(user.Email)
		if err != nil {
			auth.WriteError(w, r, apperror.NewInternalError("failed to issue token", err))
			return
		}

		auth.WriteJSON(w, http.StatusOK, auth.TokenResponse{
			AccessToken: token,
			TokenType:   "bearer",
		})
	}
}

// HandleCreateUser creates a new account from a JSON profile+password body.
func (h *Handlers) HandleCreateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		if err := h.validate.Struct(&req); err != nil {
			auth.WriteError(w, r, apperror.NewValidationError("invalid user payload: "+err.Error(), err))
			return
		}

		user, err := h.service.Create(r.Context(), &req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusCreated, user)
	}
}

// HandleGetUser returns a single account by id.
func (h *Handlers) HandleGetUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, user)
	}
}

// HandleListUsers returns all accounts.
func (h *Handlers) HandleListUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := h.service.List(r.Context())
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, users)
	}
}

// HandleUpdateUser applies a partial update to an account.
func (h *Handlers) HandleUpdateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		if err := h.validate.Struct(&req); err != nil {
			auth.WriteError(w, r, apperror.NewValidationError("invalid user payload: "+err.Error(), err))
			return
		}

		user, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), &req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, user)
	}
}

// HandleDeleteUser removes an account by id.
func (h *Handlers) HandleDeleteUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, MessageResponse{Message: "User deleted successfully"})
	}
}
