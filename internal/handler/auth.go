package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/sakif/form-backend/internal/apperror"
	"github.com/sakif/form-backend/internal/auth"
	"github.com/sakif/form-backend/internal/model"
	"github.com/sakif/form-backend/internal/validation"
)

// LoginService checks a login form.
type LoginService interface {
	Login(ctx context.Context, form url.Values) (*model.User, validation.Errors, error)
}

// AuthHandler serves the login check and the "who am I" route.
//
// There are no sessions. A successful login returns the stored record and
// the client keeps sending the same credentials as HTTP Basic auth on the
// protected routes.
type AuthHandler struct {
	logins LoginService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(logins LoginService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{logins: logins, logger: logger}
}

// HandleLogin checks a username/password form.
//
// HTTP: POST /api/login
// Response: 200 with the user, 422 when a field is missing, 401 otherwise.
// The 401 body is the same whether the username or the password was wrong.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	form, err := parseForm(w, r)
	if err != nil {
		writeError(w, apperror.ValidationFailed("body", "could not parse form body"))
		return
	}

	user, errs, err := h.logins.Login(r.Context(), form)
	if err != nil {
		writeError(w, err)
		return
	}
	if !errs.Valid() {
		writeValidation(w, errs)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleMe returns the user whose credentials came with the request.
//
// HTTP: GET /api/me
// Auth: Required (RequireCredentials puts the user in context)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.ErrInvalidCredentials)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}
