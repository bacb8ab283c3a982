// Package handler contains the HTTP handlers for the form backend.
//
// HANDLER RESPONSIBILITIES:
// Handlers are thin. They parse the request, call one service method and
// translate the result into JSON. Business rules live in internal/service.
//
// Form submissions arrive as application/x-www-form-urlencoded (or
// multipart/form-data) bodies; repeated "language" keys carry the
// multi-select.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/form-backend/internal/apperror"
	"github.com/sakif/form-backend/internal/auth"
	"github.com/sakif/form-backend/internal/model"
	"github.com/sakif/form-backend/internal/service"
	"github.com/sakif/form-backend/internal/validation"
)

// maxFormBytes caps the size of a form body.
const maxFormBytes = 1 << 20

// UserService is the subset of service.UserService the user handler needs.
type UserService interface {
	Register(ctx context.Context, form url.Values) (*service.RegisterResult, validation.Errors, error)
	Profile(ctx context.Context, id int64) (*model.User, error)
	UpdateProfile(ctx context.Context, id int64, form url.Values) (validation.Errors, error)
	Languages() []string
}

// UserHandler serves registration and profile routes.
type UserHandler struct {
	users  UserService
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// HandleRegister stores a new user from a registration form.
//
// HTTP: POST /api/users
// Response: 201 with the generated credentials, 422 with per-field errors.
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	form, err := parseForm(w, r)
	if err != nil {
		writeError(w, apperror.ValidationFailed("body", "could not parse form body"))
		return
	}

	res, errs, err := h.users.Register(r.Context(), form)
	if err != nil {
		h.logger.Error("register failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	if !errs.Valid() {
		writeValidation(w, errs)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{
		ID:       res.User.ID,
		Username: res.Username,
		Password: res.Password,
		User:     toUserResponse(res.User),
	})
}

// HandleGetProfile returns a user's stored record.
//
// HTTP: GET /api/users/{id}
// Auth: Required; only the owner may read it.
func (h *UserHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := ownedUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Profile(r.Context(), id)
	if err != nil {
		h.logger.Error("profile lookup failed", slog.Int64("userID", id), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleUpdateProfile replaces a user's fields and language set.
//
// HTTP: PUT /api/users/{id}
// Auth: Required; only the owner may edit it.
// Response: 200 with the stored record, 422 with per-field errors.
func (h *UserHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := ownedUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	form, err := parseForm(w, r)
	if err != nil {
		writeError(w, apperror.ValidationFailed("body", "could not parse form body"))
		return
	}

	errs, err := h.users.UpdateProfile(r.Context(), id, form)
	if err != nil {
		h.logger.Error("profile update failed", slog.Int64("userID", id), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	if !errs.Valid() {
		writeValidation(w, errs)
		return
	}

	user, err := h.users.Profile(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleLanguages lists the accepted programming language names.
//
// HTTP: GET /api/languages
func (h *UserHandler) HandleLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"languages": h.users.Languages()})
}

// ownedUserID parses the {id} URL parameter and checks it against the
// authenticated user.
func ownedUserID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.ValidationFailed("id", "id must be a positive integer")
	}

	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		return 0, apperror.ErrInvalidCredentials
	}
	if user.ID != id {
		return 0, apperror.Forbidden("you can only access your own profile")
	}
	return id, nil
}

// parseForm reads a form body. Query parameters are ignored.
func parseForm(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxFormBytes); err != nil {
			return nil, err
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return r.PostForm, nil
}
