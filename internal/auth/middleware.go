package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/form-backend/internal/apperror"
	"github.com/sakif/form-backend/internal/model"
)

// contextKey is an unexported type used for context keys in this package.
// Only this package can create a key of this type, so no other package can
// read or shadow the authenticated user.
type contextKey string

const userKey contextKey = "user"

// realm is sent in the WWW-Authenticate challenge.
const realm = "form-backend"

// Authenticator checks a username/password pair. The service layer
// implements it; a wrong username and a wrong password must produce the
// same error.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
}

// RequireCredentials is a middleware that enforces HTTP Basic credentials on
// protected routes.
//
// Every request carries the username and password; nothing is remembered
// between requests. On success the user record is stored in the request
// context. A missing or rejected pair gets 401 with a Basic challenge, a
// store fault gets 500.
//
// Chi applies middlewares in a chain: req → M1 → M2 → Handler → M2 → M1 → resp
func RequireCredentials(authn Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok {
				challenge(w)
				return
			}

			user, err := authn.Authenticate(r.Context(), username, password)
			if err != nil {
				if errors.Is(err, apperror.ErrUnauthorized) {
					challenge(w)
					return
				}
				logger.Error("credential check failed", slog.String("error", err.Error()))
				http.Error(w, `{"error":"internal_error","message":"An internal error occurred"}`, http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// challenge writes a 401 with the Basic auth challenge header. The body
// never says whether the username or the password was wrong.
func challenge(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="`+realm+`", charset="UTF-8"`)
	http.Error(w, `{"error":"unauthorized","message":"invalid username or password"}`, http.StatusUnauthorized)
}

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext retrieves the authenticated user from the request context.
//
// Returns (nil, false) if the request did not pass RequireCredentials.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}
