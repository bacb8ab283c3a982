package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/sakif/form-backend/internal/apperror"
	"github.com/sakif/form-backend/internal/model"
	"github.com/sakif/form-backend/internal/validation"
)

// Login checks the login form and authenticates the user.
//
// Missing fields come back as validation.Errors. A wrong username or
// password comes back as apperror.ErrInvalidCredentials, never saying which.
func (s *UserService) Login(ctx context.Context, form url.Values) (*model.User, validation.Errors, error) {
	if errs := validation.ValidateLogin(form); !errs.Valid() {
		return nil, errs, nil
	}

	user, err := s.Authenticate(ctx, form.Get(validation.FieldUsername), form.Get(validation.FieldPassword))
	if err != nil {
		return nil, nil, err
	}
	return user, nil, nil
}

// Authenticate verifies a username/password pair.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, apperror.ErrUnauthorized) {
			s.logger.Info("login rejected", slog.String("username", username))
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("service/auth: authenticating: %w", err)
	}

	s.logger.Debug("user authenticated", slog.Int64("userID", user.ID))
	return user, nil
}
