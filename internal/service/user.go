// Package service holds the business logic between HTTP handlers and the
// repository:
//
//	handler (HTTP) → UserService (rules) → repository.UserRepository (DB)
//	                ↘ validation.Validator
//
// The service never sees HTTP types. Form submissions arrive as url.Values
// and validation failures come back as validation.Errors alongside a nil error.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/sakif/form-backend/internal/auth"
	"github.com/sakif/form-backend/internal/model"
	"github.com/sakif/form-backend/internal/repository"
	"github.com/sakif/form-backend/internal/validation"
)

// PasswordHasher produces the stored form of a password.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}

// UserService runs registration, login and profile edits.
type UserService struct {
	users     repository.UserRepository
	validator *validation.Validator
	passwords PasswordHasher
	logger    *slog.Logger
}

// NewUserService wires a UserService. validator must have been built from
// the same language list the store holds.
func NewUserService(
	users repository.UserRepository,
	validator *validation.Validator,
	passwords PasswordHasher,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:     users,
		validator: validator,
		passwords: passwords,
		logger:    logger,
	}
}

// RegisterResult carries the new record and the credentials issued for it.
// Password is the only time the plaintext is available.
type RegisterResult struct {
	User     *model.User
	Username string
	Password string
}

// Register validates a registration form, issues a generated username and
// password, and stores the user.
//
// A non-empty Errors means nothing was written; the error return is reserved
// for store and hashing faults.
func (s *UserService) Register(ctx context.Context, form url.Values) (*RegisterResult, validation.Errors, error) {
	if errs := s.validator.ValidateForm(form); !errs.Valid() {
		return nil, errs, nil
	}

	user, err := userFromForm(form)
	if err != nil {
		return nil, nil, fmt.Errorf("service/user: %w", err)
	}

	password, err := auth.NewPassword(auth.GeneratedPasswordLength)
	if err != nil {
		return nil, nil, fmt.Errorf("service/user: %w", err)
	}
	user.Username = auth.NewUsername()
	user.PasswordHash, err = s.passwords.Hash(password)
	if err != nil {
		return nil, nil, fmt.Errorf("service/user: hashing password: %w", err)
	}

	id, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("service/user: creating user: %w", err)
	}
	user.ID = id
	user.PasswordHash = ""

	s.logger.Info("user registered",
		slog.Int64("userID", id),
		slog.String("username", user.Username),
		slog.Int("languages", len(user.Languages)),
	)

	return &RegisterResult{
		User:     user,
		Username: user.Username,
		Password: password,
	}, nil, nil
}

// Profile returns the stored record for id.
func (s *UserService) Profile(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/user: fetching user %d: %w", id, err)
	}
	return user, nil
}

// UpdateProfile validates an edit form and replaces the user's fields and
// language set. The same rules as registration apply.
func (s *UserService) UpdateProfile(ctx context.Context, id int64, form url.Values) (validation.Errors, error) {
	if errs := s.validator.ValidateForm(form); !errs.Valid() {
		return errs, nil
	}

	user, err := userFromForm(form)
	if err != nil {
		return nil, fmt.Errorf("service/user: %w", err)
	}

	if err := s.users.Update(ctx, id, user); err != nil {
		return nil, fmt.Errorf("service/user: updating user %d: %w", id, err)
	}

	s.logger.Info("user profile updated", slog.Int64("userID", id))
	return nil, nil
}

// Languages returns the accepted language names.
func (s *UserService) Languages() []string {
	return s.validator.Languages()
}

// userFromForm maps a validated registration form onto a User.
//
// The full name is entered as "Last First [Middle...]"; any tokens past the
// second become the middle name.
func userFromForm(form url.Values) (*model.User, error) {
	last, firstName, middle := SplitFullName(form.Get(validation.FieldFullName))

	birthdate, err := time.Parse(model.DateLayout, form.Get(validation.FieldBirthdate))
	if err != nil {
		return nil, fmt.Errorf("parsing birthdate: %w", err)
	}

	return &model.User{
		FirstName:  firstName,
		LastName:   last,
		MiddleName: middle,
		Phone:      form.Get(validation.FieldPhone),
		Email:      form.Get(validation.FieldEmail),
		Birthdate:  birthdate,
		Gender:     model.Gender(form.Get(validation.FieldGender)),
		Biography:  strings.TrimSpace(form.Get(validation.FieldBio)),
		Languages:  append([]string(nil), form[validation.FieldLanguage]...),
	}, nil
}

// SplitFullName splits "Last First Middle" into its parts. Missing parts
// come back empty.
func SplitFullName(fullName string) (last, first, middle string) {
	parts := strings.Fields(fullName)
	switch len(parts) {
	case 0:
		return "", "", ""
	case 1:
		return parts[0], "", ""
	case 2:
		return parts[0], parts[1], ""
	default:
		return parts[0], parts[1], strings.Join(parts[2:], " ")
	}
}
