// Package repository declares the storage contracts the service layer
// depends on. Implementations live in subpackages (see repository/sqlite).
package repository

import (
	"context"

	"github.com/sakif/form-backend/internal/model"
)

// UserRepository persists registration records and their language sets.
//
// Expected outcomes are reported through apperror sentinels:
//   - GetByID and Update return apperror.ErrNotFound for an unknown id
//   - Authenticate returns apperror.ErrInvalidCredentials for any mismatch
//
// Every other error is a store fault; any open transaction has already been
// rolled back when it reaches the caller.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
	Update(ctx context.Context, id int64, user *model.User) error
}

// LanguageRepository reads the ProgrammingLanguages reference table.
type LanguageRepository interface {
	List(ctx context.Context) ([]model.Language, error)
}
