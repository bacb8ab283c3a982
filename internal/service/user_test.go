package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/form-backend/internal/apperror"
	"github.com/sakif/form-backend/internal/auth"
	"github.com/sakif/form-backend/internal/model"
	"github.com/sakif/form-backend/internal/validation"
)

// =========================================================================
// REGISTER TESTS
// =========================================================================

func TestRegister_StoresMappedUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(t, repo)

	res, errs, err := svc.Register(context.Background(), registrationForm())
	require.NoError(t, err)
	require.Empty(t, errs)

	stored := repo.users[res.User.ID]
	assert.Equal(t, "Anna", stored.FirstName)
	assert.Equal(t, "Petrova", stored.LastName)
	assert.Equal(t, "Sergeevna", stored.MiddleName)
	assert.Equal(t, "+7 900 555-1234", stored.Phone)
	assert.Equal(t, "anna@example.com", stored.Email)
	assert.Equal(t, "1995-03-08", stored.BirthdateString())
	assert.Equal(t, model.GenderFemale, stored.Gender)
	assert.Equal(t, "Backend developer from Kazan.", stored.Biography)
	assert.Equal(t, []string{"Go", "Python"}, stored.Languages)
}

func TestRegister_IssuesCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(t, repo)

	res := registerTestUser(t, svc)

	assert.True(t, strings.HasPrefix(res.Username, "user_"))
	assert.Len(t, res.Password, auth.GeneratedPasswordLength)

	stored := repo.users[res.User.ID]
	assert.Equal(t, res.Username, stored.Username)
	assert.Equal(t, auth.Digest(res.Password), stored.PasswordHash, "only the digest is stored")
	assert.Empty(t, res.User.PasswordHash, "result must not carry the hash")
}

func TestRegister_InvalidFormWritesNothing(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(t, repo)

	form := registrationForm()
	form.Set(validation.FieldFullName, "Anna")
	form.Del(validation.FieldContract)

	res, errs, err := svc.Register(context.Background(), form)

	assert.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, []string{validation.FieldContract, validation.FieldFullName}, errs.Fields())
	assert.Empty(t, repo.users)
}

func TestRegister_StoreFaultPropagates(t *testing.T) {
	repo := newFakeUserRepo()
	repo.createErr = errors.New("disk I/O error")
	svc := newTestUserService(t, repo)

	res, errs, err := svc.Register(context.Background(), registrationForm())

	require.Error(t, err)
	assert.Nil(t, res)
	assert.Nil(t, errs)
	assert.Contains(t, err.Error(), "disk I/O error")
}

// =========================================================================
// PROFILE TESTS
// =========================================================================

func TestProfile_NotFound(t *testing.T) {
	svc := newTestUserService(t, newFakeUserRepo())

	_, err := svc.Profile(context.Background(), 77)

	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdateProfile_ReplacesFieldsAndLanguages(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(t, repo)
	reg := registerTestUser(t, svc)

	form := registrationForm()
	form.Set(validation.FieldFullName, "Sidorova Anna")
	form[validation.FieldLanguage] = []string{"Haskel"}

	errs, err := svc.UpdateProfile(context.Background(), reg.User.ID, form)
	require.NoError(t, err)
	require.Empty(t, errs)

	got, err := svc.Profile(context.Background(), reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sidorova", got.LastName)
	assert.Equal(t, "", got.MiddleName)
	assert.Equal(t, []string{"Haskel"}, got.Languages)
	assert.Equal(t, reg.Username, got.Username)
}

func TestUpdateProfile_InvalidFormSkipsStore(t *testing.T) {
	repo := newFakeUserRepo()
	repo.updateErr = errors.New("must not be called")
	svc := newTestUserService(t, repo)

	form := registrationForm()
	form.Set(validation.FieldBirthdate, "2999-01-01")

	errs, err := svc.UpdateProfile(context.Background(), 1, form)

	assert.NoError(t, err)
	assert.Equal(t, validation.Errors{validation.FieldBirthdate: validation.MsgBirthdateFuture}, errs)
}

func TestUpdateProfile_UnknownUser(t *testing.T) {
	svc := newTestUserService(t, newFakeUserRepo())

	_, err := svc.UpdateProfile(context.Background(), 9, registrationForm())

	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

// =========================================================================
// HELPERS
// =========================================================================

func TestSplitFullName(t *testing.T) {
	tests := []struct {
		in                  string
		last, first, middle string
	}{
		{"", "", "", ""},
		{"Ivanov", "Ivanov", "", ""},
		{"Ivanov Ivan", "Ivanov", "Ivan", ""},
		{"  Ivanov   Ivan  Ivanovich ", "Ivanov", "Ivan", "Ivanovich"},
		{"Garcia Maria Luisa Fernanda", "Garcia", "Maria", "Luisa Fernanda"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			last, first, middle := SplitFullName(tt.in)
			assert.Equal(t, tt.last, last)
			assert.Equal(t, tt.first, first)
			assert.Equal(t, tt.middle, middle)
		})
	}
}

func TestLanguages_ComesFromValidator(t *testing.T) {
	svc := newTestUserService(t, newFakeUserRepo())

	got := svc.Languages()

	assert.Len(t, got, len(validation.DefaultLanguages))
	assert.Contains(t, got, "C++")
}

// Repeated form keys keep their submitted order.
func TestRegister_KeepsLanguageOrder(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(t, repo)

	form := registrationForm()
	form[validation.FieldLanguage] = []string{"Scala", "C", "Java"}
	res, _, err := svc.Register(context.Background(), form)
	require.NoError(t, err)

	assert.Equal(t, []string{"Scala", "C", "Java"}, repo.users[res.User.ID].Languages)
}
