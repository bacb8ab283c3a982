package validation

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fixedNow pins "today" to 2024-06-15 so birthdate cases never drift.
var fixedNow = time.Date(2024, time.June, 15, 13, 30, 0, 0, time.UTC)

func newTestValidator() *Validator {
	return NewValidator(DefaultLanguages, WithClock(func() time.Time { return fixedNow }))
}

// validForm returns a submission that passes every rule. Tests copy it and
// break one field at a time.
func validForm() url.Values {
	return url.Values{
		FieldFullName:  {"Ivanov Ivan Ivanovich"},
		FieldPhone:     {"+7 900 123-4567"},
		FieldEmail:     {"ivan@example.com"},
		FieldBirthdate: {"1990-05-20"},
		FieldGender:    {"male"},
		FieldLanguage:  {"Python", "Go"},
		FieldBio:       {"I write backends for a living."},
		FieldContract:  {"on"},
	}
}

// =========================================================================
// WHOLE-FORM TESTS
// =========================================================================

func TestValidateForm_ValidSubmission(t *testing.T) {
	errs := newTestValidator().ValidateForm(validForm())
	assert.True(t, errs.Valid(), "unexpected errors: %v", errs)
	assert.Empty(t, errs)
}

func TestValidateForm_EmptySubmissionFlagsEveryField(t *testing.T) {
	errs := newTestValidator().ValidateForm(url.Values{})

	assert.Equal(t, []string{
		FieldBio, FieldBirthdate, FieldContract, FieldEmail,
		FieldFullName, FieldGender, FieldLanguage, FieldPhone,
	}, errs.Fields())
	assert.Equal(t, MsgFullNameRequired, errs[FieldFullName])
	assert.Equal(t, MsgLanguagesRequired, errs[FieldLanguage])
}

func TestValidateForm_OnlyInvalidFieldsReported(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   []string
		wantMsg string
	}{
		{"single-token name", FieldFullName, []string{"Ivan"}, MsgFullNameTooShort},
		{"missing name", FieldFullName, nil, MsgFullNameRequired},
		{"bad phone", FieldPhone, []string{"12345"}, MsgPhoneFormat},
		{"bad email", FieldEmail, []string{"ivan.example.com"}, MsgEmailFormat},
		{"future birthdate", FieldBirthdate, []string{"2030-01-01"}, MsgBirthdateFuture},
		{"unknown gender", FieldGender, []string{"other"}, MsgGender},
		{"unknown language", FieldLanguage, []string{"Python", "COBOL"}, MsgLanguagesInvalid},
		{"short bio", FieldBio, []string{"   short   "}, MsgBiography},
		{"unchecked contract", FieldContract, []string{"off"}, MsgContract},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			if tt.value == nil {
				form.Del(tt.field)
			} else {
				form[tt.field] = tt.value
			}

			errs := newTestValidator().ValidateForm(form)

			assert.Equal(t, Errors{tt.field: tt.wantMsg}, errs)
		})
	}
}

func TestValidateForm_UsesFirstValueOfScalarFields(t *testing.T) {
	form := validForm()
	form[FieldEmail] = []string{"ivan@example.com", "not-an-email"}

	errs := newTestValidator().ValidateForm(form)
	assert.Empty(t, errs)
}

// =========================================================================
// SINGLE-RULE TESTS
// =========================================================================

func TestValidateFullName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", MsgFullNameRequired},
		{"Ivan", MsgFullNameTooShort},
		{"   Ivan   ", MsgFullNameTooShort},
		{"Ivan Petrov", ""},
		{"Иванов Иван Иванович", ""},
		{"José Müller", ""},
		{"Ivan P3trov", MsgFullNameLetters},
		{"Ivan O'Brien", MsgFullNameLetters},
		{"Ivan Petrov-Vodkin", MsgFullNameLetters},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateFullName(tt.in))
		})
	}
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", MsgPhoneRequired},
		{"89001234567", ""},
		{"+79001234567", ""},
		{"(900) 123-4567", ""},
		{"+7 900 123-4567", ""},
		{"+7\u00a0900\u00a0123-4567", ""},                        // no-break spaces
		{"+7\u202f900\u202f123\u202f4567", ""},                   // narrow no-break spaces
		{"+7\u00a0900\u00a0123\u00a0456\u00a078", MsgPhoneFormat}, // 16 runes after "+"
		{"123456789", MsgPhoneFormat},                              // 9 characters
		{"1234567890123456", MsgPhoneFormat},                       // 16 characters
		{"+7 900 abc 45 67", MsgPhoneFormat},                       // letters
		{"++79001234567", MsgPhoneFormat},                          // doubled plus
		{"7900123456+", MsgPhoneFormat},                            // trailing plus
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePhone(tt.in))
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", MsgEmailRequired},
		{"a@b.c", ""},
		{"first.last@mail.example.org", ""},
		{"no-at-sign.com", MsgEmailFormat},
		{"two@@example.com", MsgEmailFormat},
		{"user@localhost", MsgEmailFormat},
		{"@example.com", MsgEmailFormat},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateEmail(tt.in))
		})
	}
}

func TestValidateBirthdate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", MsgBirthdateRequired},
		{"past", "1990-05-20", ""},
		{"today", "2024-06-15", ""},
		{"tomorrow", "2024-06-16", MsgBirthdateFuture},
		{"far future", "2100-01-01", MsgBirthdateFuture},
		{"wrong separator", "1990/05/20", MsgBirthdateFormat},
		{"day first", "20-05-1990", MsgBirthdateFormat},
		{"impossible date", "1990-02-30", MsgBirthdateFormat},
		{"with time", "1990-05-20T10:00:00", MsgBirthdateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateBirthdate(tt.in, fixedNow))
		})
	}
}

func TestValidateGender(t *testing.T) {
	assert.Empty(t, ValidateGender("male"))
	assert.Empty(t, ValidateGender("female"))
	assert.Equal(t, MsgGender, ValidateGender(""))
	assert.Equal(t, MsgGender, ValidateGender("Male"))
}

func TestValidateLanguages(t *testing.T) {
	v := newTestValidator()

	assert.Equal(t, MsgLanguagesRequired, v.ValidateLanguages(nil))
	assert.Equal(t, MsgLanguagesRequired, v.ValidateLanguages([]string{}))
	assert.Empty(t, v.ValidateLanguages([]string{"Python", "Go"}))
	assert.Empty(t, v.ValidateLanguages([]string{"C++", "Haskel"}))
	assert.Equal(t, MsgLanguagesInvalid, v.ValidateLanguages([]string{"COBOL"}))
	assert.Equal(t, MsgLanguagesInvalid, v.ValidateLanguages([]string{"python"}), "match is case-sensitive")
}

func TestValidateLanguages_UsesConfiguredSet(t *testing.T) {
	v := NewValidator([]string{"Go"})

	assert.Empty(t, v.ValidateLanguages([]string{"Go"}))
	assert.Equal(t, MsgLanguagesInvalid, v.ValidateLanguages([]string{"Python"}))
	assert.Equal(t, []string{"Go"}, v.Languages())
}

func TestValidateBiography(t *testing.T) {
	assert.Equal(t, MsgBiography, ValidateBiography(""))
	assert.Equal(t, MsgBiography, ValidateBiography("  123456789  "))
	assert.Empty(t, ValidateBiography("1234567890"))
	assert.Equal(t, MsgBiography, ValidateBiography("Приветик"), "length counts characters, not bytes")
	assert.Equal(t, MsgBiography, ValidateBiography(strings.Repeat(" ", 20)))
}

func TestValidateContract(t *testing.T) {
	assert.Empty(t, ValidateContract("on"))
	assert.Equal(t, MsgContract, ValidateContract(""))
	assert.Equal(t, MsgContract, ValidateContract("true"))
}

// =========================================================================
// LOGIN FORM
// =========================================================================

func TestValidateLogin(t *testing.T) {
	tests := []struct {
		name       string
		form       url.Values
		wantFields []string
	}{
		{"both present", url.Values{FieldUsername: {"u"}, FieldPassword: {"p"}}, []string{}},
		{"missing password", url.Values{FieldUsername: {"u"}}, []string{FieldPassword}},
		{"empty username", url.Values{FieldUsername: {""}, FieldPassword: {"p"}}, []string{FieldUsername}},
		{"nothing", url.Values{}, []string{FieldPassword, FieldUsername}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantFields, ValidateLogin(tt.form).Fields())
		})
	}
}
