// Package validation checks submitted form fields before they reach storage.
//
// A submission arrives as url.Values: every field maps to one or more raw
// strings, the way browsers post repeated inputs. The result is an Errors
// map holding one message per invalid field. A field that passes has no
// key, so an empty map means the whole submission is valid.
//
// Invalid input is data, not a failure: nothing in this package returns an
// error or touches I/O.
package validation

import (
	"net/url"
	"sort"
	"time"
)

// Form field names, as posted by the registration and login forms.
const (
	FieldFullName  = "fullname"
	FieldPhone     = "phone"
	FieldEmail     = "email"
	FieldBirthdate = "birthdate"
	FieldGender    = "gender"
	FieldLanguage  = "language"
	FieldBio       = "bio"
	FieldContract  = "contract"

	FieldUsername = "username"
	FieldPassword = "password"
)

// ContractAccepted is the value a checked checkbox posts.
const ContractAccepted = "on"

// DefaultLanguages is the canonical reference list of programming language
// names. It seeds the ProgrammingLanguages table on bootstrap; at runtime the
// accepted set is loaded from that table instead (see NewValidator).
//
// "Haskel" is the stored spelling of the reference row.
var DefaultLanguages = []string{
	"Pascal", "C", "C++", "JavaScript", "PHP", "Python",
	"Java", "Haskel", "Clojure", "Prolog", "Scala", "Go",
}

// Errors maps field name to a human-readable message.
type Errors map[string]string

// Valid reports whether no field failed.
func (e Errors) Valid() bool {
	return len(e) == 0
}

// Fields returns the invalid field names in sorted order.
func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// set records msg under field unless msg is empty.
func (e Errors) set(field, msg string) {
	if msg != "" {
		e[field] = msg
	}
}

// Validator holds what the registration rules need beyond the input itself:
// the accepted language set and a clock for the birthdate check.
type Validator struct {
	languages map[string]struct{}
	now       func() time.Time
}

// Option configures a Validator.
type Option func(*Validator)

// WithClock replaces time.Now. Tests pin "today" with it.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// NewValidator builds a Validator accepting exactly the given language names.
// Matching is case-sensitive.
func NewValidator(languages []string, opts ...Option) *Validator {
	v := &Validator{
		languages: make(map[string]struct{}, len(languages)),
		now:       time.Now,
	}
	for _, name := range languages {
		v.languages[name] = struct{}{}
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Languages returns the accepted names in sorted order.
func (v *Validator) Languages() []string {
	names := make([]string, 0, len(v.languages))
	for name := range v.languages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateForm applies every registration rule. Each field is judged on its
// own; one bad field never hides another.
func (v *Validator) ValidateForm(form url.Values) Errors {
	errs := make(Errors)

	errs.set(FieldFullName, ValidateFullName(first(form, FieldFullName)))
	errs.set(FieldPhone, ValidatePhone(first(form, FieldPhone)))
	errs.set(FieldEmail, ValidateEmail(first(form, FieldEmail)))
	errs.set(FieldBirthdate, ValidateBirthdate(first(form, FieldBirthdate), v.now()))
	errs.set(FieldGender, ValidateGender(first(form, FieldGender)))
	errs.set(FieldLanguage, v.ValidateLanguages(form[FieldLanguage]))
	errs.set(FieldBio, ValidateBiography(first(form, FieldBio)))
	errs.set(FieldContract, ValidateContract(first(form, FieldContract)))

	return errs
}

// ValidateLogin checks the login form: both fields must be present.
func ValidateLogin(form url.Values) Errors {
	errs := make(Errors)
	if first(form, FieldUsername) == "" {
		errs[FieldUsername] = MsgUsernameRequired
	}
	if first(form, FieldPassword) == "" {
		errs[FieldPassword] = MsgPasswordRequired
	}
	return errs
}

// first returns the first submitted value of field, or "" when absent.
func first(form url.Values, field string) string {
	if vals := form[field]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}
