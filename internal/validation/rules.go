package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/sakif/form-backend/internal/model"
)

// Messages returned by the rules. Each rule returns "" when the value passes.
const (
	MsgFullNameRequired  = "Full name is required"
	MsgFullNameTooShort  = "Enter at least a first and last name"
	MsgFullNameLetters   = "Full name may contain letters only"
	MsgPhoneRequired     = "Phone is required"
	MsgPhoneFormat       = "Invalid phone format"
	MsgEmailRequired     = "Email is required"
	MsgEmailFormat       = "Invalid email address"
	MsgBirthdateRequired = "Birthdate is required"
	MsgBirthdateFormat   = "Invalid date format"
	MsgBirthdateFuture   = "Birthdate cannot be in the future"
	MsgGender            = "Select a gender"
	MsgLanguagesRequired = "Select at least one language"
	MsgLanguagesInvalid  = "Unsupported language selected"
	MsgBiography         = "Biography must be at least 10 characters"
	MsgContract          = "You must accept the contract"
	MsgUsernameRequired  = "Username is required"
	MsgPasswordRequired  = "Password is required"
)

const minBiographyLength = 10

var (
	// \s is ASCII-only in RE2; \p{Z} adds Unicode separators such as the
	// no-break space phones often carry when pasted. Length counts runes.
	phonePattern = regexp.MustCompile(`^\+?[0-9\s\p{Z}\-\(\)]{10,15}$`)
	emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)
)

// ValidateFullName requires two or more whitespace-separated tokens made of
// letters only. Any script counts as letters.
func ValidateFullName(fullName string) string {
	if fullName == "" {
		return MsgFullNameRequired
	}
	parts := strings.Fields(fullName)
	if len(parts) < 2 {
		return MsgFullNameTooShort
	}
	for _, part := range parts {
		if !isLetters(part) {
			return MsgFullNameLetters
		}
	}
	return ""
}

func isLetters(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}

// ValidatePhone accepts an optional "+" then 10-15 digits, spaces (any
// Unicode space separator), hyphens or parentheses.
func ValidatePhone(phone string) string {
	if phone == "" {
		return MsgPhoneRequired
	}
	if !phonePattern.MatchString(phone) {
		return MsgPhoneFormat
	}
	return ""
}

// ValidateEmail checks the minimal local@domain.tld shape.
func ValidateEmail(email string) string {
	if email == "" {
		return MsgEmailRequired
	}
	if !emailPattern.MatchString(email) {
		return MsgEmailFormat
	}
	return ""
}

// ValidateBirthdate requires a YYYY-MM-DD date no later than now's calendar day.
func ValidateBirthdate(birthdate string, now time.Time) string {
	if birthdate == "" {
		return MsgBirthdateRequired
	}
	date, err := time.Parse(model.DateLayout, birthdate)
	if err != nil {
		return MsgBirthdateFormat
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.After(today) {
		return MsgBirthdateFuture
	}
	return ""
}

// ValidateGender accepts exactly "male" or "female".
func ValidateGender(gender string) string {
	if !model.Gender(gender).Valid() {
		return MsgGender
	}
	return ""
}

// ValidateLanguages requires a non-empty list whose every entry is accepted.
func (v *Validator) ValidateLanguages(languages []string) string {
	if len(languages) == 0 {
		return MsgLanguagesRequired
	}
	for _, lang := range languages {
		if _, ok := v.languages[lang]; !ok {
			return MsgLanguagesInvalid
		}
	}
	return ""
}

// ValidateBiography requires at least 10 characters once surrounding
// whitespace is trimmed.
func ValidateBiography(bio string) string {
	if utf8.RuneCountInString(strings.TrimSpace(bio)) < minBiographyLength {
		return MsgBiography
	}
	return ""
}

// ValidateContract requires the checkbox to be checked.
func ValidateContract(contract string) string {
	if contract != ContractAccepted {
		return MsgContract
	}
	return ""
}
