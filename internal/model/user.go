// Package model defines the data structures used throughout the application.
package model

import "time"

// Gender is the closed set of values accepted by the registration form.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Valid reports whether g is one of the accepted tokens.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// User is a registration record.
//
// ID is assigned by the store on create and never changes afterwards.
// PasswordHash only ever holds a digest, never the raw password, and is
// not serialized to clients. Languages holds reference names such as
// "Python" or "Go"; it is never nil on records returned by the repository.
type User struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	MiddleName   string    `json:"middle_name"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	Birthdate    time.Time `json:"-"`
	Gender       Gender    `json:"gender"`
	Biography    string    `json:"biography"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Languages    []string  `json:"languages"`
}

// DateLayout is the calendar-date format used on the wire and in the store.
const DateLayout = time.DateOnly

// BirthdateString formats the birthdate as YYYY-MM-DD.
func (u *User) BirthdateString() string {
	return u.Birthdate.Format(DateLayout)
}

// Language is a row of the ProgrammingLanguages reference table.
type Language struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// FullName joins the name parts in form order: last, first, middle.
func (u *User) FullName() string {
	name := u.LastName + " " + u.FirstName
	if u.MiddleName != "" {
		name += " " + u.MiddleName
	}
	return name
}
