package handler

import "github.com/sakif/form-backend/internal/model"

// userResponse is the public shape of a user record. It never includes the
// password hash.
type userResponse struct {
	ID         int64    `json:"id"`
	FullName   string   `json:"fullname"`
	FirstName  string   `json:"first_name"`
	LastName   string   `json:"last_name"`
	MiddleName string   `json:"middle_name"`
	Phone      string   `json:"phone"`
	Email      string   `json:"email"`
	Birthdate  string   `json:"birthdate"`
	Gender     string   `json:"gender"`
	Biography  string   `json:"bio"`
	Username   string   `json:"username"`
	Languages  []string `json:"languages"`
}

func toUserResponse(u *model.User) userResponse {
	langs := u.Languages
	if langs == nil {
		langs = []string{}
	}
	return userResponse{
		ID:         u.ID,
		FullName:   u.FullName(),
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		MiddleName: u.MiddleName,
		Phone:      u.Phone,
		Email:      u.Email,
		Birthdate:  u.BirthdateString(),
		Gender:     string(u.Gender),
		Biography:  u.Biography,
		Username:   u.Username,
		Languages:  langs,
	}
}

// registerResponse is returned once, on successful registration. It is the
// only response that carries a plaintext password.
type registerResponse struct {
	ID       int64        `json:"id"`
	Username string       `json:"username"`
	Password string       `json:"password"`
	User     userResponse `json:"user"`
}
