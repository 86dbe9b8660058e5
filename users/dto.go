package users

import "time"

// CreateUserRequest is the payload for creating an account. The plaintext
// password exists only in this request and in hashing arguments; it is never
// stored or logged.
type CreateUserRequest struct {
	Name         string     `json:"name" validate:"required,max=50"`
	Surname      string     `json:"surname,omitempty" validate:"omitempty,max=50"`
	Gender       Gender     `json:"gender" validate:"required,oneof=male female other"`
	Birthdate    *time.Time `json:"birthdate,omitempty"`
	Address      string     `json:"address,omitempty" validate:"omitempty,max=200"`
	Email        string     `json:"email" validate:"required,email,max=100"`
	Mobile       string     `json:"mobile" validate:"required,max=15"`
	Password     string     `json:"password" validate:"required"`
	ProfilePhoto string     `json:"profile_photo,omitempty" validate:"omitempty,max=200"`
}

// UpdateUserRequest is the payload for updating an account. An absent or
// empty field leaves the stored value unchanged; a field cannot be cleared
// through update. A non-empty password is re-hashed before storage.
type UpdateUserRequest struct {
	Name         string     `json:"name,omitempty" validate:"omitempty,max=50"`
	Surname      string     `json:"surname,omitempty" validate:"omitempty,max=50"`
	Gender       Gender     `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	Birthdate    *time.Time `json:"birthdate,omitempty"`
	Address      string     `json:"address,omitempty" validate:"omitempty,max=200"`
	Email        string     `json:"email,omitempty" validate:"omitempty,email,max=100"`
	Mobile       string     `json:"mobile,omitempty" validate:"omitempty,max=15"`
	Password     string     `json:"password,omitempty"`
	ProfilePhoto string     `json:"profile_photo,omitempty" validate:"omitempty,max=200"`
}

// MessageResponse is a simple confirmation payload.
type MessageResponse struct {
	Message string `json:"message"`
}
