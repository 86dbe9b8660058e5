// Package users implements user account storage access, the account service
// that owns profile CRUD and credential checks, and the HTTP handlers for the
// /login and /users endpoints.
package users

import "time"

// Gender is the closed set of accepted gender values.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// User is a stored account record. PasswordHash is the only credential ever
// persisted; it is excluded from JSON so it cannot leak through any response.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Surname      *string    `json:"surname,omitempty"`
	Gender       Gender     `json:"gender"`
	Birthdate    *time.Time `json:"birthdate,omitempty"`
	Address      *string    `json:"address,omitempty"`
	Email        string     `json:"email"`
	Mobile       string     `json:"mobile"`
	PasswordHash string     `json:"-"`
	ProfilePhoto *string    `json:"profile_photo,omitempty"`
}
