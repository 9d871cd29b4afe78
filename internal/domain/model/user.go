//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/target/jobportal/internal/domain/auth"
)

const (
	maxUserNameLen = 100
	maxMobileLen   = 15
	maxPasswordLen = 72 // bcrypt input limit, in bytes
)

// User is a registered account. Role is fixed at registration.
type User struct {
	ID           string    `json:"id"         db:"id"`
	Name         string    `json:"name"       db:"name"`
	Mobile       string    `json:"mobile"     db:"mobile"`
	PasswordHash string    `json:"-"          db:"password_hash"`
	Role         auth.Role `json:"role"       db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// RegisterRequest carries the registration form.
type RegisterRequest struct {
	Name     string
	Mobile   string
	Password string
	Role     string
}

// ErrPasswordLength is returned when a password exceeds what bcrypt can hash.
var ErrPasswordLength = &FieldError{
	Field:   "password",
	Key:     "password_length",
	Message: "Password must be at most 72 bytes.",
}

// Validate checks required fields, the mobile format and the role. It
// normalizes whitespace in place.
func (r *RegisterRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Mobile = strings.TrimSpace(r.Mobile)
	if anyBlank(r.Name, r.Mobile, r.Password, r.Role) {
		return ErrAllFieldsRequired
	}
	if utf8.RuneCountInString(r.Name) > maxUserNameLen {
		return ErrFieldTooLong
	}
	if len(r.Mobile) > maxMobileLen || !ValidMobile(r.Mobile) {
		return ErrInvalidMobile
	}
	if len(r.Password) > maxPasswordLen {
		return ErrPasswordLength
	}
	role, ok := auth.ParseRole(r.Role)
	if !ok {
		return ErrInvalidRole
	}
	r.Role = string(role)
	return nil
}

// CreateUserRequest is what the repository persists once the password is hashed.
type CreateUserRequest struct {
	Name         string
	Mobile       string
	PasswordHash string
	Role         auth.Role
}

// LoginRequest carries the login form.
type LoginRequest struct {
	Mobile   string
	Password string
}

// Validate checks that both credentials are present.
func (r *LoginRequest) Validate() error {
	r.Mobile = strings.TrimSpace(r.Mobile)
	if anyBlank(r.Mobile, r.Password) {
		return ErrAllFieldsRequired
	}
	return nil
}
