//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"regexp"
	"strings"
)

var (
	mobilePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	emailPattern  = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)
)

// FieldError is a user-facing validation failure. Key names the translation
// entry used to render it; Message is the English fallback.
type FieldError struct {
	Field   string
	Key     string
	Message string
}

func (e *FieldError) Error() string { return e.Message }

// Validation failures shared by the request types in this package.
var (
	ErrAllFieldsRequired = &FieldError{Key: "all_fields_required", Message: "All fields are required."}
	ErrInvalidMobile     = &FieldError{
		Field:   "mobile",
		Key:     "invalid_mobile_number",
		Message: "Invalid mobile number. Please enter a valid number.",
	}
	ErrInvalidEmail = &FieldError{
		Field:   "email",
		Key:     "invalid_email_address",
		Message: "Invalid email address. Please enter a valid email.",
	}
	ErrInvalidRole = &FieldError{
		Field:   "role",
		Key:     "invalid_role",
		Message: "Invalid role. Please select either Employee or Employer.",
	}
	ErrEmptyMessage = &FieldError{
		Field:   "content",
		Key:     "message_content_cannot_be_empty",
		Message: "Message content cannot be empty.",
	}
	ErrFieldTooLong = &FieldError{Key: "field_too_long", Message: "One of the fields is too long."}
)

// ValidMobile reports whether v looks like a phone number: optional leading +
// followed by 10 to 15 digits.
func ValidMobile(v string) bool {
	return mobilePattern.MatchString(strings.TrimSpace(v))
}

// ValidEmail reports whether v has the shape local@domain.tld.
func ValidEmail(v string) bool {
	return emailPattern.MatchString(strings.TrimSpace(v))
}

func anyBlank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}
