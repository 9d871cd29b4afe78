package httpx

import (
	"errors"

	"github.com/target/jobportal/internal/data"
	"github.com/target/jobportal/internal/domain/model"
	"github.com/target/jobportal/internal/service"
)

// fallbackFlashKey is shown for failures without a dedicated message.
const fallbackFlashKey = "an_error_occurred"

// sentinelFlashKeys maps domain sentinels to their translation keys.
//
//nolint:gochecknoglobals // static read-only lookup
var sentinelFlashKeys = []struct {
	err error
	key string
}{
	{service.ErrInvalidCredentials, "invalid_credentials"},
	{data.ErrMobileExists, "mobile_already_registered"},
	{data.ErrJobNotFound, "job_not_found"},
	{data.ErrApplicationNotFound, "application_not_found"},
	{data.ErrAlreadyApplied, "already_applied"},
	{data.ErrNotJobOwner, "not_authorized_to_view_applications"},
	{service.ErrNotParticipant, "not_authorized_to_view_messages"},
	{model.ErrInvalidTransition, "application_already_decided"},
}

// flashKeyFor returns the translation key describing err to the visitor.
// known is false when err is unexpected and should be logged.
func flashKeyFor(err error) (key string, known bool) {
	var fieldErr *model.FieldError
	if errors.As(err, &fieldErr) && fieldErr.Key != "" {
		return fieldErr.Key, true
	}
	for _, s := range sentinelFlashKeys {
		if errors.Is(err, s.err) {
			return s.key, true
		}
	}
	return fallbackFlashKey, false
}
