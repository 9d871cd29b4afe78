package data

import (
	"errors"
	"fmt"

	"github.com/target/jobportal/internal/domain/model"
	apperrors "github.com/target/jobportal/internal/errors"
)

// Shared sentinel errors for data-layer repositories.
var (
	// User repository sentinels.
	ErrUserNotFound = errors.New("user not found")
	ErrMobileExists = errors.New("mobile number already registered")

	// Job repository sentinels.
	ErrJobNotFound = errors.New("job not found")

	// Application repository sentinels.
	ErrApplicationNotFound = errors.New("application not found")
	ErrAlreadyApplied      = errors.New("already applied to this job")
	ErrNotJobOwner         = errors.New("application belongs to another employer's job")

	// ErrRequestRequired is returned when a nil request is passed to a repository.
	ErrRequestRequired = errors.New("request is required")
)

// mapWriteErr keeps repository sentinels intact and classifies driver errors.
func mapWriteErr(err error, op string, notFound error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range []error{
		ErrUserNotFound, ErrMobileExists, ErrJobNotFound,
		ErrApplicationNotFound, ErrAlreadyApplied, ErrNotJobOwner,
		ErrRequestRequired, model.ErrInvalidTransition,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	mapped := apperrors.MapDBError(err)
	if notFound != nil && apperrors.IsNotFound(mapped) {
		return notFound
	}
	return fmt.Errorf("%s: %w", op, mapped)
}
