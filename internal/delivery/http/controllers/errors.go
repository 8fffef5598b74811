package controllers

import (
	"errors"

	"eventhorizon/internal/domain"
)

// isKnownServiceError reports whether err belongs to the service error
// taxonomy. Known errors map to 4xx responses and are not worth logging;
// everything else is an internal failure.
func isKnownServiceError(err error) bool {
	for _, known := range []error{
		domain.ErrNotFound,
		domain.ErrInvalidInput,
		domain.ErrForbidden,
		domain.ErrInvalidCredentials,
		domain.ErrAlreadyInvited,
		domain.ErrAlreadyRegistered,
		domain.ErrAlreadyResponded,
		domain.ErrNoResetRequested,
		domain.ErrCodeExpired,
		domain.ErrCodeMismatch,
		domain.ErrUserNotFound,
		domain.ErrDuplicateEmail,
	} {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}
