package domain

import "errors"

// Sentinel errors shared across services. Services wrap unexpected
// failures with fmt.Errorf("...: %w", err); these values are returned
// verbatim so callers can match with errors.Is.
var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when a request is malformed or missing
	// required fields. Nothing is persisted.
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden is returned when the caller is not allowed to perform
	// the operation (e.g. a non-creator requesting the organizer feedback view).
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAlreadyInvited is returned when a speaker already holds an
	// invitation for the event.
	ErrAlreadyInvited = errors.New("speaker already invited")

	// ErrAlreadyRegistered is returned when the attendee already holds a
	// registration for the event.
	ErrAlreadyRegistered = errors.New("already registered for this event")

	// ErrAlreadyResponded is returned when an invitation has left PENDING
	// and cannot transition again.
	ErrAlreadyResponded = errors.New("invitation already responded to")
)

// Credential-reset errors.
var (
	ErrNoResetRequested = errors.New("no reset code requested")
	ErrCodeExpired      = errors.New("reset code has expired")
	ErrCodeMismatch     = errors.New("invalid reset code")
)
