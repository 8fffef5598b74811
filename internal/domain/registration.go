package domain

import (
	"context"
	"time"
)

// EventRegistration is an attendee's intent-to-attend edge to an event.
// swagger:model EventRegistration
type EventRegistration struct {
	ID            string    `json:"id"`
	EventID       string    `json:"event_id"`
	AttendeeEmail string    `json:"attendee_email"`
	CreatedAt     time.Time `json:"created_at"`
}

// EventRegistrationRepository defines storage for registrations. The
// (event_id, attendee_email) pair is unique.
type EventRegistrationRepository interface {
	// Create inserts the registration; ErrAlreadyRegistered when the pair
	// already exists. The guard is part of the insert itself.
	Create(ctx context.Context, reg *EventRegistration) error
	// Delete removes the edge; removing an absent edge is a no-op.
	Delete(ctx context.Context, eventID, attendeeEmail string) error
	ListByAttendee(ctx context.Context, attendeeEmail string) ([]*EventRegistration, error)
	// ListAttendeesByEventID returns the registered attendees' accounts.
	ListAttendeesByEventID(ctx context.Context, eventID string) ([]*User, error)
}

// RegisteredEvent bundles a registration with its event.
type RegisteredEvent struct {
	Registration *EventRegistration `json:"registration"`
	Event        *Event             `json:"event"`
}

// AttendeeService defines attendee self-service operations.
type AttendeeService interface {
	Register(ctx context.Context, eventID, attendeeEmail string) (*EventRegistration, error)
	// CancelRegistration is unconditionally idempotent.
	CancelRegistration(ctx context.Context, eventID, attendeeEmail string) error
	ListMyEvents(ctx context.Context, attendeeEmail string) ([]*RegisteredEvent, error)
	ListRegisteredAttendees(ctx context.Context, eventID string) ([]*User, error)
}
