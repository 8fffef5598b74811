package domain

import (
	"context"
	"time"
)

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	// EventStatusPending is the only creation state.
	EventStatusPending EventStatus = "PENDING"
	// EventStatusActive is reached when any invitation is accepted.
	EventStatusActive EventStatus = "ACTIVE"
	// EventStatusCancelled is terminal.
	EventStatusCancelled EventStatus = "CANCELLED"
)

// Venue is a named location. Venues are merged by name: creating an event
// with an existing venue name updates its url/address in place.
// swagger:model Venue
type Venue struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Address string `json:"address"`
}

// Event represents a scheduled activity with a lifecycle status.
// Creator fields are a snapshot taken at creation time and never change.
// swagger:model Event
type Event struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Date         string      `json:"date"`
	Time         string      `json:"time"`
	Category     string      `json:"category"`
	Interest     string      `json:"interest"`
	CreatorEmail string      `json:"creator_email"`
	CreatorName  string      `json:"creator_name"`
	CreatorRole  Role        `json:"creator_role"`
	Venue        Venue       `json:"venue"`
	Status       EventStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// EventUpdate carries the organizer's partial edit. Nil fields are left
// untouched (coalesce-with-existing semantics). Status is not editable here.
type EventUpdate struct {
	Title       *string
	Description *string
	Date        *string
	Time        *string
	Category    *string
	Interest    *string
}

// VenueUpdate carries a venue merge keyed by the venue name.
type VenueUpdate struct {
	Name    string
	URL     *string
	Address *string
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	// Create persists the event and merges its venue in one atomic unit.
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	ListByCreator(ctx context.Context, creatorEmail string) ([]*Event, error)
	// Update applies only the non-nil fields and returns the updated row.
	Update(ctx context.Context, id string, upd EventUpdate) (*Event, error)
	// UpdateVenue merges venue fields and points the event at the venue.
	UpdateVenue(ctx context.Context, eventID string, upd VenueUpdate) error
	// UpdateStatusIf flips status from->to as a single conditional write.
	// Returns false with nil error when the event was not in the from
	// state; concurrent callers must treat that as a no-op, not a failure.
	UpdateStatusIf(ctx context.Context, id string, from, to EventStatus) (bool, error)
	// SetStatus unconditionally writes the status (organizer cancel).
	SetStatus(ctx context.Context, id string, status EventStatus) error
	// CancelIfNoInvitations cancels the event only if it is still PENDING
	// and no invitation rows remain, in one conditional statement.
	CancelIfNoInvitations(ctx context.Context, eventID string) (bool, error)
}

// CreateEventParams carries the event creation request.
type CreateEventParams struct {
	Title         string
	Description   string
	Date          string
	Time          string
	Category      string
	Interest      string
	CreatorEmail  string
	VenueName     string
	VenueURL      string
	VenueAddress  string
	SpeakerEmails []string
}

// EventService defines the event lifecycle operations.
type EventService interface {
	// CreateEvent returns the created event plus the emails of requested
	// speakers whose invitation could not be created or dispatched. A
	// non-empty failedInvites with a nil error is a partial success: the
	// event itself is committed.
	CreateEvent(ctx context.Context, params CreateEventParams) (event *Event, failedInvites []string, err error)
	GetEvent(ctx context.Context, eventID string) (*Event, error)
	ListEventsByCreator(ctx context.Context, creatorEmail string) ([]*Event, error)
	UpdateEvent(ctx context.Context, eventID, callerEmail string, upd EventUpdate, venue *VenueUpdate) (*Event, error)
	CancelEvent(ctx context.Context, eventID, callerEmail string) error
}
