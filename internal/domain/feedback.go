package domain

import (
	"context"
	"time"
)

// Rating bounds for all feedback kinds.
const (
	MinRating = 1
	MaxRating = 5
)

// ValidRating reports whether r is within [MinRating, MaxRating].
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// EventFeedback is an attendee's rating of an event. Append-only.
// swagger:model EventFeedback
type EventFeedback struct {
	ID            string    `json:"id"`
	EventID       string    `json:"event_id"`
	AttendeeEmail string    `json:"attendee_email"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
	CreatedAt     time.Time `json:"created_at"`
}

// VenueFeedback is an attendee's rating of a venue. Append-only.
// swagger:model VenueFeedback
type VenueFeedback struct {
	ID            string    `json:"id"`
	VenueName     string    `json:"venue_name"`
	AttendeeEmail string    `json:"attendee_email"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
	CreatedAt     time.Time `json:"created_at"`
}

// SpeakerFeedback is an attendee's rating of a speaker at a specific
// event. Accepted only when the speaker is associated with the event.
// swagger:model SpeakerFeedback
type SpeakerFeedback struct {
	ID            string    `json:"id"`
	SpeakerEmail  string    `json:"speaker_email"`
	EventID       string    `json:"event_id"`
	AttendeeEmail string    `json:"attendee_email"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
	CreatedAt     time.Time `json:"created_at"`
}

// EventFeedbackDetail is a feedback row joined with the attendee's name,
// for the organizer view.
type EventFeedbackDetail struct {
	Feedback     *EventFeedback `json:"feedback"`
	AttendeeName string         `json:"attendee_name"`
}

// FeedbackRepository defines append-only feedback storage.
type FeedbackRepository interface {
	CreateEventFeedback(ctx context.Context, f *EventFeedback) error
	CreateVenueFeedback(ctx context.Context, f *VenueFeedback) error
	// CreateSpeakerFeedback inserts only when the speaker holds an
	// invitation edge for the event; the association check is part of the
	// insert statement. Returns false when the guard rejected the row.
	CreateSpeakerFeedback(ctx context.Context, f *SpeakerFeedback) (created bool, err error)
	ListEventFeedbackWithAttendee(ctx context.Context, eventID string) ([]*EventFeedbackDetail, error)
	ListByEvent(ctx context.Context, eventID string) ([]*EventFeedback, error)
	ListByVenue(ctx context.Context, venueName string) ([]*VenueFeedback, error)
	ListBySpeaker(ctx context.Context, speakerEmail string) ([]*SpeakerFeedback, error)
	ListByAttendee(ctx context.Context, attendeeEmail string) ([]*EventFeedback, error)
}

// FeedbackService defines feedback submission and aggregation.
type FeedbackService interface {
	SubmitEventFeedback(ctx context.Context, eventID, attendeeEmail string, rating int, comment string) (*EventFeedback, error)
	SubmitVenueFeedback(ctx context.Context, venueName, attendeeEmail string, rating int, comment string) (*VenueFeedback, error)
	SubmitSpeakerFeedback(ctx context.Context, speakerEmail, eventID, attendeeEmail string, rating int, comment string) (*SpeakerFeedback, error)
	// EventFeedbackForOrganizer is restricted to the event's creator;
	// a non-creator gets ErrForbidden, distinct from an empty result.
	EventFeedbackForOrganizer(ctx context.Context, eventID, callerEmail string) ([]*EventFeedbackDetail, error)
	ListEventFeedback(ctx context.Context, eventID string) ([]*EventFeedback, error)
	ListVenueFeedback(ctx context.Context, venueName string) ([]*VenueFeedback, error)
	ListSpeakerFeedback(ctx context.Context, speakerEmail string) ([]*SpeakerFeedback, error)
	ListMyFeedback(ctx context.Context, attendeeEmail string) ([]*EventFeedback, error)
}
