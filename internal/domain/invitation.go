package domain

import (
	"context"
	"time"
)

// InvitationStatus is the state of one speaker's response to one event.
// ACCEPTED and REJECTED are terminal.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "PENDING"
	InvitationAccepted InvitationStatus = "ACCEPTED"
	InvitationRejected InvitationStatus = "REJECTED"
)

// EventInvitation tracks one speaker's invitation to one event. Each
// invitation carries its own identifier so that accept/reject links remain
// unambiguous when several speakers are invited to the same event.
// swagger:model EventInvitation
type EventInvitation struct {
	ID           string           `json:"id"`
	EventID      string           `json:"event_id"`
	SpeakerEmail string           `json:"speaker_email"`
	Status       InvitationStatus `json:"status"`
	IsRead       bool             `json:"is_read"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// SpeakerInvitation bundles an invitation with its event for speaker-facing lists.
type SpeakerInvitation struct {
	Invitation *EventInvitation `json:"invitation"`
	Event      *Event           `json:"event"`
}

// EventInvitationRepository defines storage for invitations. The
// (event_id, speaker_email) pair is unique; guards are enforced inside
// single conditional statements, never as separate read-then-write calls.
type EventInvitationRepository interface {
	// Create inserts the invitation; ErrAlreadyInvited when the pair exists.
	Create(ctx context.Context, inv *EventInvitation) error
	GetByID(ctx context.Context, id string) (*EventInvitation, error)
	// AcceptIfPending atomically moves PENDING->ACCEPTED and marks the
	// invitation read. ErrNotFound when no row is in PENDING with this id.
	AcceptIfPending(ctx context.Context, id string) (*EventInvitation, error)
	// DeleteIfPending atomically removes a PENDING invitation (reject path)
	// and returns the removed row. ErrNotFound when no such row.
	DeleteIfPending(ctx context.Context, id string) (*EventInvitation, error)
	// MarkRead is idempotent. ErrNotFound when the id does not exist.
	MarkRead(ctx context.Context, id string) error
	// DeleteByEventAndSpeaker removes the edge; absent edge is a no-op.
	DeleteByEventAndSpeaker(ctx context.Context, eventID, speakerEmail string) error
	ListByEventID(ctx context.Context, eventID string) ([]*EventInvitation, error)
	ListBySpeaker(ctx context.Context, speakerEmail string) ([]*EventInvitation, error)
}

// InviteResult reports the outcome of creating an invitation. The
// invitation itself is committed; NotifyFailed marks a best-effort
// notification or email that did not go out.
type InviteResult struct {
	Invitation   *EventInvitation `json:"invitation"`
	NotifyFailed bool             `json:"notify_failed,omitempty"`
}

// InvitationService drives the invitation state machine and its side
// effects. Persistence commit strictly precedes notification creation,
// which precedes email dispatch.
type InvitationService interface {
	InviteSpeaker(ctx context.Context, eventID, speakerEmail string) (*InviteResult, error)
	// Respond moves a PENDING invitation to ACCEPTED or REJECTED.
	// Acceptance drives the event to ACTIVE (first acceptance wins);
	// rejection removes only this speaker's edge and cancels the event
	// only when no invitations remain. A non-empty callerEmail must match
	// the invited speaker; email deep links pass "" because possession of
	// the invitation id is their credential.
	Respond(ctx context.Context, invitationID, callerEmail string, status InvitationStatus) (*EventInvitation, error)
	MarkRead(ctx context.Context, invitationID string) error
	RemoveSpeaker(ctx context.Context, eventID, speakerEmail, callerEmail string) error
	ListBySpeaker(ctx context.Context, speakerEmail string) ([]*SpeakerInvitation, error)
}
