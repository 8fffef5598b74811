package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"eventhorizon/internal/domain"
)

type invitationService struct {
	invitationRepo domain.EventInvitationRepository
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	notifier       domain.Notifier
	emailService   domain.EmailService
	baseURL        string
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewInvitationService creates an InvitationService. baseURL is the public
// address used to build accept/reject links in invitation emails.
func NewInvitationService(
	invitationRepo domain.EventInvitationRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	notifier domain.Notifier,
	emailService domain.EmailService,
	baseURL string,
	logger *slog.Logger,
	timeout time.Duration,
) domain.InvitationService {
	return &invitationService{
		invitationRepo: invitationRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		notifier:       notifier,
		emailService:   emailService,
		baseURL:        baseURL,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// InviteSpeaker creates the invitation edge, then fires the in-app
// notification and the email. The edge commit comes first; a failed side
// effect is reported via NotifyFailed, never by rolling the edge back.
func (s *invitationService) InviteSpeaker(ctx context.Context, eventID, speakerEmail string) (*domain.InviteResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.Status == domain.EventStatusCancelled {
		return nil, domain.ErrInvalidInput
	}
	speaker, err := s.userRepo.GetByEmail(ctx, speakerEmail)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get speaker: %w", err)
	}
	if speaker.Role != domain.RoleSpeaker {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	inv := &domain.EventInvitation{
		ID:           uuid.NewString(),
		EventID:      eventID,
		SpeakerEmail: speaker.Email,
		Status:       domain.InvitationPending,
		IsRead:       false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.invitationRepo.Create(ctx, inv); err != nil {
		if errors.Is(err, domain.ErrAlreadyInvited) {
			return nil, domain.ErrAlreadyInvited
		}
		return nil, fmt.Errorf("create invitation: %w", err)
	}

	result := &domain.InviteResult{Invitation: inv}
	message := fmt.Sprintf("You have been invited to speak at %q on %s", event.Title, event.Date)
	if _, err := s.notifier.Notify(ctx, speaker.Email, domain.NotificationInvitation, message, eventID); err != nil {
		s.logger.Warn("invitation notification failed", "invitation_id", inv.ID, "error", err)
		result.NotifyFailed = true
	}
	data := &domain.InvitationEmailData{
		Email:         speaker.Email,
		EventTitle:    event.Title,
		EventDate:     event.Date,
		EventTime:     event.Time,
		VenueName:     event.Venue.Name,
		VenueAddress:  event.Venue.Address,
		Description:   event.Description,
		OrganizerName: event.CreatorName,
		AcceptURL:     fmt.Sprintf("%s/invitations/%s/accept", s.baseURL, inv.ID),
		RejectURL:     fmt.Sprintf("%s/invitations/%s/reject", s.baseURL, inv.ID),
	}
	if err := s.emailService.SendInvitation(ctx, data); err != nil {
		s.logger.Warn("invitation email failed", "invitation_id", inv.ID, "error", err)
		result.NotifyFailed = true
	}
	return result, nil
}

// Respond resolves a PENDING invitation. Acceptance flips the event to
// ACTIVE via a conditional write so the first acceptance wins and later ones
// leave the status alone. Rejection removes only this speaker's edge and
// cancels the event solely when that removal left no invitations at all.
func (s *invitationService) Respond(ctx context.Context, invitationID, callerEmail string, status domain.InvitationStatus) (*domain.EventInvitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if callerEmail != "" {
		inv, err := s.invitationRepo.GetByID(ctx, invitationID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrNotFound
			}
			return nil, fmt.Errorf("get invitation: %w", err)
		}
		if inv.SpeakerEmail != callerEmail {
			return nil, domain.ErrForbidden
		}
	}

	switch status {
	case domain.InvitationAccepted:
		return s.accept(ctx, invitationID)
	case domain.InvitationRejected:
		return s.reject(ctx, invitationID)
	default:
		return nil, domain.ErrInvalidInput
	}
}

func (s *invitationService) accept(ctx context.Context, invitationID string) (*domain.EventInvitation, error) {
	inv, err := s.invitationRepo.AcceptIfPending(ctx, invitationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, s.classifyMissedTransition(ctx, invitationID)
		}
		return nil, fmt.Errorf("accept invitation: %w", err)
	}
	if _, err := s.eventRepo.UpdateStatusIf(ctx, inv.EventID, domain.EventStatusPending, domain.EventStatusActive); err != nil {
		return nil, fmt.Errorf("activate event: %w", err)
	}
	return inv, nil
}

func (s *invitationService) reject(ctx context.Context, invitationID string) (*domain.EventInvitation, error) {
	inv, err := s.invitationRepo.DeleteIfPending(ctx, invitationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, s.classifyMissedTransition(ctx, invitationID)
		}
		return nil, fmt.Errorf("reject invitation: %w", err)
	}
	inv.Status = domain.InvitationRejected
	cancelled, err := s.eventRepo.CancelIfNoInvitations(ctx, inv.EventID)
	if err != nil {
		return nil, fmt.Errorf("cancel event after rejection: %w", err)
	}
	if cancelled {
		s.logger.Info("event cancelled after last rejection", "event_id", inv.EventID)
	}
	return inv, nil
}

// classifyMissedTransition distinguishes "already resolved" from "never
// existed" after a conditional statement matched nothing.
func (s *invitationService) classifyMissedTransition(ctx context.Context, invitationID string) error {
	if _, err := s.invitationRepo.GetByID(ctx, invitationID); err == nil {
		return domain.ErrAlreadyResponded
	}
	return domain.ErrNotFound
}

func (s *invitationService) MarkRead(ctx context.Context, invitationID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.invitationRepo.MarkRead(ctx, invitationID)
}

// RemoveSpeaker is the organizer withdrawing an invitation. Removing an
// absent edge is a no-op.
func (s *invitationService) RemoveSpeaker(ctx context.Context, eventID, speakerEmail, callerEmail string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.CreatorEmail != callerEmail {
		return domain.ErrForbidden
	}
	if err := s.invitationRepo.DeleteByEventAndSpeaker(ctx, eventID, speakerEmail); err != nil {
		return fmt.Errorf("remove invitation: %w", err)
	}
	return nil
}

func (s *invitationService) ListBySpeaker(ctx context.Context, speakerEmail string) ([]*domain.SpeakerInvitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	invs, err := s.invitationRepo.ListBySpeaker(ctx, speakerEmail)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	out := make([]*domain.SpeakerInvitation, 0, len(invs))
	for _, inv := range invs {
		event, err := s.eventRepo.GetByID(ctx, inv.EventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get event %s: %w", inv.EventID, err)
		}
		out = append(out, &domain.SpeakerInvitation{Invitation: inv, Event: event})
	}
	return out, nil
}
