package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventhorizon/internal/domain"
)

type eventService struct {
	eventRepo         domain.EventRepository
	userRepo          domain.UserRepository
	invitationService domain.InvitationService
	logger            *slog.Logger
	contextTimeout    time.Duration
}

// NewEventService creates an EventService over the given repositories. The
// invitation service handles the per-speaker side effects of creation.
func NewEventService(
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	invitationService domain.InvitationService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:         eventRepo,
		userRepo:          userRepo,
		invitationService: invitationService,
		logger:            logger,
		contextTimeout:    timeout,
	}
}

// CreateEvent persists the event in PENDING, then tries to invite each
// requested speaker. The event commit never waits on invitations: speakers
// whose invitation could not be created or dispatched come back in
// failedInvites with a nil error.
func (s *eventService) CreateEvent(ctx context.Context, params domain.CreateEventParams) (*domain.Event, []string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if params.Title == "" || params.Description == "" || params.Date == "" || params.Time == "" ||
		params.Category == "" || params.Interest == "" || params.VenueName == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	// Any account may create an event; the creator's role is only snapshotted.
	creator, err := s.userRepo.GetByEmail(ctx, params.CreatorEmail)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, domain.ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("get creator: %w", err)
	}

	now := time.Now()
	event := &domain.Event{
		ID:           uuid.NewString(),
		Title:        params.Title,
		Description:  params.Description,
		Date:         params.Date,
		Time:         params.Time,
		Category:     params.Category,
		Interest:     params.Interest,
		CreatorEmail: creator.Email,
		CreatorName:  creator.Name,
		CreatorRole:  creator.Role,
		Venue: domain.Venue{
			Name:    params.VenueName,
			URL:     params.VenueURL,
			Address: params.VenueAddress,
		},
		Status:    domain.EventStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, nil, fmt.Errorf("create event: %w", err)
	}

	var failedInvites []string
	for _, speakerEmail := range params.SpeakerEmails {
		speakerEmail = strings.TrimSpace(strings.ToLower(speakerEmail))
		if speakerEmail == "" {
			continue
		}
		if _, err := s.invitationService.InviteSpeaker(ctx, event.ID, speakerEmail); err != nil {
			s.logger.Warn("speaker invitation failed", "event_id", event.ID, "speaker", speakerEmail, "error", err)
			failedInvites = append(failedInvites, speakerEmail)
		}
	}
	return event, failedInvites, nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListEventsByCreator(ctx context.Context, creatorEmail string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByCreator(ctx, creatorEmail)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

// UpdateEvent applies a partial edit. Only the creator may edit; nil fields
// keep their stored values.
func (s *eventService) UpdateEvent(ctx context.Context, eventID, callerEmail string, upd domain.EventUpdate, venue *domain.VenueUpdate) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.CreatorEmail != callerEmail {
		return nil, domain.ErrForbidden
	}

	if venue != nil {
		if venue.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		if err := s.eventRepo.UpdateVenue(ctx, eventID, *venue); err != nil {
			return nil, fmt.Errorf("update venue: %w", err)
		}
	}
	updated, err := s.eventRepo.Update(ctx, eventID, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

// CancelEvent is the organizer's unconditional cancel. Idempotent: cancelling
// a CANCELLED event succeeds without change.
func (s *eventService) CancelEvent(ctx context.Context, eventID, callerEmail string) error {
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
	if event.Status == domain.EventStatusCancelled {
		return nil
	}
	if err := s.eventRepo.SetStatus(ctx, eventID, domain.EventStatusCancelled); err != nil {
		return fmt.Errorf("cancel event: %w", err)
	}
	return nil
}
