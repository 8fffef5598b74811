package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"eventhorizon/internal/domain"
)

type attendeeService struct {
	registrationRepo domain.EventRegistrationRepository
	eventRepo        domain.EventRepository
	contextTimeout   time.Duration
}

// NewAttendeeService creates an AttendeeService over registrations and events.
func NewAttendeeService(
	registrationRepo domain.EventRegistrationRepository,
	eventRepo domain.EventRepository,
	timeout time.Duration,
) domain.AttendeeService {
	return &attendeeService{
		registrationRepo: registrationRepo,
		eventRepo:        eventRepo,
		contextTimeout:   timeout,
	}
}

// Register records the attendee's intent to attend. The duplicate guard
// lives inside the insert, so two concurrent registrations for the same
// pair resolve to one row and one ErrAlreadyRegistered.
func (s *attendeeService) Register(ctx context.Context, eventID, attendeeEmail string) (*domain.EventRegistration, error) {
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

	reg := &domain.EventRegistration{
		ID:            uuid.NewString(),
		EventID:       eventID,
		AttendeeEmail: attendeeEmail,
		CreatedAt:     time.Now(),
	}
	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		if errors.Is(err, domain.ErrAlreadyRegistered) {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}
	return reg, nil
}

// CancelRegistration removes the edge. Cancelling an absent registration
// succeeds, so retries are harmless.
func (s *attendeeService) CancelRegistration(ctx context.Context, eventID, attendeeEmail string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.registrationRepo.Delete(ctx, eventID, attendeeEmail); err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	return nil
}

func (s *attendeeService) ListMyEvents(ctx context.Context, attendeeEmail string) ([]*domain.RegisteredEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	regs, err := s.registrationRepo.ListByAttendee(ctx, attendeeEmail)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	out := make([]*domain.RegisteredEvent, 0, len(regs))
	for _, reg := range regs {
		event, err := s.eventRepo.GetByID(ctx, reg.EventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get event %s: %w", reg.EventID, err)
		}
		out = append(out, &domain.RegisteredEvent{Registration: reg, Event: event})
	}
	return out, nil
}

func (s *attendeeService) ListRegisteredAttendees(ctx context.Context, eventID string) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	attendees, err := s.registrationRepo.ListAttendeesByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	if attendees == nil {
		attendees = []*domain.User{}
	}
	return attendees, nil
}
