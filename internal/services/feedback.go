package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"eventhorizon/internal/domain"
)

type feedbackService struct {
	feedbackRepo   domain.FeedbackRepository
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

// NewFeedbackService creates a FeedbackService over feedback and event storage.
func NewFeedbackService(
	feedbackRepo domain.FeedbackRepository,
	eventRepo domain.EventRepository,
	timeout time.Duration,
) domain.FeedbackService {
	return &feedbackService{
		feedbackRepo:   feedbackRepo,
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

func (s *feedbackService) SubmitEventFeedback(ctx context.Context, eventID, attendeeEmail string, rating int, comment string) (*domain.EventFeedback, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !domain.ValidRating(rating) {
		return nil, domain.ErrInvalidInput
	}
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	f := &domain.EventFeedback{
		ID:            uuid.NewString(),
		EventID:       eventID,
		AttendeeEmail: attendeeEmail,
		Rating:        rating,
		Comment:       comment,
		CreatedAt:     time.Now(),
	}
	if err := s.feedbackRepo.CreateEventFeedback(ctx, f); err != nil {
		return nil, fmt.Errorf("create event feedback: %w", err)
	}
	return f, nil
}

func (s *feedbackService) SubmitVenueFeedback(ctx context.Context, venueName, attendeeEmail string, rating int, comment string) (*domain.VenueFeedback, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if venueName == "" || !domain.ValidRating(rating) {
		return nil, domain.ErrInvalidInput
	}
	f := &domain.VenueFeedback{
		ID:            uuid.NewString(),
		VenueName:     venueName,
		AttendeeEmail: attendeeEmail,
		Rating:        rating,
		Comment:       comment,
		CreatedAt:     time.Now(),
	}
	if err := s.feedbackRepo.CreateVenueFeedback(ctx, f); err != nil {
		return nil, fmt.Errorf("create venue feedback: %w", err)
	}
	return f, nil
}

// SubmitSpeakerFeedback stores the feedback only when the speaker is
// associated with the event; the association guard runs inside the insert,
// so a concurrent invitation removal cannot slip a row past it.
func (s *feedbackService) SubmitSpeakerFeedback(ctx context.Context, speakerEmail, eventID, attendeeEmail string, rating int, comment string) (*domain.SpeakerFeedback, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if speakerEmail == "" || !domain.ValidRating(rating) {
		return nil, domain.ErrInvalidInput
	}
	f := &domain.SpeakerFeedback{
		ID:            uuid.NewString(),
		SpeakerEmail:  speakerEmail,
		EventID:       eventID,
		AttendeeEmail: attendeeEmail,
		Rating:        rating,
		Comment:       comment,
		CreatedAt:     time.Now(),
	}
	created, err := s.feedbackRepo.CreateSpeakerFeedback(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("create speaker feedback: %w", err)
	}
	if !created {
		return nil, domain.ErrNotFound
	}
	return f, nil
}

// EventFeedbackForOrganizer returns feedback with attendee names for the
// event's creator only. A non-creator gets ErrForbidden even when the
// event has no feedback.
func (s *feedbackService) EventFeedbackForOrganizer(ctx context.Context, eventID, callerEmail string) ([]*domain.EventFeedbackDetail, error) {
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
	details, err := s.feedbackRepo.ListEventFeedbackWithAttendee(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event feedback: %w", err)
	}
	return details, nil
}

func (s *feedbackService) ListEventFeedback(ctx context.Context, eventID string) ([]*domain.EventFeedback, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.feedbackRepo.ListByEvent(ctx, eventID)
}

func (s *feedbackService) ListVenueFeedback(ctx context.Context, venueName string) ([]*domain.VenueFeedback, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.feedbackRepo.ListByVenue(ctx, venueName)
}

func (s *feedbackService) ListSpeakerFeedback(ctx context.Context, speakerEmail string) ([]*domain.SpeakerFeedback, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.feedbackRepo.ListBySpeaker(ctx, speakerEmail)
}

func (s *feedbackService) ListMyFeedback(ctx context.Context, attendeeEmail string) ([]*domain.EventFeedback, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.feedbackRepo.ListByAttendee(ctx, attendeeEmail)
}
