package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"eventhorizon/internal/domain"
)

type notificationService struct {
	notificationRepo domain.NotificationRepository
	contextTimeout   time.Duration
}

// NewNotificationService creates a NotificationService backed by the given repository.
func NewNotificationService(notificationRepo domain.NotificationRepository, timeout time.Duration) domain.NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		contextTimeout:   timeout,
	}
}

// Notify creates an unread notification for the recipient. Callers invoke it
// only after their own state change has committed.
func (s *notificationService) Notify(ctx context.Context, recipientEmail string, typ domain.NotificationType, message, eventID string) (*domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if recipientEmail == "" || message == "" {
		return nil, domain.ErrInvalidInput
	}
	n := &domain.Notification{
		ID:             uuid.NewString(),
		Type:           typ,
		Message:        message,
		EventID:        eventID,
		RecipientEmail: recipientEmail,
		IsRead:         false,
		CreatedAt:      time.Now(),
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.notificationRepo.MarkRead(ctx, id)
}

func (s *notificationService) ListByRecipient(ctx context.Context, recipientEmail string, params domain.PaginationParams) ([]*domain.Notification, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	notifications, total, err := s.notificationRepo.ListByRecipient(ctx, recipientEmail, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	if notifications == nil {
		notifications = []*domain.Notification{}
	}
	return notifications, total, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, recipientEmail string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.notificationRepo.UnreadCount(ctx, recipientEmail)
}
