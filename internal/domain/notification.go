package domain

import (
	"context"
	"time"
)

// NotificationType distinguishes what a notification is about.
type NotificationType string

const (
	NotificationInvitation NotificationType = "INVITATION"
)

// Notification is an in-app record informing a user of a lifecycle event.
// Created as a side effect after the primary state change commits; the
// only mutation afterwards is flipping IsRead.
// swagger:model Notification
type Notification struct {
	ID             string           `json:"id"`
	Type           NotificationType `json:"type"`
	Message        string           `json:"message"`
	EventID        string           `json:"event_id"`
	RecipientEmail string           `json:"recipient_email"`
	IsRead         bool             `json:"is_read"`
	CreatedAt      time.Time        `json:"created_at"`
}

// NotificationRepository defines storage for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	// MarkRead is idempotent. ErrNotFound when the id does not exist.
	MarkRead(ctx context.Context, id string) error
	ListByRecipient(ctx context.Context, recipientEmail string, params PaginationParams) ([]*Notification, int, error)
	UnreadCount(ctx context.Context, recipientEmail string) (int, error)
}

// Notifier is the dispatcher boundary consumed by the lifecycle services.
// It produces user-visible notifications and never mutates lifecycle state.
type Notifier interface {
	Notify(ctx context.Context, recipientEmail string, typ NotificationType, message, eventID string) (*Notification, error)
}

// NotificationService is the user-facing side of the dispatcher.
type NotificationService interface {
	Notifier
	MarkRead(ctx context.Context, id string) error
	ListByRecipient(ctx context.Context, recipientEmail string, params PaginationParams) ([]*Notification, int, error)
	UnreadCount(ctx context.Context, recipientEmail string) (int, error)
}
