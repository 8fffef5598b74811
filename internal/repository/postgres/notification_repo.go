package postgres

import (
	"context"
	"database/sql"

	"eventhorizon/internal/domain"
)

type notificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepository(db *sql.DB) domain.NotificationRepository {
	return &notificationRepository{DB: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, type, message, event_id, recipient_email, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.DB.ExecContext(ctx, query,
		n.ID, string(n.Type), n.Message, n.EventID, n.RecipientEmail, n.IsRead, n.CreatedAt,
	)
	return err
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientEmail string, params domain.PaginationParams) ([]*domain.Notification, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM notifications WHERE recipient_email = $1`
	if err := r.DB.QueryRowContext(ctx, countQuery, recipientEmail).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, type, message, event_id, recipient_email, is_read, created_at
		FROM notifications
		WHERE recipient_email = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, recipientEmail, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	notifications := make([]*domain.Notification, 0)
	for rows.Next() {
		n := &domain.Notification{}
		var typ string
		if err := rows.Scan(&n.ID, &typ, &n.Message, &n.EventID, &n.RecipientEmail, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, 0, err
		}
		n.Type = domain.NotificationType(typ)
		notifications = append(notifications, n)
	}
	return notifications, total, rows.Err()
}

func (r *notificationRepository) UnreadCount(ctx context.Context, recipientEmail string) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE recipient_email = $1 AND is_read = FALSE`
	var count int
	if err := r.DB.QueryRowContext(ctx, query, recipientEmail).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
