package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventhorizon/internal/domain"
)

type eventInvitationRepository struct {
	DB *sql.DB
}

func NewEventInvitationRepository(db *sql.DB) domain.EventInvitationRepository {
	return &eventInvitationRepository{DB: db}
}

// Create inserts the invitation. The duplicate-invitation guard is the
// insert itself: ON CONFLICT DO NOTHING returns no row for an existing
// (event_id, speaker_email) pair, which maps to ErrAlreadyInvited.
func (r *eventInvitationRepository) Create(ctx context.Context, inv *domain.EventInvitation) error {
	query := `
		INSERT INTO event_invitations (id, event_id, speaker_email, status, is_read, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (event_id, speaker_email) DO NOTHING
		RETURNING id
	`
	var id string
	err := r.DB.QueryRowContext(ctx, query,
		inv.ID, inv.EventID, inv.SpeakerEmail, string(inv.Status), inv.IsRead,
		inv.CreatedAt, inv.UpdatedAt,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrAlreadyInvited
		}
		return err
	}
	return nil
}

func (r *eventInvitationRepository) GetByID(ctx context.Context, id string) (*domain.EventInvitation, error) {
	query := `
		SELECT id, event_id, speaker_email, status, is_read, created_at, updated_at
		FROM event_invitations
		WHERE id = $1
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

// AcceptIfPending moves PENDING->ACCEPTED and marks the invitation read in
// one conditional write. No row in PENDING means the transition is not
// available (already terminal, or the id is unknown).
func (r *eventInvitationRepository) AcceptIfPending(ctx context.Context, id string) (*domain.EventInvitation, error) {
	query := `
		UPDATE event_invitations
		SET status = 'ACCEPTED', is_read = TRUE, updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING'
		RETURNING id, event_id, speaker_email, status, is_read, created_at, updated_at
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

// DeleteIfPending removes a PENDING invitation and returns the removed row
// so the caller can re-evaluate the event's status.
func (r *eventInvitationRepository) DeleteIfPending(ctx context.Context, id string) (*domain.EventInvitation, error) {
	query := `
		DELETE FROM event_invitations
		WHERE id = $1 AND status = 'PENDING'
		RETURNING id, event_id, speaker_email, status, is_read, created_at, updated_at
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *eventInvitationRepository) MarkRead(ctx context.Context, id string) error {
	query := `UPDATE event_invitations SET is_read = TRUE, updated_at = NOW() WHERE id = $1`
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

func (r *eventInvitationRepository) DeleteByEventAndSpeaker(ctx context.Context, eventID, speakerEmail string) error {
	query := `DELETE FROM event_invitations WHERE event_id = $1 AND speaker_email = $2`
	_, err := r.DB.ExecContext(ctx, query, eventID, speakerEmail)
	return err
}

func (r *eventInvitationRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.EventInvitation, error) {
	query := `
		SELECT id, event_id, speaker_email, status, is_read, created_at, updated_at
		FROM event_invitations
		WHERE event_id = $1
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, eventID)
}

func (r *eventInvitationRepository) ListBySpeaker(ctx context.Context, speakerEmail string) ([]*domain.EventInvitation, error) {
	query := `
		SELECT id, event_id, speaker_email, status, is_read, created_at, updated_at
		FROM event_invitations
		WHERE speaker_email = $1
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, speakerEmail)
}

func (r *eventInvitationRepository) scanOne(row *sql.Row) (*domain.EventInvitation, error) {
	inv := &domain.EventInvitation{}
	var status string
	err := row.Scan(&inv.ID, &inv.EventID, &inv.SpeakerEmail, &status, &inv.IsRead, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	inv.Status = domain.InvitationStatus(status)
	return inv, nil
}

func (r *eventInvitationRepository) list(ctx context.Context, query string, arg any) ([]*domain.EventInvitation, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invs := make([]*domain.EventInvitation, 0)
	for rows.Next() {
		inv := &domain.EventInvitation{}
		var status string
		if err := rows.Scan(&inv.ID, &inv.EventID, &inv.SpeakerEmail, &status, &inv.IsRead, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, err
		}
		inv.Status = domain.InvitationStatus(status)
		invs = append(invs, inv)
	}
	return invs, rows.Err()
}
