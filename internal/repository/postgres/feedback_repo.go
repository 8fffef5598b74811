package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventhorizon/internal/domain"
)

type feedbackRepository struct {
	DB *sql.DB
}

func NewFeedbackRepository(db *sql.DB) domain.FeedbackRepository {
	return &feedbackRepository{DB: db}
}

func (r *feedbackRepository) CreateEventFeedback(ctx context.Context, f *domain.EventFeedback) error {
	query := `
		INSERT INTO event_feedback (id, event_id, attendee_email, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.DB.ExecContext(ctx, query, f.ID, f.EventID, f.AttendeeEmail, f.Rating, f.Comment, f.CreatedAt)
	return err
}

func (r *feedbackRepository) CreateVenueFeedback(ctx context.Context, f *domain.VenueFeedback) error {
	query := `
		INSERT INTO venue_feedback (id, venue_name, attendee_email, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.DB.ExecContext(ctx, query, f.ID, f.VenueName, f.AttendeeEmail, f.Rating, f.Comment, f.CreatedAt)
	return err
}

// CreateSpeakerFeedback carries its speaker-association guard inside the
// insert: the row is written only when the speaker holds an invitation
// edge for the event, closing the check-then-act window.
func (r *feedbackRepository) CreateSpeakerFeedback(ctx context.Context, f *domain.SpeakerFeedback) (bool, error) {
	query := `
		INSERT INTO speaker_feedback (id, speaker_email, event_id, attendee_email, rating, comment, created_at)
		SELECT $1, $2, $3, $4, $5, $6, $7
		WHERE EXISTS (
			SELECT 1 FROM event_invitations
			WHERE event_id = $3 AND speaker_email = $2
		)
		RETURNING id
	`
	var id string
	err := r.DB.QueryRowContext(ctx, query,
		f.ID, f.SpeakerEmail, f.EventID, f.AttendeeEmail, f.Rating, f.Comment, f.CreatedAt,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *feedbackRepository) ListEventFeedbackWithAttendee(ctx context.Context, eventID string) ([]*domain.EventFeedbackDetail, error) {
	query := `
		SELECT f.id, f.event_id, f.attendee_email, f.rating, f.comment, f.created_at, COALESCE(u.name, '')
		FROM event_feedback f
		LEFT JOIN users u ON u.email = f.attendee_email
		WHERE f.event_id = $1
		ORDER BY f.created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]*domain.EventFeedbackDetail, 0)
	for rows.Next() {
		f := &domain.EventFeedback{}
		var name string
		if err := rows.Scan(&f.ID, &f.EventID, &f.AttendeeEmail, &f.Rating, &f.Comment, &f.CreatedAt, &name); err != nil {
			return nil, err
		}
		details = append(details, &domain.EventFeedbackDetail{Feedback: f, AttendeeName: name})
	}
	return details, rows.Err()
}

func (r *feedbackRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.EventFeedback, error) {
	query := `
		SELECT id, event_id, attendee_email, rating, comment, created_at
		FROM event_feedback
		WHERE event_id = $1
		ORDER BY created_at DESC
	`
	return r.listEventFeedback(ctx, query, eventID)
}

func (r *feedbackRepository) ListByAttendee(ctx context.Context, attendeeEmail string) ([]*domain.EventFeedback, error) {
	query := `
		SELECT id, event_id, attendee_email, rating, comment, created_at
		FROM event_feedback
		WHERE attendee_email = $1
		ORDER BY created_at DESC
	`
	return r.listEventFeedback(ctx, query, attendeeEmail)
}

func (r *feedbackRepository) listEventFeedback(ctx context.Context, query string, arg any) ([]*domain.EventFeedback, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	feedback := make([]*domain.EventFeedback, 0)
	for rows.Next() {
		f := &domain.EventFeedback{}
		if err := rows.Scan(&f.ID, &f.EventID, &f.AttendeeEmail, &f.Rating, &f.Comment, &f.CreatedAt); err != nil {
			return nil, err
		}
		feedback = append(feedback, f)
	}
	return feedback, rows.Err()
}

func (r *feedbackRepository) ListByVenue(ctx context.Context, venueName string) ([]*domain.VenueFeedback, error) {
	query := `
		SELECT id, venue_name, attendee_email, rating, comment, created_at
		FROM venue_feedback
		WHERE venue_name = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, venueName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	feedback := make([]*domain.VenueFeedback, 0)
	for rows.Next() {
		f := &domain.VenueFeedback{}
		if err := rows.Scan(&f.ID, &f.VenueName, &f.AttendeeEmail, &f.Rating, &f.Comment, &f.CreatedAt); err != nil {
			return nil, err
		}
		feedback = append(feedback, f)
	}
	return feedback, rows.Err()
}

func (r *feedbackRepository) ListBySpeaker(ctx context.Context, speakerEmail string) ([]*domain.SpeakerFeedback, error) {
	query := `
		SELECT id, speaker_email, event_id, attendee_email, rating, comment, created_at
		FROM speaker_feedback
		WHERE speaker_email = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, speakerEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	feedback := make([]*domain.SpeakerFeedback, 0)
	for rows.Next() {
		f := &domain.SpeakerFeedback{}
		if err := rows.Scan(&f.ID, &f.SpeakerEmail, &f.EventID, &f.AttendeeEmail, &f.Rating, &f.Comment, &f.CreatedAt); err != nil {
			return nil, err
		}
		feedback = append(feedback, f)
	}
	return feedback, rows.Err()
}
