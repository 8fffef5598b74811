package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"eventhorizon/internal/domain"
)

type eventRegistrationRepository struct {
	DB *sql.DB
}

func NewEventRegistrationRepository(db *sql.DB) domain.EventRegistrationRepository {
	return &eventRegistrationRepository{DB: db}
}

// Create inserts the registration. The duplicate-registration guard is the
// insert itself rather than a separate read, so two concurrent attempts
// cannot both succeed.
func (r *eventRegistrationRepository) Create(ctx context.Context, reg *domain.EventRegistration) error {
	query := `
		INSERT INTO event_registrations (id, event_id, attendee_email, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id, attendee_email) DO NOTHING
		RETURNING id
	`
	var id string
	err := r.DB.QueryRowContext(ctx, query, reg.ID, reg.EventID, reg.AttendeeEmail, reg.CreatedAt).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrAlreadyRegistered
		}
		return err
	}
	return nil
}

// Delete removes the edge; removing an absent edge is a no-op, not an error.
func (r *eventRegistrationRepository) Delete(ctx context.Context, eventID, attendeeEmail string) error {
	query := `DELETE FROM event_registrations WHERE event_id = $1 AND attendee_email = $2`
	_, err := r.DB.ExecContext(ctx, query, eventID, attendeeEmail)
	return err
}

func (r *eventRegistrationRepository) ListByAttendee(ctx context.Context, attendeeEmail string) ([]*domain.EventRegistration, error) {
	query := `
		SELECT id, event_id, attendee_email, created_at
		FROM event_registrations
		WHERE attendee_email = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, attendeeEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := make([]*domain.EventRegistration, 0)
	for rows.Next() {
		reg := &domain.EventRegistration{}
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.AttendeeEmail, &reg.CreatedAt); err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

func (r *eventRegistrationRepository) ListAttendeesByEventID(ctx context.Context, eventID string) ([]*domain.User, error) {
	query := `
		SELECT u.id, u.email, u.name, u.role, u.age, u.contact_no, u.skills, u.interests, u.country_code
		FROM event_registrations reg
		JOIN users u ON u.email = reg.attendee_email
		WHERE reg.event_id = $1
		ORDER BY reg.created_at
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		u := &domain.User{}
		var role string
		if err := rows.Scan(
			&u.ID, &u.Email, &u.Name, &role, &u.Age, &u.ContactNo,
			pq.Array(&u.Skills), pq.Array(&u.Interests), &u.CountryCode,
		); err != nil {
			return nil, err
		}
		u.Role = domain.Role(role)
		users = append(users, u)
	}
	return users, rows.Err()
}
