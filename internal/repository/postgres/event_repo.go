package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"eventhorizon/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{DB: db}
}

const eventColumns = `e.id, e.title, e.description, e.date, e.time, e.category, e.interest,
	e.creator_email, e.creator_name, e.creator_role, e.status, e.created_at, e.updated_at,
	v.name, v.url, v.address`

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	var role, status string
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Date, &e.Time, &e.Category, &e.Interest,
		&e.CreatorEmail, &e.CreatorName, &role, &status, &e.CreatedAt, &e.UpdatedAt,
		&e.Venue.Name, &e.Venue.URL, &e.Venue.Address,
	)
	if err != nil {
		return nil, err
	}
	e.CreatorRole = domain.Role(role)
	e.Status = domain.EventStatus(status)
	return e, nil
}

// Create persists the event and merges its venue inside one transaction,
// so the event and its venue association commit or roll back together.
func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	venueQuery := `
		INSERT INTO venues (name, url, address)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET
			url = CASE WHEN EXCLUDED.url <> '' THEN EXCLUDED.url ELSE venues.url END,
			address = CASE WHEN EXCLUDED.address <> '' THEN EXCLUDED.address ELSE venues.address END
	`
	if _, err := tx.ExecContext(ctx, venueQuery, e.Venue.Name, e.Venue.URL, e.Venue.Address); err != nil {
		return err
	}

	eventQuery := `
		INSERT INTO events (id, title, description, date, time, category, interest,
			creator_email, creator_name, creator_role, venue_name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	if _, err := tx.ExecContext(ctx, eventQuery,
		e.ID, e.Title, e.Description, e.Date, e.Time, e.Category, e.Interest,
		e.CreatorEmail, e.CreatorName, string(e.CreatorRole), e.Venue.Name,
		string(e.Status), e.CreatedAt, e.UpdatedAt,
	); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM events e
		JOIN venues v ON v.name = e.venue_name
		WHERE e.id = $1
	`, eventColumns)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) ListByCreator(ctx context.Context, creatorEmail string) ([]*domain.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM events e
		JOIN venues v ON v.name = e.venue_name
		WHERE e.creator_email = $1
		ORDER BY e.created_at DESC
	`, eventColumns)
	rows, err := r.DB.QueryContext(ctx, query, creatorEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, id string, upd domain.EventUpdate) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	n := 1
	add := func(col string, val *string) {
		if val != nil {
			setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, n))
			args = append(args, *val)
			n++
		}
	}
	add("title", upd.Title)
	add("description", upd.Description)
	add("date", upd.Date)
	add("time", upd.Time)
	add("category", upd.Category)
	add("interest", upd.Interest)
	if n == 1 {
		// No fields to update; just fetch current row
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE events e SET %s
		WHERE e.id = $%d
	`, strings.Join(setClauses, ", "), n)
	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *eventRepository) UpdateVenue(ctx context.Context, eventID string, upd domain.VenueUpdate) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	mergeQuery := `
		INSERT INTO venues (name, url, address)
		VALUES ($1, COALESCE($2, ''), COALESCE($3, ''))
		ON CONFLICT (name) DO UPDATE SET
			url = COALESCE($2, venues.url),
			address = COALESCE($3, venues.address)
	`
	if _, err := tx.ExecContext(ctx, mergeQuery, upd.Name, upd.URL, upd.Address); err != nil {
		return err
	}

	pointQuery := `UPDATE events SET venue_name = $2, updated_at = NOW() WHERE id = $1`
	result, err := tx.ExecContext(ctx, pointQuery, eventID, upd.Name)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit()
}

// UpdateStatusIf is the compare-and-set on the event's lifecycle field.
// Concurrent callers racing on the same transition see rows=0 and treat it
// as a no-op.
func (r *eventRepository) UpdateStatusIf(ctx context.Context, id string, from, to domain.EventStatus) (bool, error) {
	query := `
		UPDATE events SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`
	result, err := r.DB.ExecContext(ctx, query, id, string(from), string(to))
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *eventRepository) SetStatus(ctx context.Context, id string, status domain.EventStatus) error {
	query := `UPDATE events SET status = $2, updated_at = NOW() WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id, string(status))
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CancelIfNoInvitations cancels a still-PENDING event only when no
// invitation rows remain, in a single conditional statement so the
// re-evaluation after a rejection cannot race a concurrent acceptance.
func (r *eventRepository) CancelIfNoInvitations(ctx context.Context, eventID string) (bool, error) {
	query := `
		UPDATE events SET status = 'CANCELLED', updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING'
		  AND NOT EXISTS (SELECT 1 FROM event_invitations WHERE event_id = $1)
	`
	result, err := r.DB.ExecContext(ctx, query, eventID)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
