package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"eventhorizon/internal/domain"
)

type userRepository struct {
	DB *sql.DB
}

// NewUserRepository returns a domain.UserRepository implemented with Postgres.
func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (email, name, password_hash, role, age, contact_no, skills, interests,
			designation, affiliation, expertise, country_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		u.Email, u.Name, u.PasswordHash, string(u.Role), u.Age, u.ContactNo,
		pq.Array(u.Skills), pq.Array(u.Interests),
		u.Designation, u.Affiliation, u.Expertise, u.CountryCode,
		u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, name, password_hash, role, age, contact_no, skills, interests,
			designation, affiliation, expertise, country_code, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	u := &domain.User{}
	var role string
	err := r.DB.QueryRowContext(ctx, query, email).Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &role, &u.Age, &u.ContactNo,
		pq.Array(&u.Skills), pq.Array(&u.Interests),
		&u.Designation, &u.Affiliation, &u.Expertise, &u.CountryCode,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	u.Role = domain.Role(role)
	return u, nil
}

func (r *userRepository) ListSpeakers(ctx context.Context) ([]*domain.User, error) {
	query := `
		SELECT id, email, name, role, age, contact_no, skills, interests,
			designation, affiliation, expertise, country_code, created_at, updated_at
		FROM users
		WHERE role = 'speaker'
		ORDER BY name
	`
	rows, err := r.DB.QueryContext(ctx, query)
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
			pq.Array(&u.Skills), pq.Array(&u.Interests),
			&u.Designation, &u.Affiliation, &u.Expertise, &u.CountryCode,
			&u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		u.Role = domain.Role(role)
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) SetResetChallenge(ctx context.Context, email, codeHash string, expiresAt time.Time) error {
	query := `
		UPDATE users
		SET reset_code_hash = $2, reset_expires_at = $3, updated_at = NOW()
		WHERE email = $1
	`
	result, err := r.DB.ExecContext(ctx, query, email, codeHash, expiresAt)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) GetResetChallenge(ctx context.Context, email string) (*domain.ResetChallenge, error) {
	query := `
		SELECT reset_code_hash, reset_expires_at
		FROM users
		WHERE email = $1
	`
	var codeHash sql.NullString
	var expiresAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, email).Scan(&codeHash, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if !codeHash.Valid || !expiresAt.Valid {
		return nil, nil
	}
	return &domain.ResetChallenge{
		CodeHash:  codeHash.String,
		ExpiresAt: expiresAt.Time,
	}, nil
}

func (r *userRepository) UpdatePasswordAndClearChallenge(ctx context.Context, email, passwordHash string) error {
	// Password write and challenge clear happen in the same statement so a
	// half-applied state is never observable.
	query := `
		UPDATE users
		SET password_hash = $2, reset_code_hash = NULL, reset_expires_at = NULL, updated_at = NOW()
		WHERE email = $1
	`
	result, err := r.DB.ExecContext(ctx, query, email, passwordHash)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
