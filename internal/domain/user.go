package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")
)

// Role tags a user account. All roles share the base record; role-specific
// fields are checked at the point of use rather than via separate shapes.
type Role string

const (
	RoleAttendee  Role = "attendee"
	RoleOrganizer Role = "organizer"
	RoleSpeaker   Role = "speaker"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAttendee, RoleOrganizer, RoleSpeaker:
		return true
	}
	return false
}

// User represents a registered account. Email is the external identifier.
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Age          int       `json:"age"`
	ContactNo    string    `json:"contact_no"`
	Skills       []string  `json:"skills"`
	Interests    []string  `json:"interests"`
	Designation  string    `json:"designation,omitempty"` // organizer only
	Affiliation  string    `json:"affiliation,omitempty"` // speaker only
	Expertise    string    `json:"expertise,omitempty"`   // speaker only
	CountryCode  string    `json:"country_code,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ResetChallenge is an account's outstanding password-reset code.
// At most one exists per account; issuing a new one overwrites it.
type ResetChallenge struct {
	CodeHash  string
	ExpiresAt time.Time
}

// Expired reports whether the challenge is past its expiry at the given time.
func (c ResetChallenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// PasswordHasher handles hashing and verification. Implementations may use
// bcrypt, argon2, etc.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(email string, role Role, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user's email.
type TokenVerifier interface {
	Verify(token string) (email string, err error)
}

// UserRepository defines the interface for account storage, including the
// reset-challenge columns that live on the account row.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	ListSpeakers(ctx context.Context) ([]*User, error)

	// SetResetChallenge overwrites the account's challenge fields in a
	// single write; any outstanding challenge is replaced.
	SetResetChallenge(ctx context.Context, email, codeHash string, expiresAt time.Time) error
	// GetResetChallenge returns the outstanding challenge, or nil when none.
	GetResetChallenge(ctx context.Context, email string) (*ResetChallenge, error)
	// UpdatePasswordAndClearChallenge writes the new hash and clears both
	// challenge fields in the same statement so a half-applied state is
	// never observable.
	UpdatePasswordAndClearChallenge(ctx context.Context, email, passwordHash string) error
}

// AuthService defines signup and login.
type AuthService interface {
	SignUp(ctx context.Context, params SignUpParams) (*User, error)
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
}

// SignUpParams carries the signup fields. Designation is required for
// organizers; affiliation and expertise for speakers.
type SignUpParams struct {
	Name        string
	Email       string
	Password    string
	Age         int
	Role        Role
	ContactNo   string
	Skills      []string
	Interests   []string
	Designation string
	Affiliation string
	Expertise   string
	CountryCode string
}

// PasswordResetService defines the time-bounded credential-reset flow.
type PasswordResetService interface {
	// Initiate always reports success: the response must not reveal
	// whether the account exists.
	Initiate(ctx context.Context, email string) bool
	// VerifyCode is read-only and repeatable until expiry or consumption.
	VerifyCode(ctx context.Context, email, code string) error
	// UpdatePassword consumes the outstanding challenge.
	UpdatePassword(ctx context.Context, email, newPassword string) error
}
