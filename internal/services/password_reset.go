package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"regexp"
	"time"

	"eventhorizon/internal/domain"
)

const (
	resetCodeDigits     = 6
	resetCodeExpiryMins = 15
)

var resetCodeRegexp = regexp.MustCompile(`^\d{6}$`)

type passwordResetService struct {
	userRepo       domain.UserRepository
	hasher         domain.PasswordHasher
	emailService   domain.EmailService
	logger         *slog.Logger
	now            func() time.Time
	contextTimeout time.Duration
}

// NewPasswordResetService creates the reset-code flow over the user repository.
func NewPasswordResetService(
	userRepo domain.UserRepository,
	hasher domain.PasswordHasher,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.PasswordResetService {
	return &passwordResetService{
		userRepo:       userRepo,
		hasher:         hasher,
		emailService:   emailService,
		logger:         logger,
		now:            time.Now,
		contextTimeout: timeout,
	}
}

// Initiate stores a fresh code and mails it. The return value is always true
// so callers cannot probe which addresses have accounts; internal failures
// are logged and swallowed.
func (s *passwordResetService) Initiate(ctx context.Context, email string) bool {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	code, err := generateResetCode(resetCodeDigits)
	if err != nil {
		s.logger.Error("generate reset code failed", "error", err)
		return true
	}
	expiresAt := s.now().Add(resetCodeExpiryMins * time.Minute)
	if err := s.userRepo.SetResetChallenge(ctx, email, hashResetCode(code), expiresAt); err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Error("store reset challenge failed", "error", err)
		}
		return true
	}
	data := &domain.ResetCodeEmailData{
		Email:            email,
		Code:             code,
		ExpiresInMinutes: resetCodeExpiryMins,
	}
	if err := s.emailService.SendResetCode(ctx, data); err != nil {
		s.logger.Error("reset code email failed", "to", email, "error", err)
	}
	return true
}

// VerifyCode checks the code without consuming it, so a client can verify
// before collecting the new password.
func (s *passwordResetService) VerifyCode(ctx context.Context, email, code string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !resetCodeRegexp.MatchString(code) {
		return domain.ErrCodeMismatch
	}
	challenge, err := s.userRepo.GetResetChallenge(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrNoResetRequested
		}
		return fmt.Errorf("get reset challenge: %w", err)
	}
	if challenge == nil {
		return domain.ErrNoResetRequested
	}
	if challenge.Expired(s.now()) {
		return domain.ErrCodeExpired
	}
	if challenge.CodeHash != hashResetCode(code) {
		return domain.ErrCodeMismatch
	}
	return nil
}

// UpdatePassword writes the new hash and clears the challenge in one step.
// An expired or absent challenge leaves the password untouched.
func (s *passwordResetService) UpdatePassword(ctx context.Context, email, newPassword string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if len(newPassword) < minPasswordLength {
		return domain.ErrInvalidInput
	}
	challenge, err := s.userRepo.GetResetChallenge(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrNoResetRequested
		}
		return fmt.Errorf("get reset challenge: %w", err)
	}
	if challenge == nil {
		return domain.ErrNoResetRequested
	}
	if challenge.Expired(s.now()) {
		return domain.ErrCodeExpired
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.userRepo.UpdatePasswordAndClearChallenge(ctx, email, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func generateResetCode(digits int) (string, error) {
	max := big.NewInt(10)
	b := make([]byte, digits)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = byte('0' + n.Int64())
	}
	return string(b), nil
}

func hashResetCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
