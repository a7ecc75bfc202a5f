package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"inviteticketing/internal/domain"
)

const minPasswordLen = 8

type authService struct {
	staffRepo domain.StaffRepository
	hasher    domain.PasswordHasher
	issuer    domain.TokenIssuer
	jwtExpiry time.Duration
	logger    *slog.Logger
}

// NewAuthService creates an AuthService for staff accounts.
func NewAuthService(
	staffRepo domain.StaffRepository,
	hasher domain.PasswordHasher,
	issuer domain.TokenIssuer,
	jwtExpiry time.Duration,
	logger *slog.Logger,
) domain.AuthService {
	return &authService{
		staffRepo: staffRepo,
		hasher:    hasher,
		issuer:    issuer,
		jwtExpiry: jwtExpiry,
		logger:    logger,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.Staff, error) {
	email, ok := normalizeEmail(email)
	if !ok || password == "" {
		return "", nil, domain.ErrUnauthorized
	}
	staff, err := s.staffRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrUnauthorized
		}
		return "", nil, fmt.Errorf("get staff: %w", err)
	}
	if err := s.hasher.Compare(staff.PasswordHash, staff.Salt, password); err != nil {
		s.logger.WarnContext(ctx, "staff login failed", "staff_id", staff.ID)
		return "", nil, domain.ErrUnauthorized
	}
	token, err := s.issuer.Issue(staff.ID, staff.Email, []string{domain.RoleStaff}, s.jwtExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, staff, nil
}

func (s *authService) EnsureStaff(ctx context.Context, email, password string) error {
	email, ok := normalizeEmail(email)
	var invalid []string
	if !ok {
		invalid = append(invalid, "email")
	}
	if len(password) < minPasswordLen {
		invalid = append(invalid, "password")
	}
	if len(invalid) > 0 {
		return domain.NewValidationError(invalid...)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return err
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return err
	}
	staff := &domain.Staff{
		Email:        email,
		PasswordHash: hash,
		Salt:         salt,
		CreatedAt:    time.Now(),
	}
	if err := s.staffRepo.Upsert(ctx, staff); err != nil {
		return fmt.Errorf("upsert staff: %w", err)
	}
	s.logger.InfoContext(ctx, "staff account ensured", "staff_id", staff.ID)
	return nil
}
