package domain

import (
	"context"
	"time"
)

// RoleStaff is the only role carried by staff tokens.
const RoleStaff = "staff"

// Staff is an administrator or door-staff account.
type Staff struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated staff member.
type TokenIssuer interface {
	Issue(staffID, email string, roles []string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated staff ID.
type TokenVerifier interface {
	Verify(token string) (staffID string, err error)
}

// StaffRepository defines the interface for staff storage
type StaffRepository interface {
	// Upsert creates the account or replaces the credentials of the account with the same email.
	Upsert(ctx context.Context, s *Staff) error
	GetByEmail(ctx context.Context, email string) (*Staff, error)
}

// AuthService authenticates staff.
type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, staff *Staff, err error)
	// EnsureStaff creates or updates the account used to bootstrap the admin area.
	EnsureStaff(ctx context.Context, email, password string) error
}
