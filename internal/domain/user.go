package domain

import (
	"context"
	"time"
)

// User is the ticket holder profile created from an RSVP. Email is the identity key.
// swagger:model User
type User struct {
	ID          string    `json:"id"`
	RSVPID      string    `json:"rsvp_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	DateOfBirth time.Time `json:"date_of_birth"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is typically set by the repository on upsert.
func NewUser(rsvpID, name, email, phone string, dateOfBirth, createdAt, updatedAt time.Time) *User {
	return &User{
		RSVPID:      rsvpID,
		Name:        name,
		Email:       email,
		Phone:       phone,
		DateOfBirth: dateOfBirth,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	// UpsertByEmail inserts the user or updates the row with the same email, and sets ID.
	UpsertByEmail(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
