package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"inviteticketing/internal/domain"
)

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

// UpsertByEmail treats email as the identity key: a second RSVP with the same
// address refreshes the profile instead of creating another holder.
func (r *userRepository) UpsertByEmail(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (rsvp_id, name, email, phone, date_of_birth, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (email) DO UPDATE
		SET rsvp_id = COALESCE(EXCLUDED.rsvp_id, users.rsvp_id),
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			date_of_birth = COALESCE(EXCLUDED.date_of_birth, users.date_of_birth),
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`
	return r.DB.QueryRowContext(ctx, query,
		nullString(&u.RSVPID), u.Name, u.Email, u.Phone, nullTime(u.DateOfBirth), u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID, &u.CreatedAt)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, rsvp_id, name, email, phone, date_of_birth, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return r.get(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, rsvp_id, name, email, phone, date_of_birth, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return r.get(ctx, query, email)
}

func (r *userRepository) get(ctx context.Context, query string, arg any) (*domain.User, error) {
	u := &domain.User{}
	var rsvpID sql.NullString
	var dob sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &rsvpID, &u.Name, &u.Email, &u.Phone, &dob, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	u.RSVPID = rsvpID.String
	if dob.Valid {
		u.DateOfBirth = dob.Time
	}
	return u, nil
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
