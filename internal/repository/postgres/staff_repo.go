package postgres

import (
	"context"
	"database/sql"
	"errors"

	"inviteticketing/internal/domain"
)

type staffRepository struct {
	DB *sql.DB
}

// NewStaffRepository returns a domain.StaffRepository implemented with Postgres.
func NewStaffRepository(db *sql.DB) domain.StaffRepository {
	return &staffRepository{DB: db}
}

func (r *staffRepository) Upsert(ctx context.Context, s *domain.Staff) error {
	query := `
		INSERT INTO staff (email, password_hash, salt, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE
		SET password_hash = EXCLUDED.password_hash, salt = EXCLUDED.salt
		RETURNING id, created_at
	`
	return r.DB.QueryRowContext(ctx, query, s.Email, s.PasswordHash, s.Salt, s.CreatedAt).Scan(&s.ID, &s.CreatedAt)
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	query := `
		SELECT id, email, password_hash, salt, created_at
		FROM staff
		WHERE email = $1
	`
	s := &domain.Staff{}
	err := r.DB.QueryRowContext(ctx, query, email).Scan(&s.ID, &s.Email, &s.PasswordHash, &s.Salt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}
