package postgres

import (
	"context"
	"database/sql"
	"errors"

	"inviteticketing/internal/domain"
)

type rsvpRepository struct {
	DB *sql.DB
}

func NewRSVPRepository(db *sql.DB) domain.RSVPRepository {
	return &rsvpRepository{
		DB: db,
	}
}

// Upsert keeps one RSVP per invitation; a resubmission overwrites the answers.
func (r *rsvpRepository) Upsert(ctx context.Context, rsvp *domain.RSVP) error {
	query := `
		INSERT INTO rsvps (invitation_id, consent, name, date_of_birth, phone, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (invitation_id) DO UPDATE
		SET consent = EXCLUDED.consent,
			name = EXCLUDED.name,
			date_of_birth = EXCLUDED.date_of_birth,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`
	return r.DB.QueryRowContext(ctx, query,
		rsvp.InvitationID, rsvp.Consent, rsvp.Name, rsvp.DateOfBirth, rsvp.Phone, rsvp.Email, rsvp.CreatedAt, rsvp.UpdatedAt,
	).Scan(&rsvp.ID, &rsvp.CreatedAt)
}

func (r *rsvpRepository) GetByInvitationID(ctx context.Context, invitationID string) (*domain.RSVP, error) {
	query := `
		SELECT id, invitation_id, consent, name, date_of_birth, phone, email, created_at, updated_at
		FROM rsvps
		WHERE invitation_id = $1
	`
	rsvp := &domain.RSVP{}
	err := r.DB.QueryRowContext(ctx, query, invitationID).
		Scan(&rsvp.ID, &rsvp.InvitationID, &rsvp.Consent, &rsvp.Name, &rsvp.DateOfBirth, &rsvp.Phone, &rsvp.Email, &rsvp.CreatedAt, &rsvp.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rsvp, nil
}
