package postgres

import (
	"context"
	"database/sql"
	"errors"

	"inviteticketing/internal/domain"
)

type invitationRepository struct {
	DB *sql.DB
}

func NewInvitationRepository(db *sql.DB) domain.InvitationRepository {
	return &invitationRepository{
		DB: db,
	}
}

// Upsert relies on the (event_id, email) unique constraint so concurrent sends
// for the same recipient converge on one row. xmax = 0 only for freshly inserted tuples.
func (r *invitationRepository) Upsert(ctx context.Context, inv *domain.Invitation) (bool, error) {
	query := `
		INSERT INTO invitations (event_id, email, phone, used, created_at)
		VALUES ($1, $2, $3, FALSE, $4)
		ON CONFLICT (event_id, email) DO UPDATE
		SET phone = COALESCE(EXCLUDED.phone, invitations.phone)
		RETURNING id, phone, used, created_at, (xmax = 0) AS inserted
	`
	var phone sql.NullString
	var inserted bool
	err := r.DB.QueryRowContext(ctx, query, inv.EventID, inv.Email, nullString(inv.Phone), inv.CreatedAt).
		Scan(&inv.ID, &phone, &inv.Used, &inv.CreatedAt, &inserted)
	if err != nil {
		return false, err
	}
	inv.Phone = stringPtr(phone)
	return inserted, nil
}

func (r *invitationRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	query := `
		INSERT INTO invitations (event_id, email, phone, used, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, inv.EventID, inv.Email, nullString(inv.Phone), inv.Used, inv.CreatedAt).
		Scan(&inv.ID)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateEmail
	}
	return err
}

func (r *invitationRepository) GetByID(ctx context.Context, id string) (*domain.Invitation, error) {
	query := `
		SELECT id, event_id, email, phone, used, created_at
		FROM invitations
		WHERE id = $1
	`
	inv, err := scanInvitation(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *invitationRepository) BindContact(ctx context.Context, id, email string, phone *string) error {
	query := `
		UPDATE invitations
		SET email = $2, phone = COALESCE($3, phone)
		WHERE id = $1 AND used = FALSE
	`
	res, err := r.DB.ExecContext(ctx, query, id, email, nullString(phone))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrInvitationUsed
	}
	return nil
}

func (r *invitationRepository) MarkUsed(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE invitations SET used = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *invitationRepository) ListByEventID(ctx context.Context, eventID, search string, params domain.PaginationParams) ([]*domain.Invitation, int, error) {
	query := `
		SELECT id, event_id, email, phone, used, created_at, COUNT(*) OVER() AS total
		FROM invitations
		WHERE event_id = $1 AND ($2 = '' OR email ILIKE '%' || $2 || '%')
		ORDER BY email ASC, created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID, search, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	invs := []*domain.Invitation{}
	total := 0
	for rows.Next() {
		inv := &domain.Invitation{}
		var phone sql.NullString
		if err := rows.Scan(&inv.ID, &inv.EventID, &inv.Email, &phone, &inv.Used, &inv.CreatedAt, &total); err != nil {
			return nil, 0, err
		}
		inv.Phone = stringPtr(phone)
		invs = append(invs, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return invs, total, nil
}

func scanInvitation(row rowScanner) (*domain.Invitation, error) {
	inv := &domain.Invitation{}
	var phone sql.NullString
	if err := row.Scan(&inv.ID, &inv.EventID, &inv.Email, &phone, &inv.Used, &inv.CreatedAt); err != nil {
		return nil, err
	}
	inv.Phone = stringPtr(phone)
	return inv, nil
}

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
