package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"inviteticketing/internal/domain"
)

const ticketColumns = `t.id, t.user_id, t.event_id, t.invitation_id, t.session_id, t.ticket_code, t.issued_at, t.redeemed_at, t.delivered_at`

type ticketRepository struct {
	DB *sql.DB
}

func NewTicketRepository(db *sql.DB) domain.TicketRepository {
	return &ticketRepository{
		DB: db,
	}
}

// CreateForSession inserts at most one ticket per checkout session. When the
// session already has a ticket the stored row is loaded into t. A user, event
// or invitation that does not exist is reported as domain.ErrNotFound.
func (r *ticketRepository) CreateForSession(ctx context.Context, t *domain.Ticket) (bool, error) {
	query := `
		INSERT INTO tickets (user_id, event_id, invitation_id, session_id, ticket_code, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (session_id) DO NOTHING
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, t.UserID, t.EventID, t.InvitationID, t.SessionID, t.TicketCode, t.IssuedAt).
		Scan(&t.ID)
	if err == nil {
		return true, nil
	}
	if isForeignKeyViolation(err) {
		return false, domain.ErrNotFound
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}

	existing, err := scanTicket(r.DB.QueryRowContext(ctx,
		`SELECT `+ticketColumns+` FROM tickets t WHERE t.session_id = $1`, t.SessionID))
	if err != nil {
		return false, err
	}
	*t = *existing
	return false, nil
}

func (r *ticketRepository) GetByCode(ctx context.Context, code string) (*domain.TicketWithHolder, error) {
	query := `
		SELECT ` + ticketColumns + `, u.name, u.email
		FROM tickets t
		JOIN users u ON u.id = t.user_id
		WHERE t.ticket_code = $1
	`
	tw, err := scanTicketWithHolder(r.DB.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return tw, nil
}

func (r *ticketRepository) Redeem(ctx context.Context, id string, at time.Time) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE tickets SET redeemed_at = $2 WHERE id = $1 AND redeemed_at IS NULL`, id, at)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *ticketRepository) ClaimDelivery(ctx context.Context, id string, at time.Time) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE tickets SET delivered_at = $2 WHERE id = $1 AND delivered_at IS NULL`, id, at)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *ticketRepository) ReleaseDelivery(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE tickets SET delivered_at = NULL WHERE id = $1`, id)
	return err
}

func (r *ticketRepository) ListByEventID(ctx context.Context, eventID string, params domain.PaginationParams) ([]*domain.TicketWithHolder, int, error) {
	query := `
		SELECT ` + ticketColumns + `, u.name, u.email, COUNT(*) OVER() AS total
		FROM tickets t
		JOIN users u ON u.id = t.user_id
		WHERE t.event_id = $1
		ORDER BY t.issued_at DESC
		LIMIT $2 OFFSET $3
	`
	limit := any(params.PageSize)
	if params.PageSize <= 0 {
		limit = nil
	}
	rows, err := r.DB.QueryContext(ctx, query, eventID, limit, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tickets := []*domain.TicketWithHolder{}
	total := 0
	for rows.Next() {
		tw := &domain.TicketWithHolder{}
		var redeemed, delivered sql.NullTime
		if err := rows.Scan(&tw.ID, &tw.UserID, &tw.EventID, &tw.InvitationID, &tw.SessionID, &tw.TicketCode,
			&tw.IssuedAt, &redeemed, &delivered, &tw.HolderName, &tw.HolderEmail, &total); err != nil {
			return nil, 0, err
		}
		tw.RedeemedAt = timePtr(redeemed)
		tw.DeliveredAt = timePtr(delivered)
		tickets = append(tickets, tw)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	t := &domain.Ticket{}
	var redeemed, delivered sql.NullTime
	if err := row.Scan(&t.ID, &t.UserID, &t.EventID, &t.InvitationID, &t.SessionID, &t.TicketCode,
		&t.IssuedAt, &redeemed, &delivered); err != nil {
		return nil, err
	}
	t.RedeemedAt = timePtr(redeemed)
	t.DeliveredAt = timePtr(delivered)
	return t, nil
}

func scanTicketWithHolder(row rowScanner) (*domain.TicketWithHolder, error) {
	tw := &domain.TicketWithHolder{}
	var redeemed, delivered sql.NullTime
	if err := row.Scan(&tw.ID, &tw.UserID, &tw.EventID, &tw.InvitationID, &tw.SessionID, &tw.TicketCode,
		&tw.IssuedAt, &redeemed, &delivered, &tw.HolderName, &tw.HolderEmail); err != nil {
		return nil, err
	}
	tw.RedeemedAt = timePtr(redeemed)
	tw.DeliveredAt = timePtr(delivered)
	return tw, nil
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
