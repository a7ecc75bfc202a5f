package postgres

import (
	"context"
	"database/sql"
	"errors"

	"inviteticketing/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (name, date_time, location, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var dateTime sql.NullTime
	if e.DateTime != nil {
		dateTime = sql.NullTime{Time: *e.DateTime, Valid: true}
	}
	return r.DB.QueryRowContext(ctx, query, e.Name, dateTime, e.Location, e.CreatedAt).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT id, name, date_time, location, created_at
		FROM events
		WHERE id = $1
	`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	query := `
		SELECT id, name, date_time, location, created_at
		FROM events
		ORDER BY date_time DESC NULLS LAST, created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*domain.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var dateTime sql.NullTime
	if err := row.Scan(&e.ID, &e.Name, &dateTime, &e.Location, &e.CreatedAt); err != nil {
		return nil, err
	}
	if dateTime.Valid {
		e.DateTime = &dateTime.Time
	}
	return e, nil
}
