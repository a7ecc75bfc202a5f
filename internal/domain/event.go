package domain

import (
	"context"
	"time"
)

// Event is the occasion invitations and tickets are issued for.
// swagger:model Event
type Event struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	DateTime  *time.Time `json:"date_time"`
	Location  string     `json:"location"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewEvent returns a new Event with the given fields. ID is typically set by the repository on create.
func NewEvent(name string, dateTime *time.Time, location string, createdAt time.Time) *Event {
	return &Event{
		Name:      name,
		DateTime:  dateTime,
		Location:  location,
		CreatedAt: createdAt,
	}
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
}

// EventService defines admin operations on events.
type EventService interface {
	CreateEvent(ctx context.Context, name string, dateTime *time.Time, location string) (*Event, error)
	GetEvent(ctx context.Context, id string) (*Event, error)
	ListEvents(ctx context.Context) ([]*Event, error)
}
