package domain

import (
	"context"
	"time"
)

// Ticket is proof of paid admission, identified by a unique code.
// swagger:model Ticket
type Ticket struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	EventID      string     `json:"event_id"`
	InvitationID string     `json:"invitation_id"`
	SessionID    string     `json:"session_id"`
	TicketCode   string     `json:"ticket_code"`
	IssuedAt     time.Time  `json:"issued_at"`
	RedeemedAt   *time.Time `json:"redeemed_at"`
	DeliveredAt  *time.Time `json:"delivered_at"`
}

// TicketWithHolder is a ticket joined with its holder's name and email.
// swagger:model TicketWithHolder
type TicketWithHolder struct {
	Ticket
	HolderName  string `json:"holder_name"`
	HolderEmail string `json:"holder_email"`
}

// TicketRepository defines storage operations for tickets.
type TicketRepository interface {
	// CreateForSession inserts the ticket unless one exists for its session_id.
	// When it exists, t is overwritten with the stored row and created is false.
	CreateForSession(ctx context.Context, t *Ticket) (created bool, err error)
	GetByCode(ctx context.Context, code string) (*TicketWithHolder, error)
	// Redeem sets redeemed_at only if it is still empty. ok is false when the ticket was already redeemed.
	Redeem(ctx context.Context, id string, at time.Time) (ok bool, err error)
	// ClaimDelivery sets delivered_at only if it is still empty. ok is false when
	// another delivery of the same ticket already holds the claim.
	ClaimDelivery(ctx context.Context, id string, at time.Time) (ok bool, err error)
	// ReleaseDelivery clears delivered_at after a failed send.
	ReleaseDelivery(ctx context.Context, id string) error
	ListByEventID(ctx context.Context, eventID string, params PaginationParams) ([]*TicketWithHolder, int, error)
}

// IssueTicketInput names the purchase a ticket is issued for.
type IssueTicketInput struct {
	UserID       string `json:"user_id"`
	EventID      string `json:"event_id"`
	InvitationID string `json:"invitation_id"`
	SessionID    string `json:"session_id"`
	Email        string `json:"email,omitempty"`
}

// VerificationResult is the outcome of scanning a ticket at the door.
// swagger:model VerificationResult
type VerificationResult struct {
	Valid    bool   `json:"valid"`
	Name     string `json:"name,omitempty"`
	Reason   string `json:"error,omitempty"`
	TicketID string `json:"ticket_id,omitempty"`
}

// TicketService issues, verifies and renders tickets.
type TicketService interface {
	// Issue creates the ticket for a paid session. Repeated calls for the same session
	// return the existing ticket with created=false and only finish missing delivery steps.
	Issue(ctx context.Context, in IssueTicketInput) (*Ticket, bool, error)
	Verify(ctx context.Context, code string) (*VerificationResult, error)
	GetTicket(ctx context.Context, code string) (*TicketWithHolder, error)
	RenderQR(ctx context.Context, code string) ([]byte, error)
	ListTickets(ctx context.Context, params PaginationParams) ([]*TicketWithHolder, int, error)
	ExportTickets(ctx context.Context) ([]byte, error)
}

// QRRenderer encodes content as a PNG QR code of size x size pixels.
type QRRenderer interface {
	PNG(content string, size int) ([]byte, error)
}

// TicketExporter writes tickets into a spreadsheet document.
type TicketExporter interface {
	Export(event *Event, tickets []*TicketWithHolder) ([]byte, error)
}
