package domain

import (
	"context"
	"strings"
	"time"
)

// placeholderEmailSuffix marks invitations opened from a public link before
// the invitee has entered an email address.
const placeholderEmailSuffix = "@example.invalid"

// Invitation grants one recipient the right to RSVP and buy a ticket for an event.
// swagger:model Invitation
type Invitation struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Used      bool      `json:"used"`
	CreatedAt time.Time `json:"created_at"`
}

// HasPlaceholderEmail reports whether the invitation still carries the
// generated address used by open invitations.
func (i *Invitation) HasPlaceholderEmail() bool {
	return IsPlaceholderEmail(i.Email)
}

// IsPlaceholderEmail reports whether email is a generated placeholder address.
func IsPlaceholderEmail(email string) bool {
	return strings.HasSuffix(strings.ToLower(email), placeholderEmailSuffix)
}

// PlaceholderEmail builds the placeholder address for an open invitation.
func PlaceholderEmail(token string) string {
	return "pending+" + token + placeholderEmailSuffix
}

// InvitationRepository defines storage operations for invitations.
type InvitationRepository interface {
	// Upsert inserts the invitation or, when one already exists for (event_id, email),
	// loads it into inv. created reports whether a new row was inserted.
	Upsert(ctx context.Context, inv *Invitation) (created bool, err error)
	Create(ctx context.Context, inv *Invitation) error
	GetByID(ctx context.Context, id string) (*Invitation, error)
	// BindContact sets email and phone on an unused invitation.
	BindContact(ctx context.Context, id, email string, phone *string) error
	MarkUsed(ctx context.Context, id string) error
	ListByEventID(ctx context.Context, eventID, search string, params PaginationParams) ([]*Invitation, int, error)
}

// SendInvitationResult reports the stored invitation and which notifications went out.
type SendInvitationResult struct {
	Invitation *Invitation `json:"invitation"`
	Created    bool        `json:"created"`
	EmailSent  bool        `json:"email_sent"`
	SMSSent    bool        `json:"sms_sent"`
}

// InvitationService defines invitation issuance and lookup.
type InvitationService interface {
	// SendInvitation creates or reuses the invitation for email and notifies the recipient.
	SendInvitation(ctx context.Context, email, phone string) (*SendInvitationResult, error)
	GetInvitation(ctx context.Context, id string) (*Invitation, error)
	ListInvitations(ctx context.Context, search string, params PaginationParams) ([]*Invitation, int, error)
	// OpenInvitation creates an invitation with a placeholder email for a public RSVP link.
	OpenInvitation(ctx context.Context, eventID string) (*Invitation, error)
}
