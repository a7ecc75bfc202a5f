package domain

import (
	"context"
	"time"
)

// RSVP is an invitee's confirmation submission tied to exactly one invitation.
// swagger:model RSVP
type RSVP struct {
	ID           string    `json:"id"`
	InvitationID string    `json:"invitation_id"`
	Consent      bool      `json:"consent"`
	Name         string    `json:"name"`
	DateOfBirth  time.Time `json:"date_of_birth"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RSVPRepository defines storage operations for RSVPs.
type RSVPRepository interface {
	// Upsert inserts or updates the RSVP keyed by invitation_id and sets ID and CreatedAt.
	Upsert(ctx context.Context, rsvp *RSVP) error
	GetByInvitationID(ctx context.Context, invitationID string) (*RSVP, error)
}

// SubmitRSVPInput is the RSVP submitted against an existing invitation.
type SubmitRSVPInput struct {
	InvitationID string
	Consent      bool
	Name         string
	Birthdate    string // YYYY-MM-DD
	Phone        string
	Email        string // optional override of the invitation email
}

// PublicRSVPInput is a self-registration without a prior invitation.
type PublicRSVPInput struct {
	Consent   bool
	Name      string
	Birthdate string
	Phone     string
	Email     string
}

// RSVPOutcome bundles the records written by an RSVP and the checkout it started.
type RSVPOutcome struct {
	Invitation *Invitation      `json:"invitation"`
	RSVP       *RSVP            `json:"rsvp"`
	User       *User            `json:"user"`
	Checkout   *CheckoutSession `json:"checkout"`
}

// RSVPService records RSVPs and hands the invitee over to payment.
type RSVPService interface {
	Submit(ctx context.Context, in SubmitRSVPInput) (*RSVPOutcome, error)
	SubmitPublic(ctx context.Context, in PublicRSVPInput) (*RSVPOutcome, error)
}
