package domain

import "context"

// PaymentEventCheckoutCompleted is the only payment event type that issues tickets.
const PaymentEventCheckoutCompleted = "checkout.session.completed"

// Checkout session metadata keys. The webhook reads back exactly these keys.
const (
	MetadataInvitationID = "invitation_id"
	MetadataRSVPID       = "rsvp_id"
	MetadataUserID       = "user_id"
	MetadataEmail        = "email"
	MetadataEventID      = "event_id"
)

// CheckoutRequest identifies the purchase a checkout session is created for.
type CheckoutRequest struct {
	InvitationID string
	RSVPID       string
	UserID       string
	Email        string
	EventID      string
}

// Metadata returns the identifiers embedded into the hosted checkout session.
func (r CheckoutRequest) Metadata() map[string]string {
	return map[string]string{
		MetadataInvitationID: r.InvitationID,
		MetadataRSVPID:       r.RSVPID,
		MetadataUserID:       r.UserID,
		MetadataEmail:        r.Email,
		MetadataEventID:      r.EventID,
	}
}

// Missing returns the names of empty fields.
func (r CheckoutRequest) Missing() []string {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"invitation_id", r.InvitationID},
		{"rsvp_id", r.RSVPID},
		{"user_id", r.UserID},
		{"email", r.Email},
		{"event_id", r.EventID},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// CheckoutSessionParams is what the payment gateway needs to open a hosted checkout.
type CheckoutSessionParams struct {
	PriceID       string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// CheckoutSession is the hosted payment handle the client redirects to.
// swagger:model CheckoutSession
type CheckoutSession struct {
	ID  string `json:"session_id"`
	URL string `json:"checkout_url"`
}

// PaymentEvent is a verified notification from the payment provider.
type PaymentEvent struct {
	ID        string
	Type      string
	SessionID string
	Metadata  map[string]string
}

// PaymentGateway is the hosted payment provider port.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error)
	// ParseWebhookEvent verifies signature over payload and decodes the event.
	// It returns ErrInvalidSignature when verification fails.
	ParseWebhookEvent(payload []byte, signature string) (*PaymentEvent, error)
}

// WebhookDedup remembers provider event ids that were fully processed.
type WebhookDedup interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Remember(ctx context.Context, eventID string) error
}

// CheckoutService opens hosted checkout sessions.
type CheckoutService interface {
	CreateSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	// CreateForInvitation re-derives the request from the stored RSVP and user.
	CreateForInvitation(ctx context.Context, invitationID string) (*CheckoutSession, error)
}

// WebhookResult reports what a webhook delivery did.
type WebhookResult struct {
	Handled   bool    `json:"handled"`
	Duplicate bool    `json:"duplicate"`
	Ticket    *Ticket `json:"ticket,omitempty"`
}

// WebhookService handles payment provider notifications.
type WebhookService interface {
	HandlePaymentWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error)
}
