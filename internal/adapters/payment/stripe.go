package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"

	"inviteticketing/internal/domain"
)

// StripeConfig holds the credentials for the hosted checkout.
type StripeConfig struct {
	SecretKey      string
	WebhookSecret  string
	PaymentMethods []string
}

// sessionCreator is the subset of the Stripe checkout session client the gateway uses.
type sessionCreator interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type stripeGateway struct {
	sessions       sessionCreator
	webhookSecret  string
	paymentMethods []string
}

// NewStripeGateway returns a PaymentGateway backed by Stripe Checkout.
func NewStripeGateway(cfg StripeConfig) domain.PaymentGateway {
	sc := &client.API{}
	sc.Init(cfg.SecretKey, nil)
	return &stripeGateway{
		sessions:       sc.CheckoutSessions,
		webhookSecret:  cfg.WebhookSecret,
		paymentMethods: cfg.PaymentMethods,
	}
}

func (g *stripeGateway) CreateCheckoutSession(ctx context.Context, p domain.CheckoutSessionParams) (*domain.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Price:    stripe.String(p.PriceID),
			Quantity: stripe.Int64(1),
		}},
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
	}
	params.Context = ctx
	if len(g.paymentMethods) > 0 {
		params.PaymentMethodTypes = stripe.StringSlice(g.paymentMethods)
	}
	if p.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(p.CustomerEmail)
	}
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	s, err := g.sessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create stripe checkout session: %w", err)
	}
	return &domain.CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

// ParseWebhookEvent checks the Stripe-Signature header and decodes the event.
// Only checkout sessions are decoded further; other types carry just ID and Type.
func (g *stripeGateway) ParseWebhookEvent(payload []byte, signature string) (*domain.PaymentEvent, error) {
	if g.webhookSecret == "" {
		return nil, fmt.Errorf("%w: webhook secret not configured", domain.ErrInvalidSignature)
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}

	out := &domain.PaymentEvent{
		ID:   event.ID,
		Type: string(event.Type),
	}
	if out.Type != domain.PaymentEventCheckoutCompleted {
		return out, nil
	}
	if event.Data == nil {
		return nil, errors.New("checkout event has no data")
	}
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}
	out.SessionID = session.ID
	out.Metadata = session.Metadata
	return out, nil
}
