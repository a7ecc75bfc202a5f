package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"inviteticketing/internal/domain"
)

type webhookService struct {
	gateway domain.PaymentGateway
	dedup   domain.WebhookDedup
	tickets domain.TicketService
	logger  *slog.Logger
}

func NewWebhookService(
	gateway domain.PaymentGateway,
	dedup domain.WebhookDedup,
	tickets domain.TicketService,
	logger *slog.Logger,
) domain.WebhookService {
	return &webhookService{
		gateway: gateway,
		dedup:   dedup,
		tickets: tickets,
		logger:  logger,
	}
}

// HandlePaymentWebhook is safe under at-least-once delivery: the dedup store
// short-circuits known events and ticket issuance is keyed on the session id.
// Errors that a redelivery could fix are returned so the provider retries;
// metadata that can never produce a ticket is logged and acknowledged.
func (s *webhookService) HandlePaymentWebhook(ctx context.Context, payload []byte, signature string) (*domain.WebhookResult, error) {
	event, err := s.gateway.ParseWebhookEvent(payload, signature)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSignature) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	log := s.logger.With("event_id", event.ID, "event_type", event.Type)

	if event.Type != domain.PaymentEventCheckoutCompleted {
		log.DebugContext(ctx, "ignoring payment event")
		return &domain.WebhookResult{}, nil
	}

	seen, err := s.dedup.Seen(ctx, event.ID)
	if err != nil {
		log.WarnContext(ctx, "webhook dedup lookup failed", "err", err)
	}
	if seen {
		log.InfoContext(ctx, "payment event already processed")
		return &domain.WebhookResult{Handled: true, Duplicate: true}, nil
	}

	md := event.Metadata
	in := domain.IssueTicketInput{
		UserID:       md[domain.MetadataUserID],
		EventID:      md[domain.MetadataEventID],
		InvitationID: md[domain.MetadataInvitationID],
		SessionID:    event.SessionID,
		Email:        md[domain.MetadataEmail],
	}
	if in.UserID == "" || in.EventID == "" || in.InvitationID == "" || in.SessionID == "" {
		log.WarnContext(ctx, "checkout session is missing ticket metadata", "session_id", event.SessionID)
		return &domain.WebhookResult{}, nil
	}

	ticket, created, err := s.tickets.Issue(ctx, in)
	if err != nil {
		// Malformed ids or ids naming rows that do not exist fail the same way on every redelivery.
		if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrNotFound) {
			log.WarnContext(ctx, "checkout session carries unusable ticket metadata", "session_id", event.SessionID, "err", err)
			return &domain.WebhookResult{}, nil
		}
		return nil, fmt.Errorf("issue ticket: %w", err)
	}
	if err := s.dedup.Remember(ctx, event.ID); err != nil {
		log.WarnContext(ctx, "webhook dedup remember failed", "err", err)
	}
	log.InfoContext(ctx, "ticket issued from checkout", "ticket_id", ticket.ID, "created", created)
	return &domain.WebhookResult{Handled: true, Duplicate: !created, Ticket: ticket}, nil
}
