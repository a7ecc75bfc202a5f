package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inviteticketing/internal/domain"
)

// TestInvitationToDoor walks one guest from the invitation email to the door scan.
func TestInvitationToDoor(t *testing.T) {
	ctx := context.Background()

	events := newMockEventRepository(&domain.Event{ID: testEventID, Name: "Summer Gala"})
	invs := newMockInvitationRepository()
	rsvps := newMockRSVPRepository()
	users := newMockUserRepository()
	tickets := newMockTicketRepository(users)
	emails := &mockEmailService{}
	gateway := &mockGateway{}
	dedup := &mockDedup{}

	invitationSvc := NewInvitationService(invs, events, emails, &mockSMSSender{}, mockPhoneNormalizer{}, testEventID, testBaseURL, discardLogger(), time.Second)
	checkoutSvc := NewCheckoutService(gateway, invs, rsvps, users, "price_123", testBaseURL, time.Second)
	rsvpSvc := NewRSVPService(invs, rsvps, users, checkoutSvc, mockPhoneNormalizer{}, testEventID, time.Second)
	ticketSvc := NewTicketService(tickets, invs, users, events, emails, mockQRRenderer{}, &mockExporter{},
		TicketServiceConfig{EventID: testEventID, BaseURL: testBaseURL}, discardLogger())
	webhookSvc := NewWebhookService(gateway, dedup, ticketSvc, discardLogger())

	sent, err := invitationSvc.SendInvitation(ctx, "alice@example.com", "")
	require.NoError(t, err)
	invID := sent.Invitation.ID
	require.Len(t, emails.invitations, 1)
	assert.Equal(t, RSVPLink(testBaseURL, invID), emails.invitations[0].Link)

	out, err := rsvpSvc.Submit(ctx, domain.SubmitRSVPInput{
		InvitationID: invID,
		Consent:      true,
		Name:         "Alice",
		Birthdate:    "1990-05-17",
	})
	require.NoError(t, err)
	require.NotNil(t, out.Checkout)

	// The provider reports the completed session with the metadata it was given.
	gateway.event = &domain.PaymentEvent{
		ID:        "evt_alice",
		Type:      domain.PaymentEventCheckoutCompleted,
		SessionID: out.Checkout.ID,
		Metadata:  gateway.created[0].Metadata,
	}
	res, err := webhookSvc.HandlePaymentWebhook(ctx, []byte(`{}`), "valid")
	require.NoError(t, err)
	require.NotNil(t, res.Ticket)
	assert.True(t, invs.get(invID).Used)
	require.Len(t, emails.tickets, 1)
	assert.Equal(t, "alice@example.com", emails.tickets[0].Email)

	verdict, err := ticketSvc.Verify(ctx, res.Ticket.TicketCode)
	require.NoError(t, err)
	assert.Equal(t, &domain.VerificationResult{Valid: true, Name: "Alice", TicketID: res.Ticket.ID}, verdict)

	_, err = rsvpSvc.Submit(ctx, domain.SubmitRSVPInput{InvitationID: invID, Name: "Alice", Birthdate: "1990-05-17"})
	require.ErrorIs(t, err, domain.ErrInvitationUsed)
}
