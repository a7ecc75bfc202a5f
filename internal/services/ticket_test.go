package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inviteticketing/internal/domain"
)

const (
	otherEventID = "0f1e2d3c-4b5a-4978-8695-a4b3c2d1e0f9"
	testUserID   = "3c9a1e57-6b2d-4f80-a1c4-7e5d9b2f0a63"
)

type ticketFixture struct {
	tickets  *mockTicketRepository
	invs     *mockInvitationRepository
	users    *mockUserRepository
	email    *mockEmailService
	exporter *mockExporter
	qr       mockQRRenderer
}

func newTicketFixture() *ticketFixture {
	users := newMockUserRepository(&domain.User{ID: testUserID, Name: "Alice", Email: "alice@example.com"})
	return &ticketFixture{
		tickets:  newMockTicketRepository(users),
		invs:     newMockInvitationRepository(openInvitation(false)),
		users:    users,
		email:    &mockEmailService{},
		exporter: &mockExporter{},
	}
}

func (f *ticketFixture) service(singleUse bool) domain.TicketService {
	events := newMockEventRepository(&domain.Event{ID: testEventID, Name: "Summer Gala"})
	return NewTicketService(f.tickets, f.invs, f.users, events, f.email, f.qr, f.exporter,
		TicketServiceConfig{EventID: testEventID, BaseURL: testBaseURL, SingleUse: singleUse}, discardLogger())
}

func issueInput() domain.IssueTicketInput {
	return domain.IssueTicketInput{
		UserID:       testUserID,
		EventID:      testEventID,
		InvitationID: testInvitationID,
		SessionID:    "cs_test_1",
	}
}

func TestTicketService_Issue(t *testing.T) {
	ctx := context.Background()

	t.Run("issues and delivers once", func(t *testing.T) {
		f := newTicketFixture()
		svc := f.service(false)

		ticket, created, err := svc.Issue(ctx, issueInput())
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEmpty(t, ticket.TicketCode)
		assert.NotNil(t, ticket.DeliveredAt)
		assert.True(t, f.invs.get(testInvitationID).Used)

		require.Len(t, f.email.tickets, 1)
		sent := f.email.tickets[0]
		assert.Equal(t, "alice@example.com", sent.Email)
		assert.Equal(t, "Alice", sent.Name)
		assert.Equal(t, "Summer Gala", sent.EventName)
		assert.Equal(t, TicketURL(testBaseURL, ticket.TicketCode), sent.TicketURL)
		assert.Equal(t, []byte("png:"+sent.TicketURL), sent.QRCodePNG)

		again, created, err := svc.Issue(ctx, issueInput())
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, ticket.ID, again.ID)
		assert.Equal(t, ticket.TicketCode, again.TicketCode)
		assert.Equal(t, 1, f.tickets.count())
		assert.Len(t, f.email.tickets, 1)
	})

	t.Run("metadata email wins over profile email", func(t *testing.T) {
		f := newTicketFixture()
		in := issueInput()
		in.Email = "billing@example.com"
		_, _, err := f.service(false).Issue(ctx, in)
		require.NoError(t, err)
		require.Len(t, f.email.tickets, 1)
		assert.Equal(t, "billing@example.com", f.email.tickets[0].Email)
	})

	t.Run("failed delivery is retried on redelivery", func(t *testing.T) {
		f := newTicketFixture()
		svc := f.service(false)
		f.email.err = errBoom

		ticket, created, err := svc.Issue(ctx, issueInput())
		require.ErrorIs(t, err, errBoom)
		assert.True(t, created)
		assert.Nil(t, ticket.DeliveredAt)
		assert.True(t, f.invs.get(testInvitationID).Used)

		f.email.err = nil
		again, created, err := svc.Issue(ctx, issueInput())
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, ticket.ID, again.ID)
		assert.NotNil(t, again.DeliveredAt)
		assert.Len(t, f.email.tickets, 1)
	})

	t.Run("insert failure leaves invitation unused", func(t *testing.T) {
		f := newTicketFixture()
		f.tickets.createErr = errBoom

		_, _, err := f.service(false).Issue(ctx, issueInput())
		require.ErrorIs(t, err, errBoom)
		assert.False(t, f.invs.get(testInvitationID).Used)
		assert.Empty(t, f.email.tickets)
	})

	t.Run("qr failure is reported", func(t *testing.T) {
		f := newTicketFixture()
		f.qr = mockQRRenderer{err: errBoom}

		_, created, err := f.service(false).Issue(ctx, issueInput())
		require.ErrorIs(t, err, errBoom)
		assert.True(t, created)
		assert.Empty(t, f.email.tickets)
	})

	t.Run("missing identifiers", func(t *testing.T) {
		f := newTicketFixture()
		_, _, err := f.service(false).Issue(ctx, domain.IssueTicketInput{UserID: testUserID, SessionID: "cs_1"})

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"event_id", "invitation_id"}, verr.Fields)
		assert.Equal(t, 0, f.tickets.count())
	})

	t.Run("malformed identifiers", func(t *testing.T) {
		tests := []struct {
			name   string
			modify func(in *domain.IssueTicketInput)
			field  string
		}{
			{"user_id", func(in *domain.IssueTicketInput) { in.UserID = "user-1" }, "user_id"},
			{"event_id", func(in *domain.IssueTicketInput) { in.EventID = "not-a-uuid" }, "event_id"},
			{"invitation_id", func(in *domain.IssueTicketInput) { in.InvitationID = "not-a-uuid" }, "invitation_id"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newTicketFixture()
				in := issueInput()
				tt.modify(&in)

				_, _, err := f.service(false).Issue(ctx, in)
				var verr *domain.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, []string{tt.field}, verr.Fields)
				assert.Equal(t, 0, f.tickets.count())
				assert.False(t, f.invs.get(testInvitationID).Used)
			})
		}
	})

	t.Run("concurrent redeliveries send one email", func(t *testing.T) {
		f := newTicketFixture()
		svc := f.service(false)

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _, err := svc.Issue(ctx, issueInput())
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, f.tickets.count())
		assert.Len(t, f.email.tickets, 1)
	})
}

func TestTicketService_Verify(t *testing.T) {
	ctx := context.Background()

	issue := func(t *testing.T, f *ticketFixture, svc domain.TicketService, eventID string) *domain.Ticket {
		t.Helper()
		in := issueInput()
		in.EventID = eventID
		ticket, _, err := svc.Issue(ctx, in)
		require.NoError(t, err)
		return ticket
	}

	t.Run("valid ticket", func(t *testing.T) {
		f := newTicketFixture()
		svc := f.service(false)
		ticket := issue(t, f, svc, testEventID)

		res, err := svc.Verify(ctx, ticket.TicketCode)
		require.NoError(t, err)
		assert.True(t, res.Valid)
		assert.Equal(t, "Alice", res.Name)
		assert.Empty(t, res.Reason)
	})

	t.Run("multi-entry accepts repeated scans", func(t *testing.T) {
		f := newTicketFixture()
		svc := f.service(false)
		ticket := issue(t, f, svc, testEventID)

		for i := 0; i < 3; i++ {
			res, err := svc.Verify(ctx, ticket.TicketCode)
			require.NoError(t, err)
			assert.True(t, res.Valid)
		}
	})

	t.Run("single-use rejects second scan", func(t *testing.T) {
		f := newTicketFixture()
		svc := f.service(true)
		ticket := issue(t, f, svc, testEventID)

		first, err := svc.Verify(ctx, ticket.TicketCode)
		require.NoError(t, err)
		assert.True(t, first.Valid)

		second, err := svc.Verify(ctx, ticket.TicketCode)
		require.NoError(t, err)
		assert.False(t, second.Valid)
		assert.Equal(t, ReasonAlreadyRedeemed, second.Reason)
		assert.Equal(t, "Alice", second.Name)
	})

	t.Run("wrong event", func(t *testing.T) {
		f := newTicketFixture()
		svc := f.service(false)
		ticket := issue(t, f, svc, otherEventID)

		res, err := svc.Verify(ctx, ticket.TicketCode)
		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.Equal(t, ReasonWrongEvent, res.Reason)
		assert.Empty(t, res.Name)
	})

	t.Run("event id compared case-insensitively", func(t *testing.T) {
		f := newTicketFixture()
		ticket := issue(t, f, f.service(false), testEventID)

		events := newMockEventRepository(&domain.Event{ID: testEventID, Name: "Summer Gala"})
		upper := NewTicketService(f.tickets, f.invs, f.users, events, f.email, f.qr, f.exporter,
			TicketServiceConfig{EventID: strings.ToUpper(testEventID), BaseURL: testBaseURL}, discardLogger())

		res, err := upper.Verify(ctx, ticket.TicketCode)
		require.NoError(t, err)
		assert.True(t, res.Valid)
	})

	t.Run("unknown code", func(t *testing.T) {
		f := newTicketFixture()
		_, err := f.service(false).Verify(ctx, "nope")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("blank code", func(t *testing.T) {
		f := newTicketFixture()
		_, err := f.service(false).Verify(ctx, "  ")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestTicketService_RenderQRAndExport(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture()
	svc := f.service(false)
	ticket, _, err := svc.Issue(ctx, issueInput())
	require.NoError(t, err)

	png, err := svc.RenderQR(ctx, ticket.TicketCode)
	require.NoError(t, err)
	assert.Equal(t, []byte("png:"+TicketURL(testBaseURL, ticket.TicketCode)), png)

	_, err = svc.RenderQR(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)

	tickets, total, err := svc.ListTickets(ctx, domain.PaginationParams{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, tickets, 1)
	assert.Equal(t, "alice@example.com", tickets[0].HolderEmail)

	data, err := svc.ExportTickets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx"), data)
	require.NotNil(t, f.exporter.event)
	assert.Equal(t, "Summer Gala", f.exporter.event.Name)
	assert.Len(t, f.exporter.tickets, 1)
}

func TestTicketURL(t *testing.T) {
	assert.Equal(t, "https://tickets.example.com/tickets/a%2Fb", TicketURL(testBaseURL, "a/b"))
}
