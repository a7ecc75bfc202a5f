package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inviteticketing/internal/domain"
)

const testInvitationID = "5f2b7c3e-9d4a-4e1b-8c6f-2a1d3e4f5a6b"

type rsvpFixture struct {
	invs    *mockInvitationRepository
	rsvps   *mockRSVPRepository
	users   *mockUserRepository
	gateway *mockGateway
	svc     domain.RSVPService
}

func newRSVPFixture(invs ...*domain.Invitation) *rsvpFixture {
	f := &rsvpFixture{
		invs:    newMockInvitationRepository(invs...),
		rsvps:   newMockRSVPRepository(),
		users:   newMockUserRepository(),
		gateway: &mockGateway{},
	}
	checkout := NewCheckoutService(f.gateway, f.invs, f.rsvps, f.users, "price_123", testBaseURL, 0)
	f.svc = NewRSVPService(f.invs, f.rsvps, f.users, checkout, mockPhoneNormalizer{}, testEventID, time.Second)
	return f
}

func openInvitation(used bool) *domain.Invitation {
	return &domain.Invitation{ID: testInvitationID, EventID: testEventID, Email: "alice@example.com", Used: used}
}

func TestRSVPService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("records rsvp, user and starts checkout", func(t *testing.T) {
		f := newRSVPFixture(openInvitation(false))
		out, err := f.svc.Submit(ctx, domain.SubmitRSVPInput{
			InvitationID: testInvitationID,
			Consent:      true,
			Name:         " Alice ",
			Birthdate:    "1990-05-17",
			Phone:        "079 123 45 67",
		})
		require.NoError(t, err)

		assert.Equal(t, "Alice", out.RSVP.Name)
		assert.True(t, out.RSVP.Consent)
		assert.Equal(t, "alice@example.com", out.RSVP.Email)
		assert.Equal(t, time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC), out.RSVP.DateOfBirth)
		assert.Equal(t, out.RSVP.ID, out.User.RSVPID)
		assert.Equal(t, "+41791234567", out.User.Phone)
		require.NotNil(t, out.Checkout)

		require.Len(t, f.gateway.created, 1)
		md := f.gateway.created[0].Metadata
		assert.Equal(t, testInvitationID, md[domain.MetadataInvitationID])
		assert.Equal(t, out.RSVP.ID, md[domain.MetadataRSVPID])
		assert.Equal(t, out.User.ID, md[domain.MetadataUserID])
		assert.Equal(t, "alice@example.com", md[domain.MetadataEmail])
		assert.Equal(t, testEventID, md[domain.MetadataEventID])

		inv := f.invs.get(testInvitationID)
		require.NotNil(t, inv.Phone)
		assert.Equal(t, "+41791234567", *inv.Phone)
	})

	t.Run("consent defaults to false", func(t *testing.T) {
		f := newRSVPFixture(openInvitation(false))
		out, err := f.svc.Submit(ctx, domain.SubmitRSVPInput{InvitationID: testInvitationID, Name: "Alice", Birthdate: "1990-05-17"})
		require.NoError(t, err)
		assert.False(t, out.RSVP.Consent)
	})

	t.Run("resubmission keeps one rsvp", func(t *testing.T) {
		f := newRSVPFixture(openInvitation(false))
		in := domain.SubmitRSVPInput{InvitationID: testInvitationID, Name: "Alice", Birthdate: "1990-05-17"}
		first, err := f.svc.Submit(ctx, in)
		require.NoError(t, err)
		in.Name = "Alice Smith"
		second, err := f.svc.Submit(ctx, in)
		require.NoError(t, err)

		assert.Equal(t, first.RSVP.ID, second.RSVP.ID)
		assert.Equal(t, first.User.ID, second.User.ID)
		assert.Len(t, f.rsvps.byInvitation, 1)
		assert.Equal(t, "Alice Smith", f.rsvps.byInvitation[testInvitationID].Name)
	})

	t.Run("used invitation is rejected", func(t *testing.T) {
		f := newRSVPFixture(openInvitation(true))
		_, err := f.svc.Submit(ctx, domain.SubmitRSVPInput{InvitationID: testInvitationID, Name: "Alice", Birthdate: "1990-05-17"})
		require.ErrorIs(t, err, domain.ErrInvitationUsed)
		assert.Empty(t, f.rsvps.byInvitation)
	})

	t.Run("unknown invitation", func(t *testing.T) {
		f := newRSVPFixture()
		_, err := f.svc.Submit(ctx, domain.SubmitRSVPInput{InvitationID: testInvitationID, Name: "Alice", Birthdate: "1990-05-17"})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("email override binds the invitation", func(t *testing.T) {
		f := newRSVPFixture(openInvitation(false))
		out, err := f.svc.Submit(ctx, domain.SubmitRSVPInput{
			InvitationID: testInvitationID, Name: "Alice", Birthdate: "1990-05-17", Email: "Alice.Private@Example.org",
		})
		require.NoError(t, err)
		assert.Equal(t, "alice.private@example.org", out.User.Email)
		assert.Equal(t, "alice.private@example.org", f.invs.get(testInvitationID).Email)
	})

	t.Run("placeholder invitation needs a real email", func(t *testing.T) {
		inv := openInvitation(false)
		inv.Email = domain.PlaceholderEmail("abc")
		f := newRSVPFixture(inv)
		_, err := f.svc.Submit(ctx, domain.SubmitRSVPInput{InvitationID: testInvitationID, Name: "Bob", Birthdate: "1985-01-02"})

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"email"}, verr.Fields)
	})

	t.Run("checkout failure keeps rsvp and user", func(t *testing.T) {
		f := newRSVPFixture(openInvitation(false))
		f.gateway.err = errBoom
		out, err := f.svc.Submit(ctx, domain.SubmitRSVPInput{InvitationID: testInvitationID, Name: "Alice", Birthdate: "1990-05-17"})
		require.ErrorIs(t, err, errBoom)
		require.NotNil(t, out)
		assert.Nil(t, out.Checkout)
		assert.Len(t, f.rsvps.byInvitation, 1)
		assert.Len(t, f.users.byEmail, 1)
	})

	t.Run("validation lists every bad field", func(t *testing.T) {
		f := newRSVPFixture(openInvitation(false))
		_, err := f.svc.Submit(ctx, domain.SubmitRSVPInput{InvitationID: "inv-1", Birthdate: "17.05.1990", Phone: "abc"})

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"invitation_id", "name", "birthdate", "phone"}, verr.Fields)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("future birthdate", func(t *testing.T) {
		f := newRSVPFixture(openInvitation(false))
		future := time.Now().AddDate(1, 0, 0).Format("2006-01-02")
		_, err := f.svc.Submit(ctx, domain.SubmitRSVPInput{InvitationID: testInvitationID, Name: "Alice", Birthdate: future})
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestRSVPService_SubmitPublic(t *testing.T) {
	ctx := context.Background()
	valid := domain.PublicRSVPInput{
		Consent:   true,
		Name:      "Bob",
		Birthdate: "1985-01-02",
		Phone:     "+41780000000",
		Email:     "bob@example.com",
	}

	t.Run("creates invitation and starts checkout", func(t *testing.T) {
		f := newRSVPFixture()
		out, err := f.svc.SubmitPublic(ctx, valid)
		require.NoError(t, err)
		assert.Equal(t, testEventID, out.Invitation.EventID)
		assert.Equal(t, "bob@example.com", out.Invitation.Email)
		assert.Equal(t, out.Invitation.ID, out.RSVP.InvitationID)
		require.NotNil(t, out.Checkout)
		assert.Equal(t, 1, f.invs.count())
	})

	t.Run("reuses invitation for same email", func(t *testing.T) {
		f := newRSVPFixture()
		first, err := f.svc.SubmitPublic(ctx, valid)
		require.NoError(t, err)
		second, err := f.svc.SubmitPublic(ctx, valid)
		require.NoError(t, err)
		assert.Equal(t, first.Invitation.ID, second.Invitation.ID)
		assert.Equal(t, 1, f.invs.count())
		assert.Len(t, f.rsvps.byInvitation, 1)
	})

	t.Run("used invitation", func(t *testing.T) {
		f := newRSVPFixture(&domain.Invitation{ID: testInvitationID, EventID: testEventID, Email: "bob@example.com", Used: true})
		_, err := f.svc.SubmitPublic(ctx, valid)
		require.ErrorIs(t, err, domain.ErrInvitationUsed)
	})

	t.Run("email and phone are required", func(t *testing.T) {
		f := newRSVPFixture()
		_, err := f.svc.SubmitPublic(ctx, domain.PublicRSVPInput{Name: "Bob", Birthdate: "1985-01-02"})

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"phone", "email"}, verr.Fields)
		assert.Equal(t, 0, f.invs.count())
	})
}
