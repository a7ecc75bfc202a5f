package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"inviteticketing/internal/domain"
)

type checkoutService struct {
	gateway        domain.PaymentGateway
	invitationRepo domain.InvitationRepository
	rsvpRepo       domain.RSVPRepository
	userRepo       domain.UserRepository
	priceID        string
	baseURL        string
	contextTimeout time.Duration
}

func NewCheckoutService(
	gateway domain.PaymentGateway,
	invitationRepo domain.InvitationRepository,
	rsvpRepo domain.RSVPRepository,
	userRepo domain.UserRepository,
	priceID, baseURL string,
	timeout time.Duration,
) domain.CheckoutService {
	return &checkoutService{
		gateway:        gateway,
		invitationRepo: invitationRepo,
		rsvpRepo:       rsvpRepo,
		userRepo:       userRepo,
		priceID:        priceID,
		baseURL:        baseURL,
		contextTimeout: timeout,
	}
}

func (s *checkoutService) CreateSession(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutSession, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	if missing := req.Missing(); len(missing) > 0 {
		return nil, domain.NewValidationError(missing...)
	}
	if s.priceID == "" {
		return nil, domain.ErrPaymentNotConfigured
	}

	inv := url.PathEscape(req.InvitationID)
	cs, err := s.gateway.CreateCheckoutSession(ctx, domain.CheckoutSessionParams{
		PriceID:       s.priceID,
		CustomerEmail: req.Email,
		// {CHECKOUT_SESSION_ID} is substituted by the payment provider.
		SuccessURL: fmt.Sprintf("%s/stripe/success/%s?session_id={CHECKOUT_SESSION_ID}", s.baseURL, inv),
		CancelURL:  fmt.Sprintf("%s/stripe/cancel/%s", s.baseURL, inv),
		Metadata:   req.Metadata(),
	})
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return cs, nil
}

func (s *checkoutService) CreateForInvitation(ctx context.Context, invitationID string) (*domain.CheckoutSession, error) {
	if !isUUID(invitationID) {
		return nil, domain.NewValidationError("invitation_id")
	}
	inv, err := s.invitationRepo.GetByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	if inv.Used {
		return nil, domain.ErrInvitationUsed
	}
	rsvp, err := s.rsvpRepo.GetByInvitationID(ctx, inv.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get rsvp: %w", err)
	}
	user, err := s.userRepo.GetByEmail(ctx, rsvp.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return s.CreateSession(ctx, domain.CheckoutRequest{
		InvitationID: inv.ID,
		RSVPID:       rsvp.ID,
		UserID:       user.ID,
		Email:        user.Email,
		EventID:      inv.EventID,
	})
}
