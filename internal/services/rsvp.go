package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"inviteticketing/internal/domain"
)

type rsvpService struct {
	invitationRepo domain.InvitationRepository
	rsvpRepo       domain.RSVPRepository
	userRepo       domain.UserRepository
	checkout       domain.CheckoutService
	phones         domain.PhoneNormalizer
	eventID        string
	contextTimeout time.Duration
}

func NewRSVPService(
	invitationRepo domain.InvitationRepository,
	rsvpRepo domain.RSVPRepository,
	userRepo domain.UserRepository,
	checkout domain.CheckoutService,
	phones domain.PhoneNormalizer,
	eventID string,
	timeout time.Duration,
) domain.RSVPService {
	return &rsvpService{
		invitationRepo: invitationRepo,
		rsvpRepo:       rsvpRepo,
		userRepo:       userRepo,
		checkout:       checkout,
		phones:         phones,
		eventID:        eventID,
		contextTimeout: timeout,
	}
}

// attendee is the validated personal data shared by both RSVP variants.
type attendee struct {
	consent bool
	name    string
	dob     time.Time
	phone   string
	email   string
}

// Submit records an RSVP against an existing invitation. A checkout failure is
// returned after the RSVP and user rows were written; resubmitting is safe.
func (s *rsvpService) Submit(ctx context.Context, in domain.SubmitRSVPInput) (*domain.RSVPOutcome, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	var invalid []string
	if !isUUID(strings.TrimSpace(in.InvitationID)) {
		invalid = append(invalid, "invitation_id")
	}
	a, fields := s.parseAttendee(in.Consent, in.Name, in.Birthdate, in.Phone, in.Email, false)
	invalid = append(invalid, fields...)
	if len(invalid) > 0 {
		return nil, domain.NewValidationError(invalid...)
	}

	inv, err := s.invitationRepo.GetByID(ctx, strings.TrimSpace(in.InvitationID))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	if inv.Used {
		return nil, domain.ErrInvitationUsed
	}

	if a.email == "" {
		a.email = inv.Email
	}
	if domain.IsPlaceholderEmail(a.email) {
		return nil, domain.NewValidationError("email")
	}

	if a.email != inv.Email || (a.phone != "" && (inv.Phone == nil || *inv.Phone != a.phone)) {
		var phone *string
		if a.phone != "" {
			phone = &a.phone
		}
		if err := s.invitationRepo.BindContact(ctx, inv.ID, a.email, phone); err != nil {
			if errors.Is(err, domain.ErrInvitationUsed) || errors.Is(err, domain.ErrDuplicateEmail) {
				return nil, err
			}
			return nil, fmt.Errorf("bind invitation contact: %w", err)
		}
		inv.Email = a.email
		if phone != nil {
			inv.Phone = phone
		}
	}

	return s.record(ctx, inv, a)
}

// SubmitPublic registers without a prior invitation: the invitation for
// (event, email) is reused or created first.
func (s *rsvpService) SubmitPublic(ctx context.Context, in domain.PublicRSVPInput) (*domain.RSVPOutcome, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	a, invalid := s.parseAttendee(in.Consent, in.Name, in.Birthdate, in.Phone, in.Email, true)
	if len(invalid) > 0 {
		return nil, domain.NewValidationError(invalid...)
	}

	phone := a.phone
	inv := &domain.Invitation{
		EventID:   s.eventID,
		Email:     a.email,
		Phone:     &phone,
		CreatedAt: time.Now(),
	}
	if _, err := s.invitationRepo.Upsert(ctx, inv); err != nil {
		return nil, fmt.Errorf("upsert invitation: %w", err)
	}
	if inv.Used {
		return nil, domain.ErrInvitationUsed
	}
	return s.record(ctx, inv, a)
}

func (s *rsvpService) parseAttendee(consent bool, name, birthdate, phone, email string, public bool) (attendee, []string) {
	a := attendee{consent: consent, name: strings.TrimSpace(name)}
	var invalid []string
	if a.name == "" {
		invalid = append(invalid, "name")
	}
	dob, ok := parseBirthdate(birthdate, time.Now())
	if !ok {
		invalid = append(invalid, "birthdate")
	}
	a.dob = dob

	if strings.TrimSpace(phone) != "" {
		normalized, err := s.phones.Normalize(phone)
		if err != nil {
			invalid = append(invalid, "phone")
		}
		a.phone = normalized
	} else if public {
		invalid = append(invalid, "phone")
	}

	if strings.TrimSpace(email) != "" {
		normalized, ok := normalizeEmail(email)
		if !ok || domain.IsPlaceholderEmail(normalized) {
			invalid = append(invalid, "email")
		}
		a.email = normalized
	} else if public {
		invalid = append(invalid, "email")
	}
	return a, invalid
}

func (s *rsvpService) record(ctx context.Context, inv *domain.Invitation, a attendee) (*domain.RSVPOutcome, error) {
	now := time.Now()
	rsvp := &domain.RSVP{
		InvitationID: inv.ID,
		Consent:      a.consent,
		Name:         a.name,
		DateOfBirth:  a.dob,
		Phone:        a.phone,
		Email:        a.email,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.rsvpRepo.Upsert(ctx, rsvp); err != nil {
		return nil, fmt.Errorf("upsert rsvp: %w", err)
	}

	user := domain.NewUser(rsvp.ID, a.name, a.email, a.phone, a.dob, now, now)
	if err := s.userRepo.UpsertByEmail(ctx, user); err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	outcome := &domain.RSVPOutcome{Invitation: inv, RSVP: rsvp, User: user}
	cs, err := s.checkout.CreateSession(ctx, domain.CheckoutRequest{
		InvitationID: inv.ID,
		RSVPID:       rsvp.ID,
		UserID:       user.ID,
		Email:        user.Email,
		EventID:      inv.EventID,
	})
	if err != nil {
		return outcome, fmt.Errorf("start checkout: %w", err)
	}
	outcome.Checkout = cs
	return outcome, nil
}
