package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"inviteticketing/internal/domain"
)

var errConfiguredEventMissing = errors.New("configured event missing")

type invitationService struct {
	invitationRepo domain.InvitationRepository
	eventRepo      domain.EventRepository
	emailService   domain.EmailService
	smsSender      domain.SMSSender
	phones         domain.PhoneNormalizer
	eventID        string
	baseURL        string
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewInvitationService(
	invitationRepo domain.InvitationRepository,
	eventRepo domain.EventRepository,
	emailService domain.EmailService,
	smsSender domain.SMSSender,
	phones domain.PhoneNormalizer,
	eventID, baseURL string,
	logger *slog.Logger,
	timeout time.Duration,
) domain.InvitationService {
	return &invitationService{
		invitationRepo: invitationRepo,
		eventRepo:      eventRepo,
		emailService:   emailService,
		smsSender:      smsSender,
		phones:         phones,
		eventID:        eventID,
		baseURL:        baseURL,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// RSVPLink is the personal link an invitee follows to answer.
func RSVPLink(baseURL, invitationID string) string {
	return baseURL + "/rsvp/" + invitationID
}

// SendInvitation reuses the invitation for (event, email) when it exists and
// always notifies, so sending twice re-sends the same link. Notification
// failures are logged and reported in the result; the invitation is kept.
func (s *invitationService) SendInvitation(ctx context.Context, email, phone string) (*domain.SendInvitationResult, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	email, ok := normalizeEmail(email)
	if !ok || domain.IsPlaceholderEmail(email) {
		return nil, domain.NewValidationError("email")
	}
	var phonePtr *string
	if strings.TrimSpace(phone) != "" {
		normalized, err := s.phones.Normalize(phone)
		if err != nil {
			return nil, domain.NewValidationError("phone")
		}
		phonePtr = &normalized
	}

	event, err := s.eventRepo.GetByID(ctx, s.eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// A missing configured event is a deployment fault, reported as a server error.
			return nil, fmt.Errorf("%w: configured event %s does not exist", errConfiguredEventMissing, s.eventID)
		}
		return nil, fmt.Errorf("get configured event: %w", err)
	}

	inv := &domain.Invitation{
		EventID:   s.eventID,
		Email:     email,
		Phone:     phonePtr,
		CreatedAt: time.Now(),
	}
	created, err := s.invitationRepo.Upsert(ctx, inv)
	if err != nil {
		return nil, fmt.Errorf("upsert invitation: %w", err)
	}

	result := &domain.SendInvitationResult{Invitation: inv, Created: created}
	link := RSVPLink(s.baseURL, inv.ID)

	if err := s.emailService.SendInvitation(ctx, &domain.InvitationEmailData{
		Email:     inv.Email,
		EventName: event.Name,
		Link:      link,
	}); err != nil {
		s.logger.WarnContext(ctx, "invitation email failed", "invitation_id", inv.ID, "err", err)
	} else {
		result.EmailSent = true
	}

	if inv.Phone != nil {
		if err := s.smsSender.Send(ctx, *inv.Phone, "You're invited! RSVP at "+link); err != nil {
			s.logger.WarnContext(ctx, "invitation sms failed", "invitation_id", inv.ID, "err", err)
		} else {
			result.SMSSent = true
		}
	}
	return result, nil
}

func (s *invitationService) GetInvitation(ctx context.Context, id string) (*domain.Invitation, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !isUUID(id) {
		return nil, domain.NewValidationError("invitation_id")
	}
	inv, err := s.invitationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	return inv, nil
}

func (s *invitationService) ListInvitations(ctx context.Context, search string, params domain.PaginationParams) ([]*domain.Invitation, int, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	invs, total, err := s.invitationRepo.ListByEventID(ctx, s.eventID, strings.TrimSpace(search), params)
	if err != nil {
		return nil, 0, fmt.Errorf("list invitations: %w", err)
	}
	return invs, total, nil
}

// OpenInvitation creates an invitation for a public link. Its placeholder email
// is replaced by the real address when the invitee submits the RSVP.
func (s *invitationService) OpenInvitation(ctx context.Context, eventID string) (*domain.Invitation, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	if eventID == "" {
		eventID = s.eventID
	}
	if !isUUID(eventID) {
		return nil, domain.NewValidationError("event_id")
	}
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	inv := &domain.Invitation{
		EventID:   eventID,
		Email:     domain.PlaceholderEmail(uuid.NewString()),
		CreatedAt: time.Now(),
	}
	if err := s.invitationRepo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("create invitation: %w", err)
	}
	return inv, nil
}
