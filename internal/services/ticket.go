package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"inviteticketing/internal/domain"
)

const qrSize = 256

// Verification reasons reported to door staff.
const (
	ReasonWrongEvent      = "wrong event"
	ReasonAlreadyRedeemed = "ticket already redeemed"
)

type ticketService struct {
	ticketRepo     domain.TicketRepository
	invitationRepo domain.InvitationRepository
	userRepo       domain.UserRepository
	eventRepo      domain.EventRepository
	emailService   domain.EmailService
	qr             domain.QRRenderer
	exporter       domain.TicketExporter
	eventID        string
	baseURL        string
	singleUse      bool
	logger         *slog.Logger
}

// TicketServiceConfig holds the settings the ticket service reads from configuration.
type TicketServiceConfig struct {
	EventID   string
	BaseURL   string
	SingleUse bool
}

func NewTicketService(
	ticketRepo domain.TicketRepository,
	invitationRepo domain.InvitationRepository,
	userRepo domain.UserRepository,
	eventRepo domain.EventRepository,
	emailService domain.EmailService,
	qr domain.QRRenderer,
	exporter domain.TicketExporter,
	cfg TicketServiceConfig,
	logger *slog.Logger,
) domain.TicketService {
	return &ticketService{
		ticketRepo:     ticketRepo,
		invitationRepo: invitationRepo,
		userRepo:       userRepo,
		eventRepo:      eventRepo,
		emailService:   emailService,
		qr:             qr,
		exporter:       exporter,
		eventID:        cfg.EventID,
		baseURL:        cfg.BaseURL,
		singleUse:      cfg.SingleUse,
		logger:         logger,
	}
}

// TicketURL is the public page a ticket's QR code points to.
func TicketURL(baseURL, code string) string {
	return baseURL + "/tickets/" + url.PathEscape(code)
}

// Issue is keyed on the payment session: the first call inserts the ticket,
// later calls load it and only redo the steps that have not completed yet.
// The invitation is marked used only after the ticket row exists.
func (s *ticketService) Issue(ctx context.Context, in domain.IssueTicketInput) (*domain.Ticket, bool, error) {
	var invalid []string
	for _, f := range []struct {
		name, value string
		uuid        bool
	}{
		{"user_id", in.UserID, true},
		{"event_id", in.EventID, true},
		{"invitation_id", in.InvitationID, true},
		{"session_id", in.SessionID, false},
	} {
		v := strings.TrimSpace(f.value)
		if v == "" || (f.uuid && !isUUID(v)) {
			invalid = append(invalid, f.name)
		}
	}
	if len(invalid) > 0 {
		return nil, false, domain.NewValidationError(invalid...)
	}

	ticket := &domain.Ticket{
		UserID:       in.UserID,
		EventID:      in.EventID,
		InvitationID: in.InvitationID,
		SessionID:    in.SessionID,
		TicketCode:   uuid.NewString(),
		IssuedAt:     time.Now(),
	}
	created, err := s.ticketRepo.CreateForSession(ctx, ticket)
	if err != nil {
		return nil, false, fmt.Errorf("create ticket: %w", err)
	}
	if !created {
		s.logger.InfoContext(ctx, "ticket already issued for session", "session_id", in.SessionID, "ticket_id", ticket.ID)
	}

	if err := s.invitationRepo.MarkUsed(ctx, ticket.InvitationID); err != nil {
		return ticket, created, fmt.Errorf("mark invitation used: %w", err)
	}

	if ticket.DeliveredAt == nil {
		if err := s.deliver(ctx, ticket, in.Email); err != nil {
			return ticket, created, err
		}
	}
	return ticket, created, nil
}

// deliver claims the ticket's delivery before sending so concurrent
// redeliveries of the same payment event send one email. A failed send
// releases the claim for the next retry.
func (s *ticketService) deliver(ctx context.Context, ticket *domain.Ticket, email string) error {
	now := time.Now()
	claimed, err := s.ticketRepo.ClaimDelivery(ctx, ticket.ID, now)
	if err != nil {
		return fmt.Errorf("claim ticket delivery: %w", err)
	}
	if !claimed {
		s.logger.InfoContext(ctx, "ticket delivery already claimed", "ticket_id", ticket.ID)
		return nil
	}
	if err := s.send(ctx, ticket, email); err != nil {
		if rerr := s.ticketRepo.ReleaseDelivery(context.WithoutCancel(ctx), ticket.ID); rerr != nil {
			s.logger.ErrorContext(ctx, "failed to release ticket delivery", "ticket_id", ticket.ID, "err", rerr)
		}
		return err
	}
	ticket.DeliveredAt = &now
	return nil
}

func (s *ticketService) send(ctx context.Context, ticket *domain.Ticket, email string) error {
	user, err := s.userRepo.GetByID(ctx, ticket.UserID)
	if err != nil {
		return fmt.Errorf("get ticket holder: %w", err)
	}
	if email == "" {
		email = user.Email
	}
	eventName := "the event"
	if event, err := s.eventRepo.GetByID(ctx, ticket.EventID); err == nil {
		eventName = event.Name
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("get event: %w", err)
	}

	ticketURL := TicketURL(s.baseURL, ticket.TicketCode)
	png, err := s.qr.PNG(ticketURL, qrSize)
	if err != nil {
		return fmt.Errorf("render qr: %w", err)
	}
	if err := s.emailService.SendTicket(ctx, &domain.TicketEmailData{
		Email:      email,
		Name:       user.Name,
		EventName:  eventName,
		TicketCode: ticket.TicketCode,
		TicketURL:  ticketURL,
		QRCodePNG:  png,
	}); err != nil {
		return fmt.Errorf("send ticket: %w", err)
	}
	return nil
}

// Verify checks a scanned code against the configured event. In single-use
// mode the first successful scan redeems the ticket and later scans are rejected.
func (s *ticketService) Verify(ctx context.Context, code string) (*domain.VerificationResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.NewValidationError("code")
	}
	tw, err := s.ticketRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	if !strings.EqualFold(tw.EventID, s.eventID) {
		return &domain.VerificationResult{Valid: false, Reason: ReasonWrongEvent, TicketID: tw.ID}, nil
	}
	if s.singleUse {
		ok, err := s.ticketRepo.Redeem(ctx, tw.ID, time.Now())
		if err != nil {
			return nil, fmt.Errorf("redeem ticket: %w", err)
		}
		if !ok {
			return &domain.VerificationResult{Valid: false, Name: tw.HolderName, Reason: ReasonAlreadyRedeemed, TicketID: tw.ID}, nil
		}
	}
	return &domain.VerificationResult{Valid: true, Name: tw.HolderName, TicketID: tw.ID}, nil
}

func (s *ticketService) GetTicket(ctx context.Context, code string) (*domain.TicketWithHolder, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.NewValidationError("code")
	}
	tw, err := s.ticketRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return tw, nil
}

func (s *ticketService) RenderQR(ctx context.Context, code string) ([]byte, error) {
	tw, err := s.GetTicket(ctx, code)
	if err != nil {
		return nil, err
	}
	png, err := s.qr.PNG(TicketURL(s.baseURL, tw.TicketCode), qrSize)
	if err != nil {
		return nil, fmt.Errorf("render qr: %w", err)
	}
	return png, nil
}

func (s *ticketService) ListTickets(ctx context.Context, params domain.PaginationParams) ([]*domain.TicketWithHolder, int, error) {
	tickets, total, err := s.ticketRepo.ListByEventID(ctx, s.eventID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, total, nil
}

func (s *ticketService) ExportTickets(ctx context.Context) ([]byte, error) {
	event, err := s.eventRepo.GetByID(ctx, s.eventID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get event: %w", err)
	}
	// Zero pagination params return every ticket of the event.
	tickets, _, err := s.ticketRepo.ListByEventID(ctx, s.eventID, domain.PaginationParams{})
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	data, err := s.exporter.Export(event, tickets)
	if err != nil {
		return nil, fmt.Errorf("export tickets: %w", err)
	}
	return data, nil
}
