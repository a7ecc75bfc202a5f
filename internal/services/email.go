package services

import (
	"context"
	"fmt"
	"log/slog"

	"inviteticketing/internal/domain"
)

// Ticket emails reference the QR code image by this content id.
const (
	ticketQRContentID = "ticket-qr"
	ticketQRFilename  = "ticket.png"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendInvitation sends the personal RSVP link using the "invitation" template.
func (s *emailService) SendInvitation(ctx context.Context, data *domain.InvitationEmailData) error {
	if data == nil {
		return fmt.Errorf("invitation email data is nil")
	}
	msg, err := s.render("invitation", data.Email, data)
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send invitation email: %w", err)
	}
	s.logger.InfoContext(ctx, "invitation email sent", "to", data.Email)
	return nil
}

// SendTicket sends the ticket using the "ticket" template with the QR code inline.
func (s *emailService) SendTicket(ctx context.Context, data *domain.TicketEmailData) error {
	if data == nil {
		return fmt.Errorf("ticket email data is nil")
	}
	msg, err := s.render("ticket", data.Email, data)
	if err != nil {
		return err
	}
	if len(data.QRCodePNG) > 0 {
		msg.Attachments = append(msg.Attachments, domain.EmailAttachment{
			Filename:    ticketQRFilename,
			ContentType: "image/png",
			Content:     data.QRCodePNG,
			ContentID:   ticketQRContentID,
			Inline:      true,
		})
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send ticket email: %w", err)
	}
	s.logger.InfoContext(ctx, "ticket email sent", "to", data.Email, "ticket_code", data.TicketCode)
	return nil
}

func (s *emailService) render(templateName, to string, data any) (*domain.EmailMessage, error) {
	subject, htmlBody, textBody, err := s.renderer.Render(templateName, data)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s template: %w", templateName, err)
	}
	return &domain.EmailMessage{
		To:      to,
		Subject: subject,
		HTML:    htmlBody,
		Text:    textBody,
	}, nil
}
