package email

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"inviteticketing/internal/domain"
)

type sendGridAPI interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type sendGridMailer struct {
	client      sendGridAPI
	fromAddress string
	fromName    string
	logger      *slog.Logger
}

func (s *sendGridMailer) Send(ctx context.Context, msg *domain.EmailMessage) error {
	m := mail.NewSingleEmail(
		mail.NewEmail(s.fromName, s.fromAddress),
		msg.Subject,
		mail.NewEmail("", msg.To),
		msg.Text,
		msg.HTML,
	)
	for _, att := range msg.Attachments {
		a := mail.NewAttachment().
			SetContent(base64.StdEncoding.EncodeToString(att.Content)).
			SetType(att.ContentType).
			SetFilename(att.Filename)
		if att.Inline {
			a.SetDisposition("inline").SetContentID(att.ContentID)
		} else {
			a.SetDisposition("attachment")
		}
		m.AddAttachment(a)
	}

	resp, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		return fmt.Errorf("failed to send email via SendGrid: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	s.logger.InfoContext(ctx, "email sent", "status", resp.StatusCode)
	return nil
}
