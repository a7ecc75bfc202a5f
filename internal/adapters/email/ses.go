package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"inviteticketing/internal/domain"
)

// sesAPI is the subset of the SES client the mailer uses.
type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
	SendRawEmail(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error)
}

type sesMailer struct {
	client      sesAPI
	fromAddress string
	fromName    string
	logger      *slog.Logger
}

// Send uses SendEmail for plain messages and SendRawEmail when the message
// carries attachments, since only raw MIME can embed them.
func (s *sesMailer) Send(ctx context.Context, msg *domain.EmailMessage) error {
	source := formatSender(s.fromName, s.fromAddress)
	if len(msg.Attachments) > 0 {
		raw, err := buildMIME(source, msg)
		if err != nil {
			return fmt.Errorf("failed to build MIME message: %w", err)
		}
		out, err := s.client.SendRawEmail(ctx, &ses.SendRawEmailInput{
			Source:       aws.String(source),
			Destinations: []string{msg.To},
			RawMessage:   &types.RawMessage{Data: raw},
		})
		if err != nil {
			return fmt.Errorf("failed to send raw email via SES: %w", err)
		}
		s.logger.InfoContext(ctx, "email sent", "message_id", aws.ToString(out.MessageId))
		return nil
	}

	input := &ses.SendEmailInput{
		Source: aws.String(source),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(msg.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{},
		},
	}
	if msg.HTML != "" {
		input.Message.Body.Html = &types.Content{
			Data:    aws.String(msg.HTML),
			Charset: aws.String("UTF-8"),
		}
	}
	if msg.Text != "" {
		input.Message.Body.Text = &types.Content{
			Data:    aws.String(msg.Text),
			Charset: aws.String("UTF-8"),
		}
	}
	out, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}
	s.logger.InfoContext(ctx, "email sent", "message_id", aws.ToString(out.MessageId))
	return nil
}
