package sms

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"inviteticketing/internal/domain"
)

// Config selects and configures the text message provider.
type Config struct {
	Provider   string
	AccountSID string
	AuthToken  string
	FromNumber string
	Logger     *slog.Logger
}

// messageCreator is the subset of the Twilio REST API the sender uses.
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// NewSender returns a Twilio-backed SMSSender for provider "twilio" and a
// logging no-op otherwise.
func NewSender(cfg Config) (domain.SMSSender, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "sms", "provider", cfg.Provider)

	switch cfg.Provider {
	case "twilio":
		if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.FromNumber == "" {
			return nil, fmt.Errorf("twilio sender: account sid, auth token and from number are required")
		}
		client := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		})
		return &twilioSender{api: client.Api, from: cfg.FromNumber, logger: logger}, nil
	case "noop", "":
		return &noopSender{logger: logger}, nil
	default:
		logger.Warn("unknown sms provider, using noop")
		return &noopSender{logger: logger}, nil
	}
}

type twilioSender struct {
	api    messageCreator
	from   string
	logger *slog.Logger
}

func (s *twilioSender) Send(ctx context.Context, to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	msg, err := s.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send sms via twilio: %w", err)
	}
	sid := ""
	if msg != nil && msg.Sid != nil {
		sid = *msg.Sid
	}
	s.logger.InfoContext(ctx, "sms sent", "sid", sid)
	return nil
}

type noopSender struct {
	logger *slog.Logger
}

func (n *noopSender) Send(ctx context.Context, to, body string) error {
	n.logger.InfoContext(ctx, "sms not sent (noop)", "to", to, "length", len(body))
	return nil
}
