package domain

import "context"

// EmailAttachment is a file sent along with an email. Inline attachments are
// referenced from the HTML body by ContentID.
type EmailAttachment struct {
	Filename    string
	ContentType string
	Content     []byte
	ContentID   string
	Inline      bool
}

// EmailMessage is a rendered email ready to be sent.
type EmailMessage struct {
	To          string
	Subject     string
	HTML        string
	Text        string
	Attachments []EmailAttachment
}

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, msg *EmailMessage) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// InvitationEmailData holds data for the invitation email.
type InvitationEmailData struct {
	Email     string
	EventName string
	Link      string
}

// TicketEmailData holds data for the ticket delivery email.
type TicketEmailData struct {
	Email      string
	Name       string
	EventName  string
	TicketCode string
	TicketURL  string
	QRCodePNG  []byte
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendInvitation(ctx context.Context, data *InvitationEmailData) error
	SendTicket(ctx context.Context, data *TicketEmailData) error
}

// SMSSender sends text messages to E.164 phone numbers.
type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

// PhoneNormalizer converts user-entered phone numbers to E.164.
type PhoneNormalizer interface {
	Normalize(phone string) (string, error)
}
