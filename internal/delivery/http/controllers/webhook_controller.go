package controllers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"inviteticketing/internal/delivery/http/helpers"
	"inviteticketing/internal/domain"
)

// MaxWebhookBodyBytes bounds the payment notification payload.
const MaxWebhookBodyBytes = 64 << 10

// WebhookAck is the data payload acknowledging a payment notification.
type WebhookAck struct {
	Received  bool   `json:"received"`
	Handled   bool   `json:"handled"`
	Duplicate bool   `json:"duplicate"`
	TicketID  string `json:"ticket_id,omitempty"`
}

type WebhookController struct {
	Logger  *slog.Logger
	Service domain.WebhookService
}

func NewWebhookController(logger *slog.Logger, svc domain.WebhookService) *WebhookController {
	return &WebhookController{
		Logger:  logger,
		Service: svc,
	}
}

// Stripe godoc
// @Summary Payment provider webhook
// @Description Receives signed Stripe events. checkout.session.completed issues the ticket; other types are acknowledged and ignored. Redeliveries of a processed event are acknowledged without side effects. A bad signature returns 400 and nothing is processed; processing errors return 500 so the provider retries.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Stripe signature header"
// @Success 200 {object} helpers.APIResponse "data contains received, handled, duplicate, ticket_id"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 413 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /webhooks/stripe [post]
func (c *WebhookController) Stripe(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxWebhookBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			helpers.WriteJSONError(w, http.StatusRequestEntityTooLarge, helpers.ErrCodeBadRequest, "payload too large")
			return
		}
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "could not read body")
		return
	}
	signature := r.Header.Get("Stripe-Signature")
	if signature == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing Stripe-Signature header")
		return
	}

	result, err := c.Service.HandlePaymentWebhook(r.Context(), payload, signature)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSignature) {
			c.Logger.WarnContext(r.Context(), "webhook signature rejected", "err", err)
		}
		helpers.WriteServiceError(w, r, c.Logger, err, "")
		return
	}
	ack := WebhookAck{Received: true, Handled: result.Handled, Duplicate: result.Duplicate}
	if result.Ticket != nil {
		ack.TicketID = result.Ticket.ID
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ack)
}
