package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"inviteticketing/internal/delivery/http/helpers"
	"inviteticketing/internal/domain"
)

// CreateCheckoutRequest is the request body for POST /checkout.
type CreateCheckoutRequest struct {
	InvitationID string `json:"invitation_id"`
}

// Validate implements Validator.
func (c CreateCheckoutRequest) Validate() []string {
	if strings.TrimSpace(c.InvitationID) == "" {
		return []string{"invitation_id is required"}
	}
	return nil
}

type CheckoutController struct {
	Logger  *slog.Logger
	Service domain.CheckoutService
}

func NewCheckoutController(logger *slog.Logger, svc domain.CheckoutService) *CheckoutController {
	return &CheckoutController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateSession godoc
// @Summary Restart checkout
// @Description Opens a new checkout session for an invitation that already has an RSVP, for example after the invitee cancelled payment.
// @Tags checkout
// @Accept json
// @Produce json
// @Param body body CreateCheckoutRequest true "Invitation"
// @Success 200 {object} controllers.CheckoutSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /checkout [post]
func (c *CheckoutController) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateCheckoutRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	invitationID := strings.TrimSpace(req.InvitationID)
	cs, err := c.Service.CreateForInvitation(r.Context(), invitationID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "rsvp not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, CheckoutResponse{
		SessionID:    cs.ID,
		CheckoutURL:  cs.URL,
		InvitationID: invitationID,
	})
}
