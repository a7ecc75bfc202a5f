package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"inviteticketing/internal/delivery/http/helpers"
	"inviteticketing/internal/domain"
)

// SubmitRSVPRequest is the request body for POST /rsvp.
type SubmitRSVPRequest struct {
	InvitationID string `json:"invitation_id"`
	Consent      bool   `json:"consent"`
	Name         string `json:"name"`
	Birthdate    string `json:"birthdate"` // YYYY-MM-DD
	Phone        string `json:"phone"`
	Email        string `json:"email"`
}

// Validate implements Validator.
func (s SubmitRSVPRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.InvitationID) == "" {
		errs = append(errs, "invitation_id is required")
	}
	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(s.Birthdate) == "" {
		errs = append(errs, "birthdate is required")
	}
	return errs
}

// PublicRSVPRequest is the request body for POST /rsvp/public.
type PublicRSVPRequest struct {
	Consent   bool   `json:"consent"`
	Name      string `json:"name"`
	Birthdate string `json:"birthdate"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// Validate implements Validator.
func (p PublicRSVPRequest) Validate() []string {
	var errs []string
	for _, f := range []struct{ name, value string }{
		{"name", p.Name},
		{"birthdate", p.Birthdate},
		{"phone", p.Phone},
		{"email", p.Email},
	} {
		if strings.TrimSpace(f.value) == "" {
			errs = append(errs, f.name+" is required")
		}
	}
	return errs
}

// CheckoutResponse is the data payload returned once the invitee can be sent to payment.
type CheckoutResponse struct {
	SessionID    string `json:"session_id"`
	CheckoutURL  string `json:"checkout_url"`
	RSVPID       string `json:"rsvp_id,omitempty"`
	UserID       string `json:"user_id,omitempty"`
	InvitationID string `json:"invitation_id,omitempty"`
}

// CheckoutSuccessResponse is the success response envelope for the RSVP and checkout endpoints.
type CheckoutSuccessResponse struct {
	Data  CheckoutResponse  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type RSVPController struct {
	Logger  *slog.Logger
	Service domain.RSVPService
}

func NewRSVPController(logger *slog.Logger, svc domain.RSVPService) *RSVPController {
	return &RSVPController{
		Logger:  logger,
		Service: svc,
	}
}

// Submit godoc
// @Summary Submit an RSVP
// @Description Records the RSVP for an invitation and opens a checkout session. Resubmitting replaces the RSVP. A used invitation is rejected with 400. If the checkout cannot be created the RSVP is kept and 500 is returned.
// @Tags rsvp
// @Accept json
// @Produce json
// @Param body body SubmitRSVPRequest true "RSVP"
// @Success 200 {object} controllers.CheckoutSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rsvp [post]
func (c *RSVPController) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRSVPRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	out, err := c.Service.Submit(r.Context(), domain.SubmitRSVPInput{
		InvitationID: strings.TrimSpace(req.InvitationID),
		Consent:      req.Consent,
		Name:         req.Name,
		Birthdate:    req.Birthdate,
		Phone:        req.Phone,
		Email:        req.Email,
	})
	c.writeOutcome(w, r, out, err)
}

// SubmitPublic godoc
// @Summary Submit a public RSVP
// @Description Self-registration without a personal link. The invitation for the configured event and email is created or reused, then the RSVP is recorded and a checkout session opened.
// @Tags rsvp
// @Accept json
// @Produce json
// @Param body body PublicRSVPRequest true "RSVP"
// @Success 200 {object} controllers.CheckoutSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rsvp/public [post]
func (c *RSVPController) SubmitPublic(w http.ResponseWriter, r *http.Request) {
	var req PublicRSVPRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	out, err := c.Service.SubmitPublic(r.Context(), domain.PublicRSVPInput{
		Consent:   req.Consent,
		Name:      req.Name,
		Birthdate: req.Birthdate,
		Phone:     req.Phone,
		Email:     req.Email,
	})
	c.writeOutcome(w, r, out, err)
}

func (c *RSVPController) writeOutcome(w http.ResponseWriter, r *http.Request, out *domain.RSVPOutcome, err error) {
	if err != nil {
		if out != nil && out.RSVP != nil {
			c.Logger.WarnContext(r.Context(), "rsvp recorded but checkout failed", "rsvp_id", out.RSVP.ID)
		}
		helpers.WriteServiceError(w, r, c.Logger, err, "invitation not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, CheckoutResponse{
		SessionID:    out.Checkout.ID,
		CheckoutURL:  out.Checkout.URL,
		RSVPID:       out.RSVP.ID,
		UserID:       out.User.ID,
		InvitationID: out.Invitation.ID,
	})
}
