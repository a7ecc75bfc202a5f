package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"inviteticketing/internal/delivery/http/helpers"
	"inviteticketing/internal/domain"
	"inviteticketing/internal/services"
)

// SendInvitationRequest is the request body for POST /admin/invitations.
type SendInvitationRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Validate implements Validator.
func (s SendInvitationRequest) Validate() []string {
	if strings.TrimSpace(s.Email) == "" {
		return []string{"email is required"}
	}
	return nil
}

// SendInvitationSuccessResponse is the success response envelope for POST /admin/invitations.
type SendInvitationSuccessResponse struct {
	Data  *domain.SendInvitationResult `json:"data"`
	Error *helpers.APIError            `json:"error"`
}

// InvitationSuccessResponse is the success response envelope for GET /invitations/{invitationID}.
type InvitationSuccessResponse struct {
	Data  *domain.Invitation `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ListInvitationsResponse is the data payload for GET /admin/invitations (200).
type ListInvitationsResponse struct {
	Items      []*domain.Invitation   `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListInvitationsSuccessResponse is the success response envelope for GET /admin/invitations (200).
type ListInvitationsSuccessResponse struct {
	Data  ListInvitationsResponse `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

type InvitationController struct {
	Logger  *slog.Logger
	Service domain.InvitationService
	BaseURL string
}

func NewInvitationController(logger *slog.Logger, svc domain.InvitationService, baseURL string) *InvitationController {
	return &InvitationController{
		Logger:  logger,
		Service: svc,
		BaseURL: baseURL,
	}
}

// SendInvitation godoc
// @Summary Send an invitation
// @Description Creates the invitation for the configured event, or reuses the existing one for the same email, and sends the RSVP link by email and, when a phone is given, by SMS. Returns 201 when a new invitation was created and 200 when it was reused. Notification failures are reported in email_sent/sms_sent.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SendInvitationRequest true "Recipient"
// @Success 200 {object} controllers.SendInvitationSuccessResponse "existing invitation re-sent"
// @Success 201 {object} controllers.SendInvitationSuccessResponse "invitation created"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/invitations [post]
func (c *InvitationController) SendInvitation(w http.ResponseWriter, r *http.Request) {
	var req SendInvitationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Service.SendInvitation(r.Context(), req.Email, req.Phone)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "invitation not found")
		return
	}
	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	helpers.WriteJSONSuccess(w, status, result)
}

// GetInvitation godoc
// @Summary Get an invitation
// @Description Returns the invitation behind a personal RSVP link.
// @Tags invitations
// @Produce json
// @Param invitationID path string true "Invitation ID (UUID)"
// @Success 200 {object} controllers.InvitationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations/{invitationID} [get]
func (c *InvitationController) GetInvitation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("invitationID")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing invitationID")
		return
	}
	inv, err := c.Service.GetInvitation(r.Context(), id)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "invitation not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, inv)
}

// ListInvitations godoc
// @Summary List invitations
// @Description Paginated invitations of the configured event. Optional search filters by email substring (case-insensitive).
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param search query string false "Filter emails containing this string"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListInvitationsSuccessResponse "data contains items and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/invitations [get]
func (c *InvitationController) ListInvitations(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	list, total, err := c.Service.ListInvitations(r.Context(), r.URL.Query().Get("search"), params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "")
		return
	}
	if list == nil {
		list = []*domain.Invitation{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListInvitationsResponse{
		Items:      list,
		Pagination: helpers.NewPaginationMeta(params, total),
	})
}

// NewRSVP godoc
// @Summary Open a public RSVP link
// @Description Creates an invitation without an email for the given event (default: the configured event) and redirects to its RSVP page. The invitee supplies the email when submitting the RSVP.
// @Tags invitations
// @Param event_id query string false "Event ID (UUID)"
// @Success 302 "redirect to /rsvp/{invitationID}"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rsvp/new [get]
func (c *InvitationController) NewRSVP(w http.ResponseWriter, r *http.Request) {
	inv, err := c.Service.OpenInvitation(r.Context(), strings.TrimSpace(r.URL.Query().Get("event_id")))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	http.Redirect(w, r, services.RSVPLink(c.BaseURL, inv.ID), http.StatusFound)
}
