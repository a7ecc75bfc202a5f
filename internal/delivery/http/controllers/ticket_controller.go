package controllers

import (
	"encoding/base64"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"inviteticketing/internal/delivery/http/helpers"
	"inviteticketing/internal/domain"
)

// IssueTicketRequest is the request body for POST /admin/tickets.
type IssueTicketRequest struct {
	UserID       string `json:"user_id"`
	EventID      string `json:"event_id"`
	InvitationID string `json:"invitation_id"`
	SessionID    string `json:"session_id"`
	Email        string `json:"email"`
}

// Validate implements Validator.
func (i IssueTicketRequest) Validate() []string {
	var errs []string
	for _, f := range []struct{ name, value string }{
		{"user_id", i.UserID},
		{"event_id", i.EventID},
		{"invitation_id", i.InvitationID},
		{"session_id", i.SessionID},
	} {
		if strings.TrimSpace(f.value) == "" {
			errs = append(errs, f.name+" is required")
		}
	}
	return errs
}

// VerifyTicketRequest is the request body for POST /admin/tickets/verify.
type VerifyTicketRequest struct {
	TicketCode string `json:"ticket_code"`
}

// Validate implements Validator.
func (v VerifyTicketRequest) Validate() []string {
	if strings.TrimSpace(v.TicketCode) == "" {
		return []string{"ticket_code is required"}
	}
	return nil
}

// TicketSuccessResponse is the success response envelope for POST /admin/tickets.
type TicketSuccessResponse struct {
	Data  *domain.Ticket    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// VerifyTicketResponse is the envelope for POST /admin/tickets/verify. data is
// set on every outcome; error is set when the ticket is not valid.
type VerifyTicketResponse struct {
	Data  *domain.VerificationResult `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

// ListTicketsResponse is the data payload for GET /admin/tickets (200).
type ListTicketsResponse struct {
	Items      []*domain.TicketWithHolder `json:"items"`
	Pagination helpers.PaginationMeta     `json:"pagination"`
}

// ListTicketsSuccessResponse is the success response envelope for GET /admin/tickets (200).
type ListTicketsSuccessResponse struct {
	Data  ListTicketsResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var ticketPage = template.Must(template.New("ticket").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Your ticket</title>
</head>
<body>
<main>
<h1>{{.Name}}</h1>
<img src="{{.QR}}" width="256" height="256" alt="Ticket QR code">
<p><code>{{.Code}}</code></p>
{{if .RedeemedAt}}<p>Redeemed {{.RedeemedAt}}</p>{{end}}
</main>
</body>
</html>
`))

type ticketPageData struct {
	Name       string
	Code       string
	QR         template.URL
	RedeemedAt string
}

type TicketController struct {
	Logger  *slog.Logger
	Service domain.TicketService
}

func NewTicketController(logger *slog.Logger, svc domain.TicketService) *TicketController {
	return &TicketController{
		Logger:  logger,
		Service: svc,
	}
}

// IssueTicket godoc
// @Summary Issue a ticket manually
// @Description Issues the ticket for a payment session, for example when the webhook could not be delivered. Idempotent per session_id: 201 when created, 200 when the ticket already existed.
// @Tags tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body IssueTicketRequest true "Purchase identifiers"
// @Success 200 {object} controllers.TicketSuccessResponse "ticket already existed"
// @Success 201 {object} controllers.TicketSuccessResponse "ticket created"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/tickets [post]
func (c *TicketController) IssueTicket(w http.ResponseWriter, r *http.Request) {
	var req IssueTicketRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	ticket, created, err := c.Service.Issue(r.Context(), domain.IssueTicketInput{
		UserID:       strings.TrimSpace(req.UserID),
		EventID:      strings.TrimSpace(req.EventID),
		InvitationID: strings.TrimSpace(req.InvitationID),
		SessionID:    strings.TrimSpace(req.SessionID),
		Email:        strings.TrimSpace(req.Email),
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "invitation not found")
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	helpers.WriteJSONSuccess(w, status, ticket)
}

// VerifyTicket godoc
// @Summary Verify a scanned ticket
// @Description Checks a ticket code against the configured event. Valid tickets return 200 with the holder name. Unknown codes return 404, tickets for another event or already redeemed tickets (single-use mode) return 400; data.valid is false in both cases.
// @Tags tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body VerifyTicketRequest true "Scanned code"
// @Success 200 {object} controllers.VerifyTicketResponse
// @Failure 400 {object} controllers.VerifyTicketResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} controllers.VerifyTicketResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/tickets/verify [post]
func (c *TicketController) VerifyTicket(w http.ResponseWriter, r *http.Request) {
	var req VerifyTicketRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Service.Verify(r.Context(), req.TicketCode)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSON(w, http.StatusNotFound, &domain.VerificationResult{Valid: false},
				&helpers.APIError{Code: helpers.ErrCodeNotFound, Message: "ticket not found"})
			return
		}
		helpers.WriteServiceError(w, r, c.Logger, err, "ticket not found")
		return
	}
	if !result.Valid {
		helpers.WriteJSON(w, http.StatusBadRequest, result,
			&helpers.APIError{Code: helpers.ErrCodeBadRequest, Message: result.Reason})
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// ListTickets godoc
// @Summary List tickets
// @Description Paginated tickets of the configured event with holder name and email.
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListTicketsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/tickets [get]
func (c *TicketController) ListTickets(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	list, total, err := c.Service.ListTickets(r.Context(), params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "")
		return
	}
	if list == nil {
		list = []*domain.TicketWithHolder{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListTicketsResponse{
		Items:      list,
		Pagination: helpers.NewPaginationMeta(params, total),
	})
}

// ExportTickets godoc
// @Summary Export tickets
// @Description Downloads every ticket of the configured event as an .xlsx spreadsheet.
// @Tags tickets
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/tickets/export [get]
func (c *TicketController) ExportTickets(w http.ResponseWriter, r *http.Request) {
	data, err := c.Service.ExportTickets(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "")
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="tickets.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// TicketPage godoc
// @Summary Ticket page
// @Description HTML page showing the ticket QR code and holder name. This is the URL encoded in the QR code.
// @Tags tickets
// @Produce html
// @Param code path string true "Ticket code"
// @Success 200 {string} string "HTML page"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /tickets/{code} [get]
func (c *TicketController) TicketPage(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	tw, err := c.Service.GetTicket(r.Context(), code)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "ticket not found")
		return
	}
	png, err := c.Service.RenderQR(r.Context(), code)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "ticket not found")
		return
	}
	data := ticketPageData{
		Name: tw.HolderName,
		Code: tw.TicketCode,
		QR:   template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)),
	}
	if tw.RedeemedAt != nil {
		data.RedeemedAt = tw.RedeemedAt.UTC().Format(time.RFC1123)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := ticketPage.Execute(w, data); err != nil {
		c.Logger.ErrorContext(r.Context(), "render ticket page", "err", err)
	}
}

// TicketQR godoc
// @Summary Ticket QR code
// @Description PNG QR code encoding the ticket page URL.
// @Tags tickets
// @Produce png
// @Param code path string true "Ticket code"
// @Success 200 {file} file
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /tickets/{code}/qr.png [get]
func (c *TicketController) TicketQR(w http.ResponseWriter, r *http.Request) {
	png, err := c.Service.RenderQR(r.Context(), r.PathValue("code"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "ticket not found")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
