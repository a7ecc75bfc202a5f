package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"inviteticketing/internal/delivery/http/controllers"
	"inviteticketing/internal/delivery/http/middleware"
	"inviteticketing/internal/domain"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Auth       *controllers.AuthController
	Event      *controllers.EventController
	Invitation *controllers.InvitationController
	RSVP       *controllers.RSVPController
	Checkout   *controllers.CheckoutController
	Webhook    *controllers.WebhookController
	Ticket     *controllers.TicketController
	Health     *controllers.HealthController
}

// NewRouter initializes the HTTP router with all application routes.
// Routes under /admin require a staff token.
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Public
	mux.HandleFunc("GET /healthz", c.Health.Health)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)
	mux.HandleFunc("GET /events/{eventID}", c.Event.GetEvent)
	mux.HandleFunc("GET /invitations/{invitationID}", c.Invitation.GetInvitation)
	mux.HandleFunc("GET /rsvp/new", c.Invitation.NewRSVP)
	mux.HandleFunc("POST /rsvp", c.RSVP.Submit)
	mux.HandleFunc("POST /rsvp/public", c.RSVP.SubmitPublic)
	mux.HandleFunc("POST /checkout", c.Checkout.CreateSession)
	mux.HandleFunc("POST /webhooks/stripe", c.Webhook.Stripe)
	mux.HandleFunc("GET /tickets/{code}", c.Ticket.TicketPage)
	mux.HandleFunc("GET /tickets/{code}/qr.png", c.Ticket.TicketQR)

	// Staff
	mux.HandleFunc("POST /admin/events", auth(c.Event.CreateEvent))
	mux.HandleFunc("GET /admin/events", auth(c.Event.ListEvents))
	mux.HandleFunc("POST /admin/invitations", auth(c.Invitation.SendInvitation))
	mux.HandleFunc("GET /admin/invitations", auth(c.Invitation.ListInvitations))
	mux.HandleFunc("POST /admin/tickets", auth(c.Ticket.IssueTicket))
	mux.HandleFunc("GET /admin/tickets", auth(c.Ticket.ListTickets))
	mux.HandleFunc("POST /admin/tickets/verify", auth(c.Ticket.VerifyTicket))
	mux.HandleFunc("GET /admin/tickets/export", auth(c.Ticket.ExportTickets))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
