package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inviteticketing/config"
	_ "inviteticketing/docs"
	"inviteticketing/internal/adapters/auth"
	"inviteticketing/internal/adapters/dedup"
	"inviteticketing/internal/adapters/email"
	"inviteticketing/internal/adapters/export"
	"inviteticketing/internal/adapters/payment"
	"inviteticketing/internal/adapters/phone"
	"inviteticketing/internal/adapters/qr"
	"inviteticketing/internal/adapters/sms"
	httpdelivery "inviteticketing/internal/delivery/http"
	"inviteticketing/internal/delivery/http/controllers"
	"inviteticketing/internal/delivery/http/middleware"
	"inviteticketing/internal/repository/postgres"
	"inviteticketing/internal/services"
)

// @title Invite Ticketing API
// @version 1.0
// @description Invitations, RSVPs, hosted checkout, ticket issuance and door verification for a single event.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Staff token from POST /auth/login, sent as "Bearer <token>".
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.Migrate(db); err != nil {
		return err
	}

	// Repositories
	eventRepo := postgres.NewEventRepository(db)
	invitationRepo := postgres.NewInvitationRepository(db)
	rsvpRepo := postgres.NewRSVPRepository(db)
	userRepo := postgres.NewUserRepository(db)
	ticketRepo := postgres.NewTicketRepository(db)
	staffRepo := postgres.NewStaffRepository(db)

	// Adapters
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.SESRegion,
			AccessKeyID:        cfg.Email.SESAccessKeyID,
			SecretAccessKey:    cfg.Email.SESSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
		SendGridAPIKey: cfg.Email.SendGridAPIKey,
		Logger:         logger,
	})
	if err != nil {
		return err
	}
	smsSender, err := sms.NewSender(sms.Config{
		Provider:   cfg.SMS.Provider,
		AccountSID: cfg.SMS.TwilioAccountSID,
		AuthToken:  cfg.SMS.TwilioAuthToken,
		FromNumber: cfg.SMS.TwilioFromNumber,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	gateway := payment.NewStripeGateway(payment.StripeConfig{
		SecretKey:      cfg.Payment.StripeSecretKey,
		WebhookSecret:  cfg.Payment.StripeWebhookSecret,
		PaymentMethods: cfg.Payment.PaymentMethods,
	})
	webhookDedup, closeDedup := dedup.Connect(ctx, cfg.RedisURL, logger)
	defer func() {
		if err := closeDedup(); err != nil {
			logger.Warn("closing dedup store", "err", err)
		}
	}()
	phones := phone.NewNormalizer(cfg.PhoneRegion)
	tokenVerifier := auth.NewJWTVerifier(cfg.JWTSecret)

	// Services
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
	eventService := services.NewEventService(eventRepo, cfg.RequestTimeout)
	authService := services.NewAuthService(staffRepo, auth.NewBcryptHasher(0), auth.NewJWTIssuer(cfg.JWTSecret), cfg.JWTExpiry, logger)
	invitationService := services.NewInvitationService(invitationRepo, eventRepo, emailService, smsSender, phones,
		cfg.EventID, cfg.BaseURL, logger, cfg.RequestTimeout)
	checkoutService := services.NewCheckoutService(gateway, invitationRepo, rsvpRepo, userRepo,
		cfg.Payment.StripePriceID, cfg.BaseURL, cfg.RequestTimeout)
	rsvpService := services.NewRSVPService(invitationRepo, rsvpRepo, userRepo, checkoutService, phones,
		cfg.EventID, cfg.RequestTimeout)
	ticketService := services.NewTicketService(ticketRepo, invitationRepo, userRepo, eventRepo, emailService,
		qr.NewRenderer(), export.NewXLSXExporter(),
		services.TicketServiceConfig{EventID: cfg.EventID, BaseURL: cfg.BaseURL, SingleUse: cfg.TicketSingleUse},
		logger)
	webhookService := services.NewWebhookService(gateway, webhookDedup, ticketService, logger)

	if cfg.AdminEmail != "" {
		if err := authService.EnsureStaff(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return err
		}
	}
	if cfg.Payment.StripePriceID == "" {
		logger.Warn("STRIPE_PRICE_ID is not set, checkout will fail")
	}

	router := httpdelivery.NewRouter(httpdelivery.Controllers{
		Auth:       controllers.NewAuthController(logger, authService),
		Event:      controllers.NewEventController(logger, eventService),
		Invitation: controllers.NewInvitationController(logger, invitationService, cfg.BaseURL),
		RSVP:       controllers.NewRSVPController(logger, rsvpService),
		Checkout:   controllers.NewCheckoutController(logger, checkoutService),
		Webhook:    controllers.NewWebhookController(logger, webhookService),
		Ticket:     controllers.NewTicketController(logger, ticketService),
		Health:     controllers.NewHealthController(logger, db),
	}, tokenVerifier, logger)
	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, router))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "event_id", cfg.EventID, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
