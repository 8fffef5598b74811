package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	_ "github.com/lib/pq"

	"eventhorizon/config"
	_ "eventhorizon/docs"
	"eventhorizon/internal/adapters/auth"
	"eventhorizon/internal/adapters/countries"
	"eventhorizon/internal/adapters/email"
	httpdelivery "eventhorizon/internal/delivery/http"
	"eventhorizon/internal/delivery/http/controllers"
	"eventhorizon/internal/delivery/http/middleware"
	"eventhorizon/internal/repository/postgres"
	"eventhorizon/internal/services"
)

const serviceTimeout = 10 * time.Second

// @title EventHorizon API
// @version 1.0
// @description Event and speaker invitation lifecycle service.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("ping database", "error", err)
		os.Exit(1)
	}

	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	invitationRepo := postgres.NewEventInvitationRepository(db)
	registrationRepo := postgres.NewEventRegistrationRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	feedbackRepo := postgres.NewFeedbackRepository(db)

	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	tokenCodec := auth.NewJWTCodec(cfg.JWTSecret)
	countryLookup := countries.NewRESTClient(&http.Client{Timeout: 5 * time.Second})
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:          cfg.Email.SESRegion,
			AccessKeyID:     cfg.Email.SESAccessKeyID,
			SecretAccessKey: cfg.Email.SESSecretAccessKey,
		},
	})
	if err != nil {
		logger.Error("create mailer", "error", err)
		os.Exit(1)
	}

	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
	notificationService := services.NewNotificationService(notificationRepo, serviceTimeout)
	invitationService := services.NewInvitationService(
		invitationRepo, eventRepo, userRepo,
		notificationService, emailService,
		cfg.BaseURL, logger, serviceTimeout,
	)
	eventService := services.NewEventService(eventRepo, userRepo, invitationService, logger, serviceTimeout)
	authService := services.NewAuthService(
		userRepo, hasher, tokenCodec, cfg.JWTExpiry,
		emailService, countryLookup, logger, serviceTimeout,
	)
	resetService := services.NewPasswordResetService(userRepo, hasher, emailService, logger, serviceTimeout)
	attendeeService := services.NewAttendeeService(registrationRepo, eventRepo, serviceTimeout)
	feedbackService := services.NewFeedbackService(feedbackRepo, eventRepo, serviceTimeout)

	mux := httpdelivery.NewRouter(
		tokenCodec,
		logger,
		controllers.NewAuthController(logger, authService, resetService),
		controllers.NewEventController(logger, eventService, invitationService, attendeeService),
		controllers.NewInvitationController(logger, invitationService),
		controllers.NewAttendeeController(logger, attendeeService),
		controllers.NewFeedbackController(logger, feedbackService),
		controllers.NewNotificationController(logger, notificationService),
	)

	handler := middleware.CORS(cfg.CORSAllowedOrigins, middleware.LoggingMiddleware(logger, mux))
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}
