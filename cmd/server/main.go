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

	"github.com/gorilla/handlers"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"stylesync/internal/api"
	"stylesync/internal/config"
	"stylesync/internal/repository"
	"stylesync/internal/service"
	"stylesync/internal/slots"
	"stylesync/migrations"
)

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	var logger zerolog.Logger
	if cfg.LogFormat == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	return logger.Level(level).With().Timestamp().Logger()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("load config")
	}
	log := newLogger(cfg)

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open DB")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to DB")
	}
	if err := migrations.Up(db); err != nil {
		log.Fatal().Err(err).Msg("failed to apply migrations")
	}

	loc := cfg.Location()

	catalogRepo := repository.NewCatalogRepository(db)
	availRepo := repository.NewAvailabilityRepository(db)
	bookingRepo := repository.NewBookingRepository(db, loc)
	stripeRepo := repository.NewStripeRepository(db)
	userRepo := repository.NewUserRepository(db)
	jobRepo := repository.NewJobRepository(db)

	mailer := service.NewSendGridMailer(cfg.SendGridAPIKey, cfg.SendGridFromEmail, cfg.SendGridFromName, log)
	texter := service.NewTwilioTexter(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, log)
	sender, err := service.NewSenderService(mailer, texter, loc, cfg.StripeCurrency, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build sender")
	}

	if !cfg.StripeEnabled() {
		log.Warn().Msg("STRIPE_SECRET_KEY not set, checkout will fail")
	}
	if cfg.StripeWebhookSecret == "" {
		log.Warn().Msg("STRIPE_WEBHOOK_SECRET not set, webhooks will be rejected")
	}
	payments := service.NewStripeService(cfg.StripeSecretKey, cfg.StripeCurrency, cfg.PublicBaseURL, cfg.PendingTTL)

	calc := slots.NewCalculator(availRepo, bookingRepo, loc)
	bookingSvc := service.NewBookingService(catalogRepo, bookingRepo, stripeRepo, calc, payments, sender, service.BookingOptions{
		Currency:           cfg.StripeCurrency,
		CancellationNotice: cfg.CancellationNotice,
	}, log.With().Str("component", "bookings").Logger())
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	staffSvc := service.NewStaffService(catalogRepo, availRepo, bookingRepo, loc, cfg.StripeCurrency)
	jobSvc := service.NewJobService(jobRepo, sender, payments, cfg.PendingTTL, log.With().Str("component", "jobs").Logger())

	scheduler := cron.New(cron.WithLocation(loc))
	if err := jobSvc.Register(scheduler, service.JobSchedule{
		Reminders: cfg.ReminderCron,
		Expire:    cfg.ExpireCron,
		Complete:  cfg.CompleteCron,
	}); err != nil {
		log.Fatal().Err(err).Msg("failed to schedule jobs")
	}
	scheduler.Start()

	r := api.NewRouter(api.Handlers{
		Users:  api.NewUserBookingHandler(bookingSvc, log),
		Auth:   api.NewAuthHandler(authSvc, log),
		Staff:  api.NewStaffHandler(staffSvc, log),
		Stripe: api.NewStripeWebhookHandler(cfg.StripeWebhookSecret, bookingSvc, log),
		Ping:   db.PingContext,
	}, []byte(cfg.JWTSecret))

	var h http.Handler = r
	h = handlers.CORS(
		handlers.AllowedOrigins(cfg.CORSOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)(h)
	h = handlers.CombinedLoggingHandler(os.Stdout, h)
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("port", cfg.Port).Str("timezone", loc.String()).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	<-scheduler.Stop().Done()
}
