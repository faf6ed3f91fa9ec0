// Command reminders sends one batch of appointment reminders and exits.
// It is meant for hosts where the server's built-in scheduler is disabled
// and an external cron runs this binary instead.
package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"stylesync/internal/config"
	"stylesync/internal/repository"
	"stylesync/internal/service"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Str("cmd", "reminders").Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open DB")
	}
	defer db.Close()

	mailer := service.NewSendGridMailer(cfg.SendGridAPIKey, cfg.SendGridFromEmail, cfg.SendGridFromName, log)
	texter := service.NewTwilioTexter(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, log)
	sender, err := service.NewSenderService(mailer, texter, cfg.Location(), cfg.StripeCurrency, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build sender")
	}
	jobs := service.NewJobService(repository.NewJobRepository(db), sender, nil, cfg.PendingTTL, log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	sent, err := jobs.SendReminders(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("send reminders")
	}
	log.Info().Int("sent", sent).Msg("done")
}
