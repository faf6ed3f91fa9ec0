// Command seed loads services, staff accounts and their weekly hours from a
// YAML file. Without -file it loads the bundled example catalog.
package main

import (
	"context"
	"database/sql"
	_ "embed"
	"flag"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"stylesync/internal/config"
	"stylesync/internal/repository"
	"stylesync/internal/service"
	"stylesync/migrations"
)

//go:embed salon.example.yml
var exampleSeed []byte

func main() {
	file := flag.String("file", "", "seed file (default: bundled example)")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Str("cmd", "seed").Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	data := exampleSeed
	if *file != "" {
		if data, err = os.ReadFile(*file); err != nil {
			log.Fatal().Err(err).Msg("read seed file")
		}
	}
	seed, err := parseSeed(data)
	if err != nil {
		log.Fatal().Err(err).Msg("bad seed file")
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open DB")
	}
	defer db.Close()
	if err := migrations.Up(db); err != nil {
		log.Fatal().Err(err).Msg("failed to apply migrations")
	}

	catalog := repository.NewCatalogRepository(db)
	staff := service.NewStaffService(
		catalog,
		repository.NewAvailabilityRepository(db),
		repository.NewBookingRepository(db, cfg.Location()),
		cfg.Location(),
		cfg.StripeCurrency,
	)
	s := &seeder{
		catalog:      catalog,
		users:        repository.NewUserRepository(db),
		availability: staff,
		log:          log,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := s.run(ctx, seed); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
	log.Info().Int("services", len(seed.Services)).Int("staff", len(seed.Staff)).Msg("seed done")
}
