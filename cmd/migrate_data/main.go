package main

import (
	"github.com/rs/zerolog/log"

	"portfolio-contact/internal/config"
	"portfolio-contact/internal/database"
	"portfolio-contact/internal/logging"
)

// Copies the sqlite database at DB_PATH into the postgres database
// configured by DB_HOST and friends.
func main() {
	cfg := config.LoadConfig()
	logging.SetGlobal(logging.New(cfg.LogLevel, true))

	if !cfg.UsePostgres() {
		log.Fatal().Msg("DB_HOST must point at the destination postgres")
	}

	src, err := database.OpenSQLite(cfg.DBPath, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open source")
	}
	log.Info().Str("path", cfg.DBPath).Msg("connected to sqlite source")

	dst, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open destination")
	}

	log.Info().Msg("starting data migration")
	if err := database.CopyAll(src, dst); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	if err := database.SyncSequences(dst, database.SequenceTables); err != nil {
		log.Fatal().Err(err).Msg("sequence sync failed")
	}
	log.Info().Msg("migration completed")
}
