package main

import (
	"github.com/rs/zerolog/log"

	"portfolio-contact/internal/config"
	"portfolio-contact/internal/database"
	"portfolio-contact/internal/logging"
)

func main() {
	cfg := config.LoadConfig()
	logging.SetGlobal(logging.New(cfg.LogLevel, true))

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}

	log.Info().Msg("syncing postgres sequences")
	if err := database.SyncSequences(db, database.SequenceTables); err != nil {
		log.Fatal().Err(err).Msg("sequence sync failed")
	}
	log.Info().Msg("done")
}
