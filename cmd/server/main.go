package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"portfolio-contact/internal/api"
	"portfolio-contact/internal/config"
	"portfolio-contact/internal/contact"
	"portfolio-contact/internal/database"
	"portfolio-contact/internal/i18n"
	"portfolio-contact/internal/logging"
	"portfolio-contact/internal/metrics"
	"portfolio-contact/internal/relay"
	"portfolio-contact/internal/session"
	"portfolio-contact/internal/ws"
)

func main() {
	cfg := config.LoadConfig()
	logger := logging.New(cfg.LogLevel, cfg.Development())
	logging.SetGlobal(logger)
	if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	if err := database.SyncConfig(db, cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to sync settings")
	}

	catalog, err := i18n.New(cfg.DefaultLocale)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load translations")
	}

	deliverer, err := relay.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure relay")
	}
	if cfg.RelayDriver == config.RelayWeb3Forms && cfg.RelayAccessKey == "" {
		log.Error().Msg("RELAY_ACCESS_KEY is not set, every submission will fail")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New(prometheus.DefaultRegisterer)
	repo := database.NewSubmissionRepository(db)
	recorder := m.Recorder(repo)

	hub := ws.NewHub(cfg.AllowedOrigin, logger)
	go hub.Run(ctx)

	sessions := session.NewManager(cfg.SessionTTL, func(id, locale string) *contact.Controller {
		return contact.NewController(contact.Options{
			SessionID:  id,
			Locale:     locale,
			Resolver:   catalog.Translator(locale),
			Relay:      deliverer,
			Recorder:   recorder,
			ResetDelay: cfg.StatusResetDelay,
			Logger:     &logger,
			Observer: func(snap contact.Snapshot) {
				hub.Publish(id, api.EventState, snap)
			},
		})
	},
		session.WithGauge(m.ActiveSessions),
		session.WithCapacity(cfg.SessionMax),
		session.WithLogger(logger),
		session.OnEvicted(func(s *session.Session) { hub.DropSession(s.ID) }),
	)
	sessions.Start()

	contactHandler := api.NewContactHandler(sessions, catalog, hub, cfg.SessionTTL)
	contactHandler.Secure = !cfg.Development()

	r := api.NewRouter(api.RouterConfig{
		AllowedOrigin: cfg.AllowedOrigin,
		AdminToken:    cfg.AdminToken,
		Logger:        logger,
		Contact:       contactHandler,
		I18n:          api.NewI18nHandler(catalog),
		Submissions:   api.NewSubmissionsHandler(repo),
		Gatherer:      prometheus.DefaultGatherer,
		DB:            db,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("relay", cfg.RelayDriver).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to run server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.RelayTimeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	sessions.Stop()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
