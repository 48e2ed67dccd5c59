package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"portfolio-contact/internal/config"
	"portfolio-contact/internal/models"
)

// PostgresDSN builds the connection string for the configured postgres.
func PostgresDSN(cfg *config.Config) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)
}

// Open connects to postgres when DB_HOST is set and to the sqlite file at
// DB_PATH otherwise, then migrates the schema.
func Open(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}
	if cfg.Development() {
		gormCfg.Logger = logger.Default.LogMode(logger.Info)
	}

	var (
		db  *gorm.DB
		err error
	)
	if cfg.UsePostgres() {
		db, err = gorm.Open(postgres.Open(PostgresDSN(cfg)), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		log.Info().Str("host", cfg.DBHost).Msg("connected to postgres")
	} else {
		db, err = OpenSQLite(cfg.DBPath, gormCfg)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.DBPath).Msg("connected to sqlite")
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func OpenSQLite(path string, gormCfg *gorm.Config) (*gorm.DB, error) {
	if gormCfg == nil {
		gormCfg = &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	}
	db, err := gorm.Open(sqlite.Open(path), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to sqlite at %s: %w", path, err)
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Submission{}, &models.SystemSetting{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	log.Debug().Msg("database migration completed")
	return nil
}

// SyncConfig overlays settings stored in the database onto cfg. Settings
// missing from the database are seeded from cfg when non-empty.
func SyncConfig(db *gorm.DB, cfg *config.Config) error {
	settings := []struct {
		Key   string
		Value *string
	}{
		{"RELAY_ACCESS_KEY", &cfg.RelayAccessKey},
		{"ADMIN_TOKEN", &cfg.AdminToken},
		{"TO_EMAIL", &cfg.ToEmail},
	}

	for _, s := range settings {
		var setting models.SystemSetting
		err := db.Where("key = ?", s.Key).Limit(1).Find(&setting).Error
		if err != nil {
			return fmt.Errorf("read setting %s: %w", s.Key, err)
		}
		if setting.Key != "" {
			if setting.Value != "" {
				*s.Value = setting.Value
			}
			continue
		}
		if *s.Value != "" {
			if err := db.Create(&models.SystemSetting{Key: s.Key, Value: *s.Value}).Error; err != nil {
				return fmt.Errorf("seed setting %s: %w", s.Key, err)
			}
		}
	}
	log.Debug().Msg("system settings synchronized from database")
	return nil
}
