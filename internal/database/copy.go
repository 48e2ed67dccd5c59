package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"portfolio-contact/internal/models"
)

const copyBatchSize = 200

// CopyAll moves every submission and setting from src to dst. Rows whose
// primary key already exists in dst are left alone, so a copy can be
// rerun after a partial failure.
func CopyAll(src, dst *gorm.DB) error {
	if err := Migrate(dst); err != nil {
		return err
	}

	var submissions []models.Submission
	n, err := copyTable(src, dst, "submissions", &submissions, func() int { return len(submissions) })
	if err != nil {
		return err
	}
	log.Info().Str("table", "submissions").Int("rows", n).Msg("table copied")

	var settings []models.SystemSetting
	n, err = copyTable(src, dst, "system_settings", &settings, func() int { return len(settings) })
	if err != nil {
		return err
	}
	log.Info().Str("table", "system_settings").Int("rows", n).Msg("table copied")
	return nil
}

func copyTable(src, dst *gorm.DB, table string, batch interface{}, size func() int) (int, error) {
	copied := 0
	res := src.FindInBatches(batch, copyBatchSize, func(_ *gorm.DB, _ int) error {
		return dst.Transaction(func(tx *gorm.DB) error {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(batch).Error; err != nil {
				return err
			}
			copied += size()
			return nil
		})
	})
	if res.Error != nil {
		return copied, fmt.Errorf("copy %s: %w", table, res.Error)
	}
	return copied, nil
}

// SequenceTables lists the tables with a serial id.
var SequenceTables = []string{"submissions"}

// SyncSequences moves postgres id sequences past the highest copied id.
// It is a no-op on other databases.
func SyncSequences(db *gorm.DB, tables []string) error {
	if db.Dialector.Name() != "postgres" {
		log.Warn().Str("dialect", db.Dialector.Name()).Msg("sequence sync only applies to postgres")
		return nil
	}
	for _, table := range tables {
		query := "SELECT setval(pg_get_serial_sequence(?, 'id'), coalesce(max(id), 0) + 1, false) FROM " + table
		if err := db.Exec(query, table).Error; err != nil {
			return fmt.Errorf("sync sequence for %s: %w", table, err)
		}
		log.Info().Str("table", table).Msg("sequence synced")
	}
	return nil
}
