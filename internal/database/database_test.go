package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"portfolio-contact/internal/config"
	"portfolio-contact/internal/contact"
	"portfolio-contact/internal/models"
	"portfolio-contact/internal/relay"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(&config.Config{DBPath: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func attempt(status contact.Status, failure contact.FailureKind) contact.Attempt {
	return contact.Attempt{
		SessionID: "s1",
		Locale:    "fr",
		Payload: relay.Payload{
			Name:    "Jean Dupont",
			Email:   "jean@example.com",
			Message: "Bonjour, je souhaite vous contacter.",
		},
		Status:   status,
		Failure:  failure,
		Duration: 1500 * time.Millisecond,
	}
}

func TestRecordAndList(t *testing.T) {
	repo := NewSubmissionRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, attempt(contact.StatusSuccess, contact.FailureNone)))
	failed := attempt(contact.StatusError, contact.FailureRejected)
	failed.RelayMessage = "Quota exceeded"
	require.NoError(t, repo.Record(ctx, failed))

	all, total, err := repo.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, all, 2)
	assert.Equal(t, "error", all[0].Status)
	assert.Equal(t, "Quota exceeded", all[0].RelayMessage)
	assert.Equal(t, "rejected", all[0].Failure)
	assert.EqualValues(t, 1500, all[1].DurationMS)

	ok, total, err := repo.List(ctx, ListFilter{Status: "success"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, ok, 1)
	assert.Equal(t, "jean@example.com", ok[0].Email)
}

func TestListPagination(t *testing.T) {
	repo := NewSubmissionRepository(openTestDB(t))
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Record(ctx, attempt(contact.StatusSuccess, contact.FailureNone)))
	}

	page, total, err := repo.List(ctx, ListFilter{Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, page, 1)
}

func TestEachAndDelete(t *testing.T) {
	repo := NewSubmissionRepository(openTestDB(t))
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Record(ctx, attempt(contact.StatusSuccess, contact.FailureNone)))
	}

	var ids []uint
	require.NoError(t, repo.Each(ctx, func(s models.Submission) error {
		ids = append(ids, s.ID)
		return nil
	}))
	require.Len(t, ids, 3)

	found, err := repo.Delete(ctx, ids[0])
	require.NoError(t, err)
	assert.True(t, found)

	found, err = repo.Delete(ctx, ids[0])
	require.NoError(t, err)
	assert.False(t, found)

	stop := errors.New("stop")
	err = repo.Each(ctx, func(models.Submission) error { return stop })
	assert.ErrorIs(t, err, stop)
}

func TestSyncConfigSeedsThenOverlays(t *testing.T) {
	db := openTestDB(t)

	cfg := &config.Config{RelayAccessKey: "from-env"}
	require.NoError(t, SyncConfig(db, cfg))
	assert.Equal(t, "from-env", cfg.RelayAccessKey)

	require.NoError(t, db.Model(&models.SystemSetting{}).
		Where("key = ?", "RELAY_ACCESS_KEY").
		Update("value", "from-db").Error)
	require.NoError(t, db.Create(&models.SystemSetting{Key: "ADMIN_TOKEN", Value: "secret"}).Error)

	next := &config.Config{RelayAccessKey: "from-env"}
	require.NoError(t, SyncConfig(db, next))
	assert.Equal(t, "from-db", next.RelayAccessKey)
	assert.Equal(t, "secret", next.AdminToken)
}

func TestPostgresDSN(t *testing.T) {
	dsn := PostgresDSN(&config.Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5432", DBSSLMode: "disable"})
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable", dsn)
}

func TestCopyAllIsRerunnable(t *testing.T) {
	src := openTestDB(t)
	dst := openTestDB(t)
	ctx := context.Background()

	repo := NewSubmissionRepository(src)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Record(ctx, attempt(contact.StatusSuccess, contact.FailureNone)))
	}
	require.NoError(t, src.Create(&models.SystemSetting{Key: "ADMIN_TOKEN", Value: "secret"}).Error)

	require.NoError(t, CopyAll(src, dst))
	require.NoError(t, CopyAll(src, dst))

	copied, total, err := NewSubmissionRepository(dst).List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, "Jean Dupont", copied[0].Name)

	var settings []models.SystemSetting
	require.NoError(t, dst.Find(&settings).Error)
	require.Len(t, settings, 1)
	assert.Equal(t, "secret", settings[0].Value)
}

func TestSyncSequencesSkipsSQLite(t *testing.T) {
	assert.NoError(t, SyncSequences(openTestDB(t), SequenceTables))
}
