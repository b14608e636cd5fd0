package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/open436/section-service/models"
)

// newTestDB opens an isolated in-memory sqlite database. A single
// connection keeps the database alive for the whole test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Section{}))
	return db
}

// mustCreate seeds one section through the store so defaults apply.
func mustCreate(t *testing.T, store *SectionStore, slug, name string) *models.Section {
	t.Helper()
	section, err := store.Create(CreateInput{
		Slug:  slug,
		Name:  name,
		Color: "#1976D2",
	})
	require.NoError(t, err)
	return section
}
