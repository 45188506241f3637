package db

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMigratedDB(t *testing.T) *gorm.DB {
	database, err := InitDatabase(DBConfig{
		Path:     ":memory:",
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)
	require.NoError(t, AutoMigrateAll(database))
	return database
}

func newSiteModel(siteDomain, status string) *SiteModel {
	return &SiteModel{
		BaseModel:  BaseModel{ID: uuid.New()},
		Domain:     siteDomain,
		AdminEmail: "admin@" + siteDomain,
		AdminUser:  "admin",
		Stack:      "fastcgi",
		Status:     status,
	}
}

func TestAutoMigrateAll_CreatesTables(t *testing.T) {
	database := setupMigratedDB(t)

	for _, table := range []string{"sites", "plugin_installs", "vault_assets", "migrations"} {
		assert.True(t, database.Migrator().HasTable(table), "missing table %s", table)
	}
}

func TestMigrations_AreRecordedOnce(t *testing.T) {
	database := setupMigratedDB(t)

	// Re-running is a no-op
	require.NoError(t, AutoMigrateAll(database))

	var count int64
	require.NoError(t, database.Model(&MigrationModel{}).Count(&count).Error)
	assert.Equal(t, int64(len(allMigrations)), count)
}

func TestUniqueActiveDomainIndex(t *testing.T) {
	database := setupMigratedDB(t)

	require.NoError(t, database.Create(newSiteModel("example.com", "active")).Error)

	// A second live record for the same domain is rejected
	err := database.Create(newSiteModel("example.com", "pending")).Error
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNIQUE constraint failed: sites.domain")

	// Failed records do not participate in the constraint
	require.NoError(t, database.Create(newSiteModel("other.example.com", "failed")).Error)
	require.NoError(t, database.Create(newSiteModel("other.example.com", "failed")).Error)
	require.NoError(t, database.Create(newSiteModel("other.example.com", "pending")).Error)
}
