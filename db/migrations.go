package db

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// MigrationModel tracks which manual migrations have been applied
type MigrationModel struct {
	ID        int    `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	AppliedAt time.Time
}

func (MigrationModel) TableName() string {
	return "migrations"
}

// Migration represents a single database migration
type Migration struct {
	ID   int
	Name string
	Up   func(*gorm.DB) error
}

// allMigrations is the ordered list of all migrations.
// Each migration has a unique ID and is applied in order.
var allMigrations = []Migration{
	{
		ID:   1,
		Name: "0001_unique_active_site_domain",
		Up:   migration0001UniqueActiveSiteDomain,
	},
}

// migration0001UniqueActiveSiteDomain enforces domain uniqueness across all
// non-failed site records. A failed deployment attempt may be retried for the
// same domain, so failed rows are excluded from the constraint. The insert
// itself is the duplicate-domain guard; there is no separate read-then-write.
func migration0001UniqueActiveSiteDomain(database *gorm.DB) error {
	return database.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_sites_domain_active
		 ON sites(domain) WHERE status != 'failed'`,
	).Error
}

// AllModels returns all the models that need to be migrated.
// This is the single source of truth for database migrations.
func AllModels() []any {
	return []any{
		&MigrationModel{},
		&SiteModel{},
		&PluginInstallModel{},
		&VaultAssetModel{},
	}
}

// AutoMigrateAll runs auto-migration for all application models followed by
// the manual migrations.
func AutoMigrateAll(database *gorm.DB) error {
	if err := database.AutoMigrate(AllModels()...); err != nil {
		return err
	}
	return RunMigrations(database, len(allMigrations))
}

// RunMigrations runs all migrations up to and including the specified ID.
// If targetID is 0 or negative, all migrations are run.
func RunMigrations(database *gorm.DB, targetID int) error {
	if targetID <= 0 {
		targetID = len(allMigrations)
	}

	for _, migration := range allMigrations {
		if migration.ID > targetID {
			break
		}

		var applied int64
		if err := database.Model(&MigrationModel{}).
			Where("id = ?", migration.ID).
			Count(&applied).Error; err != nil {
			return fmt.Errorf("failed to check migration %s: %w", migration.Name, err)
		}
		if applied > 0 {
			continue
		}

		if err := migration.Up(database); err != nil {
			return fmt.Errorf("migration %s failed: %w", migration.Name, err)
		}

		record := MigrationModel{ID: migration.ID, Name: migration.Name, AppliedAt: time.Now()}
		if err := database.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to record migration %s: %w", migration.Name, err)
		}
	}

	return nil
}
