package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/wopanel/wopanel/db"
	"github.com/wopanel/wopanel/domain"
	"github.com/wopanel/wopanel/encryption"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	database, err := db.InitDatabase(db.DBConfig{
		Path:     ":memory:",
		LogLevel: logger.Silent,
	})
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}

	if err := db.AutoMigrateAll(database); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return database
}

// setupTestEncryption creates an encryption service with a fresh key
func setupTestEncryption(t *testing.T) *encryption.EncryptionService {
	key, err := encryption.GenerateKey()
	if err != nil {
		t.Fatalf("Failed to generate test encryption key: %v", err)
	}

	svc, err := encryption.NewEncryptionService(key)
	if err != nil {
		t.Fatalf("Failed to create test encryption service: %v", err)
	}
	return svc
}

func setupSiteRepository(t *testing.T) SiteRepository {
	return NewSiteRepository(setupTestDB(t), setupTestEncryption(t))
}

// createTestSite builds a pending site for repository tests
func createTestSite(siteDomain string) *domain.Site {
	site := domain.NewSite(siteDomain, "admin@"+siteDomain, "admin", domain.StackFastCGI)
	site.AdminPassword = "test-password"
	return &site
}

func createTestAsset(name string) *domain.VaultAsset {
	asset := domain.NewVaultAsset(name, name+".zip", domain.AssetKindPlugin)
	asset.SizeBytes = 1024
	asset.Checksum = "deadbeef"
	asset.StoragePath = "/tmp/assets/" + name + "_" + uuid.NewString() + ".zip"
	return &asset
}
