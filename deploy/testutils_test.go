package deploy

import (
	"testing"
	"time"

	"github.com/wopanel/wopanel/catalog"
	"github.com/wopanel/wopanel/config"
	"github.com/wopanel/wopanel/db"
	"github.com/wopanel/wopanel/domain"
	"github.com/wopanel/wopanel/encryption"
	"github.com/wopanel/wopanel/provision"
	"github.com/wopanel/wopanel/repository"
	"github.com/wopanel/wopanel/vault"
	"gorm.io/gorm/logger"
)

// testEnv wires a deployment service against an in-memory database and a
// recording command runner. Only process execution is mocked.
type testEnv struct {
	service *Service
	runner  *MockCommandRunner
	sites   repository.SiteRepository
	vault   *vault.Service
	config  *config.Config
}

func newTestEnv(t *testing.T, maxConcurrent int) *testEnv {
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

	key, err := encryption.GenerateKey()
	if err != nil {
		t.Fatalf("Failed to generate test encryption key: %v", err)
	}
	encryptionSvc, err := encryption.NewEncryptionService(key)
	if err != nil {
		t.Fatalf("Failed to create test encryption service: %v", err)
	}

	cfg := &config.Config{
		DataDir:           t.TempDir(),
		ProvisionCommand:  "wo",
		WPCommand:         "wp",
		SitesRoot:         "/var/www",
		CreateSiteTimeout: time.Minute,
		PluginStepTimeout: time.Minute,
	}
	cfg.AssetsDir = cfg.DataDir + "/assets"

	siteRepo := repository.NewSiteRepository(database, encryptionSvc)
	assetRepo := repository.NewVaultAssetRepository(database)
	vaultSvc := vault.NewService(assetRepo, cfg)

	runner := &MockCommandRunner{}
	client := provision.NewClient(runner, cfg)
	resolver := NewResolver(vaultSvc, catalog.Default())

	return &testEnv{
		service: NewService(siteRepo, resolver, client, maxConcurrent),
		runner:  runner,
		sites:   siteRepo,
		vault:   vaultSvc,
		config:  cfg,
	}
}

func testRequest(siteDomain string, plugins ...domain.PluginReference) Request {
	return Request{
		Domain:     siteDomain,
		AdminEmail: "admin@" + siteDomain,
		AdminUser:  "admin",
		Stack:      domain.StackFastCGI,
		Plugins:    plugins,
	}
}

func repoPlugin(slug string) domain.PluginReference {
	return domain.PluginReference{
		Identifier: slug,
		Source:     domain.SourceRepository,
		Install:    true,
		Activate:   true,
	}
}
