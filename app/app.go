// Package app provides the main application context for Wopanel, managing
// the database and services.
package app

import (
	"os"

	"github.com/wopanel/wopanel/catalog"
	"github.com/wopanel/wopanel/config"
	"github.com/wopanel/wopanel/db"
	"github.com/wopanel/wopanel/deploy"
	"github.com/wopanel/wopanel/encryption"
	"github.com/wopanel/wopanel/executor"
	"github.com/wopanel/wopanel/provision"
	"github.com/wopanel/wopanel/repository"
	"github.com/wopanel/wopanel/vault"
	"gorm.io/gorm"
)

var (
	// Version is set at build time via -ldflags
	Version = "dev"

	database      *gorm.DB
	deployService *deploy.Service
	vaultService  *vault.Service
	pluginCatalog *catalog.Catalog
	appConfig     *config.Config
)

// InitializeWithConfig initializes the app with a pre-configured Config
func InitializeWithConfig(cfg *config.Config) error {
	var err error

	appConfig = cfg

	// Ensure required directories exist
	if err := os.MkdirAll(appConfig.DataDir, 0o755); err != nil {
		return err
	}
	if err := os.MkdirAll(appConfig.AssetsDir, 0o755); err != nil {
		return err
	}

	database, err = db.InitDB(appConfig.DatabasePath)
	if err != nil {
		return err
	}

	encryptionSvc, err := encryption.NewEncryptionService(appConfig.EncryptionKey)
	if err != nil {
		return err
	}

	pluginCatalog, err = catalog.Load(appConfig.CatalogPath)
	if err != nil {
		return err
	}

	// Initialize repositories
	siteRepo := repository.NewSiteRepository(database, encryptionSvc)
	assetRepo := repository.NewVaultAssetRepository(database)

	// Initialize services with dependency injection
	vaultService = vault.NewService(assetRepo, appConfig)
	resolver := deploy.NewResolver(vaultService, pluginCatalog)
	provisioner := provision.NewClient(executor.NewProcessRunner(), appConfig)
	deployService = deploy.NewService(siteRepo, resolver, provisioner, appConfig.MaxConcurrentDeployments)

	return nil
}

func GetDeployService() *deploy.Service {
	return deployService
}

func GetVaultService() *vault.Service {
	return vaultService
}

func GetCatalog() *catalog.Catalog {
	return pluginCatalog
}

func GetConfig() *config.Config {
	return appConfig
}
