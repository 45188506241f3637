// Package vault manages the index of uploaded plugin and theme packages.
package vault

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/wopanel/wopanel/config"
	"github.com/wopanel/wopanel/domain"
	"github.com/wopanel/wopanel/repository"
)

// ErrAssetNotFound is returned when a vault identifier does not exist in the
// index.
var ErrAssetNotFound = errors.New("vault asset not found")

// Service provides access to the asset vault. The deployment engine only
// calls Lookup; Register and Remove belong to the administrative upload
// surface.
type Service struct {
	assets repository.VaultAssetRepository
	config *config.Config
}

func NewService(assets repository.VaultAssetRepository, cfg *config.Config) *Service {
	return &Service{assets: assets, config: cfg}
}

// Lookup resolves a vault asset id to its metadata. The index is local and
// authoritative, so a miss here is definitive.
func (s *Service) Lookup(id uuid.UUID) (*domain.VaultAsset, error) {
	asset, err := s.assets.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, id)
		}
		return nil, err
	}
	return asset, nil
}

// List returns all indexed assets in upload order
func (s *Service) List() ([]*domain.VaultAsset, error) {
	return s.assets.List()
}

// Register stores an uploaded package under the assets directory and indexes
// it. The stored filename carries the kind prefix so the directory stays
// readable without the index.
func (s *Service) Register(name string, kind domain.AssetKind, content io.Reader) (*domain.VaultAsset, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("invalid asset kind: %q", kind)
	}
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".zip" {
		return nil, fmt.Errorf("unsupported package format %q: only .zip packages are accepted", ext)
	}

	asset := domain.NewVaultAsset(strings.TrimSuffix(filepath.Base(name), ext), filepath.Base(name), kind)

	storedName := fmt.Sprintf("%s_%s_%s%s", kind, slug.Make(asset.Name), asset.ID, ext)
	storagePath := filepath.Join(s.config.AssetsDir, storedName)

	if err := os.MkdirAll(s.config.AssetsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create assets directory: %w", err)
	}

	file, err := os.Create(storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to store asset file: %w", err)
	}

	hasher := sha256.New()
	size, err := io.Copy(io.MultiWriter(file, hasher), content)
	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(storagePath)
		return nil, fmt.Errorf("failed to write asset file: %w", err)
	}

	asset.SizeBytes = size
	asset.Checksum = hex.EncodeToString(hasher.Sum(nil))
	asset.StoragePath = storagePath

	created, err := s.assets.Create(&asset)
	if err != nil {
		// Cleanup on failure so the directory never holds unindexed files
		if cleanupErr := os.Remove(storagePath); cleanupErr != nil {
			slog.Error("Failed to remove asset file after index failure",
				"storage_path", storagePath,
				"error", cleanupErr)
		}
		return nil, err
	}

	slog.Info("Vault asset registered",
		"layer", "vault",
		"operation", "register_asset",
		"asset_id", created.ID,
		"asset_kind", created.Kind,
		"size_bytes", created.SizeBytes)
	return created, nil
}

// Remove deletes an asset from the index and its stored file
func (s *Service) Remove(id uuid.UUID) error {
	asset, err := s.Lookup(id)
	if err != nil {
		return err
	}

	if err := s.assets.Delete(id); err != nil {
		return err
	}

	if err := os.Remove(asset.StoragePath); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to remove asset file, index row already deleted",
			"asset_id", id,
			"storage_path", asset.StoragePath,
			"error", err)
	}
	return nil
}
