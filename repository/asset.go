package repository

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/wopanel/wopanel/db"
	"github.com/wopanel/wopanel/domain"
	"gorm.io/gorm"
)

// VaultAssetRepository persists the index of uploaded packages. The
// deployment engine only ever reads from it; rows are created and removed by
// the upload surface.
type VaultAssetRepository interface {
	Create(asset *domain.VaultAsset) (*domain.VaultAsset, error)
	FindByID(id uuid.UUID) (*domain.VaultAsset, error)
	List() ([]*domain.VaultAsset, error)
	Delete(id uuid.UUID) error
}

type vaultAssetRepository struct {
	db     *gorm.DB
	mapper *VaultAssetMapper
}

func NewVaultAssetRepository(database *gorm.DB) VaultAssetRepository {
	return &vaultAssetRepository{
		db:     database,
		mapper: &VaultAssetMapper{},
	}
}

func (r *vaultAssetRepository) Create(asset *domain.VaultAsset) (*domain.VaultAsset, error) {
	m := r.mapper.ToModel(asset)
	if err := r.db.Create(m).Error; err != nil {
		slog.Error("Database operation failed",
			"layer", "repository",
			"operation", "create_vault_asset",
			"asset_name", asset.Name,
			"error", err)
		return nil, classifyAssetError(err)
	}
	return r.mapper.ToDomain(m), nil
}

func (r *vaultAssetRepository) FindByID(id uuid.UUID) (*domain.VaultAsset, error) {
	var m db.VaultAssetModel
	if err := r.db.First(&m, "id = ?", id).Error; err != nil {
		return nil, classifyAssetError(err)
	}
	return r.mapper.ToDomain(&m), nil
}

func (r *vaultAssetRepository) List() ([]*domain.VaultAsset, error) {
	var models []db.VaultAssetModel
	if err := r.db.Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, classifyAssetError(err)
	}

	assets := make([]*domain.VaultAsset, len(models))
	for i, m := range models {
		assets[i] = r.mapper.ToDomain(&m)
	}
	return assets, nil
}

func (r *vaultAssetRepository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&db.VaultAssetModel{}, "id = ?", id)
	if result.Error != nil {
		slog.Error("Database operation failed",
			"layer", "repository",
			"operation", "delete_vault_asset",
			"asset_id", id,
			"error", result.Error)
		return classifyAssetError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func classifyAssetError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}
