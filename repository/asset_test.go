package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVaultAssetRepository_CreateAndFind(t *testing.T) {
	repo := NewVaultAssetRepository(setupTestDB(t))

	asset := createTestAsset("premium-slider")
	created, err := repo.Create(asset)
	require.NoError(t, err)
	assert.Equal(t, asset.ID, created.ID)

	found, err := repo.FindByID(asset.ID)
	require.NoError(t, err)
	assert.Equal(t, "premium-slider", found.Name)
	assert.Equal(t, "premium-slider.zip", found.Filename)
	assert.Equal(t, int64(1024), found.SizeBytes)
	assert.Equal(t, "deadbeef", found.Checksum)
	assert.Equal(t, asset.StoragePath, found.StoragePath)
}

func TestVaultAssetRepository_FindByID_NotFound(t *testing.T) {
	repo := NewVaultAssetRepository(setupTestDB(t))

	_, err := repo.FindByID(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVaultAssetRepository_List(t *testing.T) {
	repo := NewVaultAssetRepository(setupTestDB(t))

	assets, err := repo.List()
	require.NoError(t, err)
	assert.Empty(t, assets)

	_, err = repo.Create(createTestAsset("first"))
	require.NoError(t, err)
	_, err = repo.Create(createTestAsset("second"))
	require.NoError(t, err)

	assets, err = repo.List()
	require.NoError(t, err)
	assert.Len(t, assets, 2)
}

func TestVaultAssetRepository_Delete(t *testing.T) {
	repo := NewVaultAssetRepository(setupTestDB(t))

	asset := createTestAsset("premium-slider")
	_, err := repo.Create(asset)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(asset.ID))

	_, err = repo.FindByID(asset.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Delete(asset.ID), ErrNotFound)
}
