package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AssetKind represents the kind of an uploaded package
type AssetKind string

const (
	AssetKindPlugin AssetKind = "plugin"
	AssetKindTheme  AssetKind = "theme"
)

// String implements the Stringer interface
func (k AssetKind) String() string {
	return string(k)
}

// IsValid checks if the AssetKind is valid
func (k AssetKind) IsValid() bool {
	switch k {
	case AssetKindPlugin, AssetKindTheme:
		return true
	default:
		return false
	}
}

// ParseAssetKind parses a string into an AssetKind
func ParseAssetKind(s string) (AssetKind, error) {
	kind := AssetKind(s)
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid asset kind: %q", s)
	}
	return kind, nil
}

// VaultAsset represents one uploaded plugin or theme package. The index owns
// the metadata; the file bytes at StoragePath are owned by the upload
// collaborator and the engine treats the path as opaque.
type VaultAsset struct {
	ID          uuid.UUID
	Name        string
	Filename    string
	Kind        AssetKind
	SizeBytes   int64
	Checksum    string // hex-encoded SHA-256 of the package file
	StoragePath string
	UploadedAt  time.Time
}

func NewVaultAsset(name, filename string, kind AssetKind) VaultAsset {
	return VaultAsset{
		ID:       uuid.New(),
		Name:     name,
		Filename: filename,
		Kind:     kind,
	}
}
