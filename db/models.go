// Package db provides database models and utilities for Wopanel.
package db

import (
	"time"

	"github.com/google/uuid"
)

type BaseModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type SiteModel struct {
	BaseModel
	Domain        string  `gorm:"not null;index;check:domain <> ''"`
	AdminEmail    string  `gorm:"not null;check:admin_email <> ''"`
	AdminUser     string  `gorm:"not null;check:admin_user <> ''"`
	AdminPassword *string `gorm:"type:text"`                    // fernet-encrypted
	Stack         string  `gorm:"not null;check:stack <> ''"`   // fastcgi, redis
	Status        string  `gorm:"not null;check:status <> ''"`  // pending, active, failed
	StatusDetail  string  `gorm:"type:text"`                    // stderr of a failed provisioning run

	PluginInstalls []PluginInstallModel `gorm:"foreignKey:SiteID;constraint:OnDelete:CASCADE"`
}

func (SiteModel) TableName() string {
	return "sites"
}

// PluginInstallModel records one plugin step outcome for a site. Position
// preserves the caller-supplied install order.
type PluginInstallModel struct {
	BaseModel
	SiteID     uuid.UUID `gorm:"not null;index"`
	Position   int       `gorm:"not null"`
	Identifier string    `gorm:"not null;check:identifier <> ''"`
	Source     string    `gorm:"not null;check:source <> ''"` // repository, vault
	Installed  bool      `gorm:"not null"`
	Activated  bool      `gorm:"not null"`
	Error      string    `gorm:"type:text"`

	Site SiteModel `gorm:"foreignKey:SiteID;constraint:OnDelete:CASCADE"`
}

func (PluginInstallModel) TableName() string {
	return "plugin_installs"
}

type VaultAssetModel struct {
	BaseModel
	Name        string `gorm:"not null;check:name <> ''"`
	Filename    string `gorm:"not null;check:filename <> ''"`
	Kind        string `gorm:"not null;check:kind <> ''"` // plugin, theme
	SizeBytes   int64  `gorm:"not null"`
	Checksum    string `gorm:"not null"`
	StoragePath string `gorm:"not null;check:storage_path <> ''"`
}

func (VaultAssetModel) TableName() string {
	return "vault_assets"
}
