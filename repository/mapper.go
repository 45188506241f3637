// Package repository provides the data access layer for sites and vault assets.
package repository

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/wopanel/wopanel/db"
	"github.com/wopanel/wopanel/domain"
	"github.com/wopanel/wopanel/encryption"
)

type SiteMapper struct {
	encryption *encryption.EncryptionService
}

func NewSiteMapper(encryptionSvc *encryption.EncryptionService) *SiteMapper {
	return &SiteMapper{encryption: encryptionSvc}
}

func (m *SiteMapper) ToDomain(s *db.SiteModel) *domain.Site {
	status, err := domain.ParseSiteStatus(s.Status)
	if err != nil {
		status = domain.SiteStatusUnknown
	}

	stack, err := domain.ParseStackType(s.Stack)
	if err != nil {
		stack = domain.StackFastCGI
	}

	// Decrypt the stored admin password if present
	var adminPassword string
	if s.AdminPassword != nil && m.encryption != nil {
		adminPassword, err = m.encryption.Decrypt(*s.AdminPassword)
		if err != nil {
			// The record is still usable without the password. This can
			// happen if the encryption key changed.
			slog.Error("Failed to decrypt admin password",
				"site_id", s.ID,
				"domain", s.Domain,
				"error", err)
			adminPassword = ""
		}
	}

	installs := make([]domain.PluginInstallResult, len(s.PluginInstalls))
	for i, p := range s.PluginInstalls {
		installs[i] = m.pluginInstallToDomain(&p)
	}

	return &domain.Site{
		ID:               s.ID,
		Domain:           s.Domain,
		AdminEmail:       s.AdminEmail,
		AdminUser:        s.AdminUser,
		AdminPassword:    adminPassword,
		Stack:            stack,
		Status:           status,
		StatusDetail:     s.StatusDetail,
		InstalledPlugins: installs,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

func (m *SiteMapper) ToModel(s *domain.Site) *db.SiteModel {
	modelObj := &db.SiteModel{
		BaseModel: db.BaseModel{
			ID:        s.ID,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		},
		Domain:       s.Domain,
		AdminEmail:   s.AdminEmail,
		AdminUser:    s.AdminUser,
		Stack:        s.Stack.String(),
		Status:       s.Status.String(),
		StatusDetail: s.StatusDetail,
	}

	if s.AdminPassword != "" && m.encryption != nil {
		encrypted, err := m.encryption.Encrypt(s.AdminPassword)
		if err != nil {
			slog.Error("Failed to encrypt admin password",
				"site_id", s.ID,
				"domain", s.Domain,
				"error", err)
		} else {
			modelObj.AdminPassword = &encrypted
		}
	}

	for i, p := range s.InstalledPlugins {
		modelObj.PluginInstalls = append(modelObj.PluginInstalls, db.PluginInstallModel{
			BaseModel:  db.BaseModel{ID: uuid.New()},
			SiteID:     s.ID,
			Position:   i,
			Identifier: p.Identifier,
			Source:     p.Source.String(),
			Installed:  p.Installed,
			Activated:  p.Activated,
			Error:      p.Error,
		})
	}

	return modelObj
}

func (m *SiteMapper) pluginInstallToDomain(p *db.PluginInstallModel) domain.PluginInstallResult {
	source, err := domain.ParsePluginSource(p.Source)
	if err != nil {
		source = domain.SourceRepository
	}
	return domain.PluginInstallResult{
		Identifier: p.Identifier,
		Source:     source,
		Installed:  p.Installed,
		Activated:  p.Activated,
		Error:      p.Error,
	}
}

type VaultAssetMapper struct{}

func (m *VaultAssetMapper) ToDomain(a *db.VaultAssetModel) *domain.VaultAsset {
	kind, err := domain.ParseAssetKind(a.Kind)
	if err != nil {
		kind = domain.AssetKindPlugin
	}

	return &domain.VaultAsset{
		ID:          a.ID,
		Name:        a.Name,
		Filename:    a.Filename,
		Kind:        kind,
		SizeBytes:   a.SizeBytes,
		Checksum:    a.Checksum,
		StoragePath: a.StoragePath,
		UploadedAt:  a.CreatedAt,
	}
}

func (m *VaultAssetMapper) ToModel(a *domain.VaultAsset) *db.VaultAssetModel {
	return &db.VaultAssetModel{
		BaseModel: db.BaseModel{
			ID:        a.ID,
			CreatedAt: a.UploadedAt,
		},
		Name:        a.Name,
		Filename:    a.Filename,
		Kind:        a.Kind.String(),
		SizeBytes:   a.SizeBytes,
		Checksum:    a.Checksum,
		StoragePath: a.StoragePath,
	}
}
