package repository

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wopanel/wopanel/db"
	"github.com/wopanel/wopanel/domain"
	"github.com/wopanel/wopanel/encryption"
	"gorm.io/gorm"
)

// SiteRepository is the single source of truth for what the system believes
// is deployed.
type SiteRepository interface {
	Create(site *domain.Site) (*domain.Site, error)
	Update(site *domain.Site) error
	FindByDomain(siteDomain string) (*domain.Site, error)
	List() ([]*domain.Site, error)
}

type siteRepository struct {
	db     *gorm.DB
	mapper *SiteMapper
}

func NewSiteRepository(database *gorm.DB, encryptionSvc *encryption.EncryptionService) SiteRepository {
	return &siteRepository{
		db:     database,
		mapper: NewSiteMapper(encryptionSvc),
	}
}

// Create inserts a new site record. The partial unique index on
// sites(domain) rejects a second non-failed record for the same domain, so
// the duplicate guard and the insert are a single atomic operation.
func (r *siteRepository) Create(site *domain.Site) (*domain.Site, error) {
	m := r.mapper.ToModel(site)
	if err := r.db.Create(m).Error; err != nil {
		slog.Error("Database operation failed",
			"layer", "repository",
			"operation", "create_site",
			"site_domain", site.Domain,
			"error", err)
		return nil, classifySiteError(err)
	}
	return r.mapper.ToDomain(m), nil
}

// Update persists the site row and replaces its plugin install rows so the
// stored sequence always matches the in-memory one.
func (r *siteRepository) Update(site *domain.Site) error {
	m := r.mapper.ToModel(site)

	err := r.db.Transaction(func(tx *gorm.DB) error {
		// CreatedAt must never change after initial creation
		res := tx.Model(&db.SiteModel{}).
			Where("id = ?", m.ID).
			Select("*").
			Omit("created_at").
			Updates(map[string]any{
				"domain":         m.Domain,
				"admin_email":    m.AdminEmail,
				"admin_user":     m.AdminUser,
				"admin_password": m.AdminPassword,
				"stack":          m.Stack,
				"status":         m.Status,
				"status_detail":  m.StatusDetail,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("site_id = ?", m.ID).Delete(&db.PluginInstallModel{}).Error; err != nil {
			return err
		}
		for i := range m.PluginInstalls {
			if err := tx.Create(&m.PluginInstalls[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		slog.Error("Database operation failed",
			"layer", "repository",
			"operation", "update_site",
			"site_id", site.ID,
			"site_domain", site.Domain,
			"error", err)
		return classifySiteError(err)
	}
	return nil
}

func (r *siteRepository) FindByDomain(siteDomain string) (*domain.Site, error) {
	var m db.SiteModel
	err := r.db.
		Preload("PluginInstalls", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position ASC")
		}).
		Where("domain = ?", siteDomain).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		return nil, classifySiteError(err)
	}
	return r.mapper.ToDomain(&m), nil
}

func (r *siteRepository) List() ([]*domain.Site, error) {
	var models []db.SiteModel
	err := r.db.
		Preload("PluginInstalls", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position ASC")
		}).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, classifySiteError(err)
	}

	sites := make([]*domain.Site, len(models))
	for i, m := range models {
		sites[i] = r.mapper.ToDomain(&m)
	}
	return sites, nil
}

// classifySiteError maps gorm/sqlite errors onto the repository sentinels
func classifySiteError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case strings.Contains(err.Error(), "UNIQUE constraint failed: sites.domain"):
		return ErrDuplicateDomain
	default:
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
}
