package web

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/wopanel/wopanel/deploy"
	"github.com/wopanel/wopanel/domain"
)

// MockDeploymentEngine for handler tests
type MockDeploymentEngine struct {
	StartDeploymentFunc func(ctx context.Context, req deploy.Request) (*domain.Site, error)
	GetSiteFunc         func(siteDomain string) (*domain.Site, error)
	ListSitesFunc       func() ([]*domain.Site, error)
}

func (m *MockDeploymentEngine) StartDeployment(ctx context.Context, req deploy.Request) (*domain.Site, error) {
	if m.StartDeploymentFunc != nil {
		return m.StartDeploymentFunc(ctx, req)
	}
	site := domain.NewSite(req.Domain, req.AdminEmail, req.AdminUser, req.Stack)
	site.Status = domain.SiteStatusActive
	return &site, nil
}

func (m *MockDeploymentEngine) GetSite(siteDomain string) (*domain.Site, error) {
	if m.GetSiteFunc != nil {
		return m.GetSiteFunc(siteDomain)
	}
	site := domain.NewSite(siteDomain, "admin@"+siteDomain, "admin", domain.StackFastCGI)
	site.Status = domain.SiteStatusActive
	return &site, nil
}

func (m *MockDeploymentEngine) ListSites() ([]*domain.Site, error) {
	if m.ListSitesFunc != nil {
		return m.ListSitesFunc()
	}
	return []*domain.Site{}, nil
}

// MockAssetVault for handler tests
type MockAssetVault struct {
	ListFunc     func() ([]*domain.VaultAsset, error)
	RegisterFunc func(name string, kind domain.AssetKind, content io.Reader) (*domain.VaultAsset, error)
	RemoveFunc   func(id uuid.UUID) error
}

func (m *MockAssetVault) List() ([]*domain.VaultAsset, error) {
	if m.ListFunc != nil {
		return m.ListFunc()
	}
	return []*domain.VaultAsset{}, nil
}

func (m *MockAssetVault) Register(name string, kind domain.AssetKind, content io.Reader) (*domain.VaultAsset, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(name, kind, content)
	}
	asset := domain.NewVaultAsset(name, name, kind)
	return &asset, nil
}

func (m *MockAssetVault) Remove(id uuid.UUID) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(id)
	}
	return nil
}
