package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wopanel/wopanel/catalog"
	"github.com/wopanel/wopanel/deploy"
	"github.com/wopanel/wopanel/domain"
	"github.com/wopanel/wopanel/repository"
	"github.com/wopanel/wopanel/vault"
)

func newTestServer(engine *MockDeploymentEngine, assetVault *MockAssetVault) *httptest.Server {
	if engine == nil {
		engine = &MockDeploymentEngine{}
	}
	if assetVault == nil {
		assetVault = &MockAssetVault{}
	}
	h := NewHandlers(engine, assetVault, catalog.Default())
	return httptest.NewServer(NewRouter(h))
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(nil, nil)
	defer server.Close()

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateSite_Success(t *testing.T) {
	var captured deploy.Request
	engine := &MockDeploymentEngine{
		StartDeploymentFunc: func(ctx context.Context, req deploy.Request) (*domain.Site, error) {
			captured = req
			site := domain.NewSite(req.Domain, req.AdminEmail, req.AdminUser, req.Stack)
			site.Status = domain.SiteStatusActive
			site.InstalledPlugins = []domain.PluginInstallResult{
				{Identifier: "elementor", Source: domain.SourceRepository, Installed: true, Activated: true},
			}
			return &site, nil
		},
	}
	server := newTestServer(engine, nil)
	defer server.Close()

	body := `{
		"domain": "example.com",
		"admin_email": "admin@example.com",
		"admin_user": "admin",
		"stack": "redis",
		"plugins": [
			{"identifier": "elementor", "source": "repository", "install": true, "activate": true}
		]
	}`
	resp, err := http.Post(server.URL+"/api/sites", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	assert.Equal(t, "example.com", captured.Domain)
	assert.Equal(t, domain.StackRedis, captured.Stack)
	require.Len(t, captured.Plugins, 1)
	assert.Equal(t, domain.SourceRepository, captured.Plugins[0].Source)
	assert.True(t, captured.Plugins[0].Activate)

	view := decodeJSON[siteView](t, resp)
	assert.Equal(t, "example.com", view.Domain)
	assert.Equal(t, "active", view.Status)
	require.Len(t, view.Plugins, 1)
	assert.True(t, view.Plugins[0].Activated)
}

func TestCreateSite_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: "{nope"},
		{name: "invalid stack", body: `{"domain":"example.com","admin_email":"a@b.c","admin_user":"a","stack":"varnish"}`},
		{
			name: "invalid plugin source",
			body: `{"domain":"example.com","admin_email":"a@b.c","admin_user":"a","stack":"fastcgi","plugins":[{"identifier":"x","source":"marketplace"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(nil, nil)
			defer server.Close()

			resp, err := http.Post(server.URL+"/api/sites", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestCreateSite_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "duplicate domain",
			err:        fmt.Errorf("%w: %w", deploy.ErrValidation, repository.ErrDuplicateDomain),
			wantStatus: http.StatusConflict,
		},
		{
			name:       "validation",
			err:        fmt.Errorf("%w: admin email is required", deploy.ErrValidation),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown vault asset",
			err:        fmt.Errorf("%w: %w", deploy.ErrValidation, vault.ErrAssetNotFound),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "storage unavailable",
			err:        repository.ErrStorageUnavailable,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "canceled before provisioning",
			err:        fmt.Errorf("%w: context canceled", deploy.ErrDeploymentCanceled),
			wantStatus: http.StatusRequestTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &MockDeploymentEngine{
				StartDeploymentFunc: func(ctx context.Context, req deploy.Request) (*domain.Site, error) {
					return nil, tt.err
				},
			}
			server := newTestServer(engine, nil)
			defer server.Close()

			body := `{"domain":"example.com","admin_email":"a@b.c","admin_user":"a","stack":"fastcgi"}`
			resp, err := http.Post(server.URL+"/api/sites", "application/json", strings.NewReader(body))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestCreateSite_ProvisioningFailureIncludesSite(t *testing.T) {
	engine := &MockDeploymentEngine{
		StartDeploymentFunc: func(ctx context.Context, req deploy.Request) (*domain.Site, error) {
			site := domain.NewSite(req.Domain, req.AdminEmail, req.AdminUser, req.Stack)
			site.Status = domain.SiteStatusFailed
			site.StatusDetail = "site creation failed"
			return &site, fmt.Errorf("%w: exit 1", deploy.ErrProvisioningFailed)
		},
	}
	server := newTestServer(engine, nil)
	defer server.Close()

	body := `{"domain":"example.com","admin_email":"a@b.c","admin_user":"a","stack":"fastcgi"}`
	resp, err := http.Post(server.URL+"/api/sites", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	errResp := decodeJSON[errorResponse](t, resp)
	require.NotNil(t, errResp.Site)
	assert.Equal(t, "failed", errResp.Site.Status)
	assert.Equal(t, "site creation failed", errResp.Site.StatusDetail)
}

func TestGetSite(t *testing.T) {
	server := newTestServer(nil, nil)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/sites/example.com")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	view := decodeJSON[siteView](t, resp)
	assert.Equal(t, "example.com", view.Domain)
}

func TestGetSite_NotFound(t *testing.T) {
	engine := &MockDeploymentEngine{
		GetSiteFunc: func(siteDomain string) (*domain.Site, error) {
			return nil, repository.ErrNotFound
		},
	}
	server := newTestServer(engine, nil)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/sites/missing.example.com")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListSites(t *testing.T) {
	engine := &MockDeploymentEngine{
		ListSitesFunc: func() ([]*domain.Site, error) {
			a := domain.NewSite("a.example.com", "a@a.com", "a", domain.StackFastCGI)
			b := domain.NewSite("b.example.com", "b@b.com", "b", domain.StackRedis)
			return []*domain.Site{&a, &b}, nil
		},
	}
	server := newTestServer(engine, nil)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/sites")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	views := decodeJSON[[]siteView](t, resp)
	require.Len(t, views, 2)
	assert.Equal(t, "a.example.com", views[0].Domain)
}

func uploadAsset(t *testing.T, url, filename, kind, content string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("kind", kind))
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	resp, err := http.Post(url+"/api/assets", writer.FormDataContentType(), &buf)
	require.NoError(t, err)
	return resp
}

func TestUploadAsset(t *testing.T) {
	var gotName string
	var gotKind domain.AssetKind
	assetVault := &MockAssetVault{
		RegisterFunc: func(name string, kind domain.AssetKind, content io.Reader) (*domain.VaultAsset, error) {
			gotName = name
			gotKind = kind
			data, _ := io.ReadAll(content)
			asset := domain.NewVaultAsset("premium-slider", name, kind)
			asset.SizeBytes = int64(len(data))
			return &asset, nil
		},
	}
	server := newTestServer(nil, assetVault)
	defer server.Close()

	resp := uploadAsset(t, server.URL, "premium-slider.zip", "plugin", "zip-bytes")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "premium-slider.zip", gotName)
	assert.Equal(t, domain.AssetKindPlugin, gotKind)

	view := decodeJSON[assetView](t, resp)
	assert.Equal(t, "premium-slider", view.Name)
	assert.Equal(t, int64(len("zip-bytes")), view.SizeBytes)
}

func TestUploadAsset_BadKind(t *testing.T) {
	server := newTestServer(nil, nil)
	defer server.Close()

	resp := uploadAsset(t, server.URL, "x.zip", "snippet", "zip-bytes")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteAsset(t *testing.T) {
	id := uuid.New()
	var removed uuid.UUID
	assetVault := &MockAssetVault{
		RemoveFunc: func(got uuid.UUID) error {
			removed = got
			return nil
		},
	}
	server := newTestServer(nil, assetVault)
	defer server.Close()

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/assets/"+id.String(), nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, id, removed)
}

func TestDeleteAsset_Errors(t *testing.T) {
	assetVault := &MockAssetVault{
		RemoveFunc: func(uuid.UUID) error { return vault.ErrAssetNotFound },
	}
	server := newTestServer(nil, assetVault)
	defer server.Close()

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/assets/"+uuid.NewString(), nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	req, err = http.NewRequest(http.MethodDelete, server.URL+"/api/assets/not-a-uuid", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCatalogEndpoint(t *testing.T) {
	server := newTestServer(nil, nil)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/catalog")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	entries := decodeJSON[[]catalogEntryView](t, resp)
	assert.NotEmpty(t, entries)

	slugs := make([]string, len(entries))
	for i, e := range entries {
		slugs[i] = e.Slug
	}
	assert.Contains(t, slugs, "woocommerce")
}
