package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/wopanel/wopanel/catalog"
	"github.com/wopanel/wopanel/deploy"
	"github.com/wopanel/wopanel/domain"
	"github.com/wopanel/wopanel/repository"
	"github.com/wopanel/wopanel/vault"
)

// maxUploadBytes caps plugin/theme package uploads
const maxUploadBytes = 256 << 20

// DeploymentEngine is the engine surface the API exposes
type DeploymentEngine interface {
	StartDeployment(ctx context.Context, req deploy.Request) (*domain.Site, error)
	GetSite(siteDomain string) (*domain.Site, error)
	ListSites() ([]*domain.Site, error)
}

// AssetVault is the vault surface the API exposes
type AssetVault interface {
	List() ([]*domain.VaultAsset, error)
	Register(name string, kind domain.AssetKind, content io.Reader) (*domain.VaultAsset, error)
	Remove(id uuid.UUID) error
}

type Handlers struct {
	engine  DeploymentEngine
	vault   AssetVault
	catalog *catalog.Catalog
}

func NewHandlers(engine DeploymentEngine, assetVault AssetVault, cat *catalog.Catalog) *Handlers {
	return &Handlers{engine: engine, vault: assetVault, catalog: cat}
}

func (h *Handlers) handleCreateSite(w http.ResponseWriter, r *http.Request) {
	var req createSiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	stack, err := domain.ParseStackType(req.Stack)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	plugins := make([]domain.PluginReference, len(req.Plugins))
	for i, p := range req.Plugins {
		source, err := domain.ParsePluginSource(p.Source)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		plugins[i] = domain.PluginReference{
			Identifier: p.Identifier,
			Source:     source,
			Install:    p.Install,
			Activate:   p.Activate,
		}
	}

	site, err := h.engine.StartDeployment(r.Context(), deploy.Request{
		Domain:     req.Domain,
		AdminEmail: req.AdminEmail,
		AdminUser:  req.AdminUser,
		Stack:      stack,
		Plugins:    plugins,
	})
	if err != nil {
		slog.Error("Handler operation failed",
			"layer", "handler",
			"operation", "create_site",
			"site_domain", req.Domain,
			"error", err)

		switch {
		case errors.Is(err, repository.ErrDuplicateDomain):
			writeError(w, http.StatusConflict, err.Error(), nil)
		case errors.Is(err, deploy.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error(), nil)
		case errors.Is(err, deploy.ErrProvisioningFailed):
			// The record exists; return it alongside the error so the
			// caller can render the failure detail.
			writeError(w, http.StatusBadGateway, err.Error(), site)
		case errors.Is(err, deploy.ErrDeploymentCanceled):
			writeError(w, http.StatusRequestTimeout, err.Error(), site)
		case errors.Is(err, repository.ErrStorageUnavailable):
			// site is non-nil when provisioning succeeded but the record
			// write did not; the snapshot is still worth returning.
			writeError(w, http.StatusServiceUnavailable, "storage unavailable", site)
		default:
			writeError(w, http.StatusInternalServerError, "deployment failed", nil)
		}
		return
	}

	writeJSON(w, http.StatusCreated, toSiteView(site))
}

func (h *Handlers) handleListSites(w http.ResponseWriter, r *http.Request) {
	sites, err := h.engine.ListSites()
	if err != nil {
		slog.Error("Handler operation failed",
			"layer", "handler",
			"operation", "list_sites",
			"error", err)
		writeError(w, http.StatusServiceUnavailable, "storage unavailable", nil)
		return
	}

	views := make([]siteView, len(sites))
	for i, s := range sites {
		views[i] = toSiteView(s)
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handlers) handleGetSite(w http.ResponseWriter, r *http.Request) {
	siteDomain := chi.URLParam(r, "domain")

	site, err := h.engine.GetSite(siteDomain)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "site not found", nil)
			return
		}
		slog.Error("Handler operation failed",
			"layer", "handler",
			"operation", "get_site",
			"site_domain", siteDomain,
			"error", err)
		writeError(w, http.StatusServiceUnavailable, "storage unavailable", nil)
		return
	}

	writeJSON(w, http.StatusOK, toSiteView(site))
}

func (h *Handlers) handleListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.vault.List()
	if err != nil {
		slog.Error("Handler operation failed",
			"layer", "handler",
			"operation", "list_assets",
			"error", err)
		writeError(w, http.StatusServiceUnavailable, "storage unavailable", nil)
		return
	}

	views := make([]assetView, len(assets))
	for i, a := range assets {
		views[i] = toAssetView(a)
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handlers) handleUploadAsset(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	kind, err := domain.ParseAssetKind(r.FormValue("kind"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file upload", nil)
		return
	}
	defer file.Close()

	asset, err := h.vault.Register(header.Filename, kind, file)
	if err != nil {
		slog.Error("Handler operation failed",
			"layer", "handler",
			"operation", "upload_asset",
			"filename", header.Filename,
			"error", err)
		if errors.Is(err, repository.ErrStorageUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "storage unavailable", nil)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	writeJSON(w, http.StatusCreated, toAssetView(asset))
}

func (h *Handlers) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid asset id", nil)
		return
	}

	if err := h.vault.Remove(id); err != nil {
		if errors.Is(err, vault.ErrAssetNotFound) {
			writeError(w, http.StatusNotFound, "asset not found", nil)
			return
		}
		slog.Error("Handler operation failed",
			"layer", "handler",
			"operation", "delete_asset",
			"asset_id", id,
			"error", err)
		writeError(w, http.StatusServiceUnavailable, "storage unavailable", nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) handleCatalog(w http.ResponseWriter, r *http.Request) {
	entries := h.catalog.Entries()
	views := make([]catalogEntryView, len(entries))
	for i, e := range entries {
		views[i] = catalogEntryView{Name: e.Name, Slug: e.Slug, Kind: e.Kind.String()}
	}
	writeJSON(w, http.StatusOK, views)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response",
			"layer", "handler",
			"operation", "write_json",
			"error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string, site *domain.Site) {
	resp := errorResponse{Error: message}
	if site != nil {
		view := toSiteView(site)
		resp.Site = &view
	}
	writeJSON(w, status, resp)
}
