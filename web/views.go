// Package web provides the JSON API consumed by the panel frontend.
package web

import (
	"time"

	"github.com/wopanel/wopanel/domain"
)

type siteView struct {
	Domain       string       `json:"domain"`
	AdminEmail   string       `json:"admin_email"`
	AdminUser    string       `json:"admin_user"`
	Stack        string       `json:"stack"`
	Status       string       `json:"status"`
	StatusDetail string       `json:"status_detail,omitempty"`
	Plugins      []pluginView `json:"plugins"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

type pluginView struct {
	Identifier string `json:"identifier"`
	Source     string `json:"source"`
	Installed  bool   `json:"installed"`
	Activated  bool   `json:"activated"`
	Error      string `json:"error,omitempty"`
}

func toSiteView(s *domain.Site) siteView {
	plugins := make([]pluginView, len(s.InstalledPlugins))
	for i, p := range s.InstalledPlugins {
		plugins[i] = pluginView{
			Identifier: p.Identifier,
			Source:     p.Source.String(),
			Installed:  p.Installed,
			Activated:  p.Activated,
			Error:      p.Error,
		}
	}
	return siteView{
		Domain:       s.Domain,
		AdminEmail:   s.AdminEmail,
		AdminUser:    s.AdminUser,
		Stack:        s.Stack.String(),
		Status:       s.Status.String(),
		StatusDetail: s.StatusDetail,
		Plugins:      plugins,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

type assetView struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Filename   string    `json:"filename"`
	Kind       string    `json:"kind"`
	SizeBytes  int64     `json:"size_bytes"`
	Checksum   string    `json:"checksum"`
	UploadedAt time.Time `json:"uploaded_at"`
}

func toAssetView(a *domain.VaultAsset) assetView {
	return assetView{
		ID:         a.ID.String(),
		Name:       a.Name,
		Filename:   a.Filename,
		Kind:       a.Kind.String(),
		SizeBytes:  a.SizeBytes,
		Checksum:   a.Checksum,
		UploadedAt: a.UploadedAt,
	}
}

type catalogEntryView struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
	Kind string `json:"kind"`
}

type errorResponse struct {
	Error string    `json:"error"`
	Site  *siteView `json:"site,omitempty"`
}

type createSiteRequest struct {
	Domain     string             `json:"domain"`
	AdminEmail string             `json:"admin_email"`
	AdminUser  string             `json:"admin_user"`
	Stack      string             `json:"stack"`
	Plugins    []pluginRefRequest `json:"plugins"`
}

type pluginRefRequest struct {
	Identifier string `json:"identifier"`
	Source     string `json:"source"`
	Install    bool   `json:"install"`
	Activate   bool   `json:"activate"`
}
