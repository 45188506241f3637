package deploy

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/wopanel/wopanel/catalog"
	"github.com/wopanel/wopanel/domain"
	"github.com/wopanel/wopanel/provision"
	"github.com/wopanel/wopanel/vault"
)

// repoSlugPattern matches wordpress.org package slugs
var repoSlugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Resolver turns caller-supplied plugin references into concrete installable
// targets. It is called for every reference before any site mutation, so a
// request containing an invalid vault identifier fails with zero side
// effects.
type Resolver struct {
	vault   *vault.Service
	catalog *catalog.Catalog
}

func NewResolver(vaultSvc *vault.Service, cat *catalog.Catalog) *Resolver {
	return &Resolver{vault: vaultSvc, catalog: cat}
}

// Resolve validates one plugin reference and returns its installable target.
//
// Vault references are checked synchronously against the local index, which
// is authoritative. Repository references cannot be fully validated without a
// network round trip; the resolver checks the slug shape and the local
// catalog as a cheap pre-check and defers real existence to the install
// step's exit code.
func (r *Resolver) Resolve(ref domain.PluginReference) (provision.Target, error) {
	switch ref.Source {
	case domain.SourceRepository:
		return r.resolveRepository(ref)
	case domain.SourceVault:
		return r.resolveVault(ref)
	default:
		return provision.Target{}, fmt.Errorf("%w: unsupported source %q", ErrUnknownPluginReference, ref.Source)
	}
}

func (r *Resolver) resolveRepository(ref domain.PluginReference) (provision.Target, error) {
	if !repoSlugPattern.MatchString(ref.Identifier) {
		return provision.Target{}, fmt.Errorf("%w: %q is not a valid repository slug", ErrUnknownPluginReference, ref.Identifier)
	}

	if r.catalog != nil {
		if _, known := r.catalog.Lookup(ref.Identifier); !known {
			// Not an error: the catalog is curated, not exhaustive. The
			// install step's exit code is the real existence check.
			slog.Debug("Repository slug not in catalog, deferring to install step",
				"layer", "resolver",
				"identifier", ref.Identifier)
		}
	}

	return provision.Target{
		Kind:           provision.TargetRepoSlug,
		Value:          ref.Identifier,
		ActivationSlug: ref.Identifier,
	}, nil
}

func (r *Resolver) resolveVault(ref domain.PluginReference) (provision.Target, error) {
	id, err := uuid.Parse(ref.Identifier)
	if err != nil {
		return provision.Target{}, fmt.Errorf("%w: %q is not a vault asset id", vault.ErrAssetNotFound, ref.Identifier)
	}

	asset, err := r.vault.Lookup(id)
	if err != nil {
		return provision.Target{}, err
	}

	if asset.Kind != domain.AssetKindPlugin {
		return provision.Target{}, fmt.Errorf("%w: asset %s is a %s, not a plugin", ErrUnknownPluginReference, id, asset.Kind)
	}

	return provision.Target{
		Kind:           provision.TargetLocalFile,
		Value:          asset.StoragePath,
		ActivationSlug: activationSlug(asset),
	}, nil
}

// activationSlug derives the plugin slug wp-cli will know the package by
// after installing it from a zip: the normalized package name.
func activationSlug(asset *domain.VaultAsset) string {
	return slug.Make(strings.TrimSpace(asset.Name))
}
