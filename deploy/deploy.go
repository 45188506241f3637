// Package deploy implements the deployment orchestration engine: site
// creation via the external provisioning tool, ordered plugin installation,
// and durable site-state records.
package deploy

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/wopanel/wopanel/domain"
	"github.com/wopanel/wopanel/executor"
	"github.com/wopanel/wopanel/provision"
	"github.com/wopanel/wopanel/repository"
	"github.com/wopanel/wopanel/vault"
)

// Request describes one deployment attempt: a site plus an ordered list of
// plugin references. Plugin order is preserved exactly; later plugins may
// depend on earlier ones being active.
type Request struct {
	Domain     string
	AdminEmail string
	AdminUser  string
	Stack      domain.StackType
	Plugins    []domain.PluginReference
}

// Service is the deployment orchestration engine
type Service struct {
	sites       repository.SiteRepository
	resolver    *Resolver
	provisioner *provision.Client

	// sem bounds concurrent deployments so the provisioning tool is never
	// overwhelmed by parallel site-creation runs. Duplicate-domain rejection
	// happens before acquiring a slot, so a full pool never masks a
	// validation error.
	sem chan struct{}
}

func NewService(
	sites repository.SiteRepository,
	resolver *Resolver,
	provisioner *provision.Client,
	maxConcurrent int,
) *Service {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Service{
		sites:       sites,
		resolver:    resolver,
		provisioner: provisioner,
		sem:         make(chan struct{}, maxConcurrent),
	}
}

// StartDeployment runs one deployment attempt to completion and returns the
// resulting site record snapshot. On provisioning failure the returned site
// has status failed and the error wraps ErrProvisioningFailed; individual
// plugin failures are recorded on the snapshot and are not an error.
func (s *Service) StartDeployment(ctx context.Context, req Request) (*domain.Site, error) {
	// VALIDATING: everything here happens before any side effect
	targets, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	site := domain.NewSite(req.Domain, req.AdminEmail, req.AdminUser, req.Stack)
	site.AdminPassword, err = generatePassword()
	if err != nil {
		return nil, fmt.Errorf("failed to generate admin password: %w", err)
	}

	// The insert is the atomic duplicate-domain guard: a non-failed record
	// for the same domain makes it fail with ErrDuplicateDomain.
	created, err := s.sites.Create(&site)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateDomain) {
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		return nil, err
	}
	site = *created

	slog.Info("Deployment started",
		"layer", "deploy",
		"operation", "start_deployment",
		"site_id", site.ID,
		"site_domain", site.Domain,
		"stack", site.Stack,
		"plugin_count", len(req.Plugins))

	// A caller may give up while waiting for a slot. No external step has
	// started yet, so refusing here is still safe. The explicit Err check
	// keeps an already-canceled context from winning the select by chance.
	if ctx.Err() != nil {
		return s.refuseBeforeProvisioning(&site, ctx.Err())
	}
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return s.refuseBeforeProvisioning(&site, ctx.Err())
	}
	defer func() { <-s.sem }()

	// Once CREATING starts, the attempt runs to completion: the external
	// side effects are irreversible, so a caller disconnect must not kill
	// the tool mid-run. Per-step timeouts still apply inside the executor.
	runCtx := context.WithoutCancel(ctx)

	// CREATING
	if err := s.provisioner.CreateSite(runCtx, &site); err != nil {
		return s.failSite(&site, err)
	}

	// Site creation succeeded; plugin outcomes never revert this.
	site.Status = domain.SiteStatusActive
	persistErr := s.persist(&site)

	// INSTALLING(i): strictly sequential, caller-supplied order. A failed
	// step is recorded and does not abort the remaining steps.
	for i, ref := range req.Plugins {
		if !ref.Install {
			continue
		}
		result := s.runPluginStep(runCtx, site.Domain, ref, targets[i])
		site.InstalledPlugins = append(site.InstalledPlugins, result)
		if err := s.persist(&site); err != nil && persistErr == nil {
			persistErr = err
		}
	}

	slog.Info("Deployment finished",
		"layer", "deploy",
		"operation", "start_deployment",
		"site_id", site.ID,
		"site_domain", site.Domain,
		"status", site.Status,
		"plugin_results", len(site.InstalledPlugins))

	// The snapshot is authoritative even when the record write failed, but
	// the divergence must reach the caller rather than only the log.
	if persistErr != nil {
		return &site, fmt.Errorf("site deployed but record not stored: %w", persistErr)
	}
	return &site, nil
}

// GetSite returns the record for one domain
func (s *Service) GetSite(siteDomain string) (*domain.Site, error) {
	return s.sites.FindByDomain(siteDomain)
}

// ListSites returns all site records
func (s *Service) ListSites() ([]*domain.Site, error) {
	return s.sites.List()
}

// validate rejects a bad request before any side effect and resolves every
// plugin reference up front. The returned slice is index-aligned with
// req.Plugins.
func (s *Service) validate(req Request) ([]provision.Target, error) {
	if strings.TrimSpace(req.Domain) == "" {
		return nil, fmt.Errorf("%w: domain is required", ErrValidation)
	}
	if strings.TrimSpace(req.AdminEmail) == "" {
		return nil, fmt.Errorf("%w: admin email is required", ErrValidation)
	}
	if strings.TrimSpace(req.AdminUser) == "" {
		return nil, fmt.Errorf("%w: admin user is required", ErrValidation)
	}
	if !req.Stack.IsValid() {
		return nil, fmt.Errorf("%w: invalid stack %q", ErrValidation, req.Stack)
	}

	targets := make([]provision.Target, len(req.Plugins))
	for i, ref := range req.Plugins {
		if strings.TrimSpace(ref.Identifier) == "" {
			return nil, fmt.Errorf("%w: plugin reference %d has no identifier", ErrValidation, i)
		}
		target, err := s.resolver.Resolve(ref)
		if err != nil {
			if errors.Is(err, vault.ErrAssetNotFound) || errors.Is(err, ErrUnknownPluginReference) {
				return nil, fmt.Errorf("%w: %w", ErrValidation, err)
			}
			return nil, err
		}
		targets[i] = target
	}
	return targets, nil
}

// runPluginStep installs and optionally activates one plugin. Failures are
// recorded on the result, never returned: plugin steps are independent of
// each other and of the site's status.
func (s *Service) runPluginStep(
	ctx context.Context,
	siteDomain string,
	ref domain.PluginReference,
	target provision.Target,
) domain.PluginInstallResult {
	result := domain.PluginInstallResult{
		Identifier: ref.Identifier,
		Source:     ref.Source,
	}

	if err := s.provisioner.InstallPlugin(ctx, siteDomain, target); err != nil {
		result.Error = stepErrorDetail(err)
		slog.Warn("Plugin install failed",
			"layer", "deploy",
			"operation", "install_plugin",
			"site_domain", siteDomain,
			"identifier", ref.Identifier,
			"source", ref.Source,
			"error", err)
		return result
	}
	result.Installed = true

	if !ref.Activate {
		return result
	}

	if err := s.provisioner.ActivatePlugin(ctx, siteDomain, target.ActivationSlug); err != nil {
		// Activation failure does not undo the install
		result.Error = stepErrorDetail(err)
		slog.Warn("Plugin activation failed",
			"layer", "deploy",
			"operation", "activate_plugin",
			"site_domain", siteDomain,
			"identifier", ref.Identifier,
			"error", err)
		return result
	}
	result.Activated = true

	return result
}

// refuseBeforeProvisioning marks a deployment failed without having run any
// external step
func (s *Service) refuseBeforeProvisioning(site *domain.Site, cause error) (*domain.Site, error) {
	site.Status = domain.SiteStatusFailed
	site.StatusDetail = "deployment canceled before provisioning started"
	s.persist(site)
	return site, fmt.Errorf("%w: %v", ErrDeploymentCanceled, cause)
}

// failSite marks the attempt failed with captured diagnostics and returns
// the snapshot together with the terminal error.
func (s *Service) failSite(site *domain.Site, cause error) (*domain.Site, error) {
	site.Status = domain.SiteStatusFailed
	site.StatusDetail = stepErrorDetail(cause)
	s.persist(site)

	slog.Error("Site provisioning failed",
		"layer", "deploy",
		"operation", "create_site",
		"site_id", site.ID,
		"site_domain", site.Domain,
		"error", cause)

	return site, fmt.Errorf("%w: %w", ErrProvisioningFailed, cause)
}

// persist writes the current site state. The error is returned so the caller
// can surface the record/snapshot divergence; the failure paths ignore it
// because their own terminal error already dominates.
func (s *Service) persist(site *domain.Site) error {
	err := s.sites.Update(site)
	if err != nil {
		slog.Error("Failed to persist site state",
			"layer", "deploy",
			"operation", "update_site",
			"site_id", site.ID,
			"site_domain", site.Domain,
			"error", err)
	}
	return err
}

// stepErrorDetail extracts the most useful diagnostic text from a step error
func stepErrorDetail(err error) string {
	var cmdErr *provision.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Detail
	}
	if errors.Is(err, executor.ErrExecutionTimeout) || errors.Is(err, executor.ErrExecutionStart) {
		return err.Error()
	}
	return err.Error()
}

const passwordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// generatePassword returns a 20-character random admin password
func generatePassword() (string, error) {
	var b strings.Builder
	for i := 0; i < 20; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordCharset))))
		if err != nil {
			return "", err
		}
		b.WriteByte(passwordCharset[n.Int64()])
	}
	return b.String(), nil
}
