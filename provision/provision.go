// Package provision drives the external site-provisioning and wp-cli tools.
// It owns argv construction and the interpretation of exit codes and stderr
// output; nothing above this layer inspects raw tool output.
package provision

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/wopanel/wopanel/config"
	"github.com/wopanel/wopanel/domain"
	"github.com/wopanel/wopanel/executor"
)

// TargetKind distinguishes how an installable target is addressed
type TargetKind string

const (
	// TargetRepoSlug addresses a package in the public wordpress.org repository
	TargetRepoSlug TargetKind = "repo_slug"
	// TargetLocalFile addresses an uploaded package file in the asset vault
	TargetLocalFile TargetKind = "local_file"
)

// Target is a concrete installable reference produced by the resolver
type Target struct {
	Kind  TargetKind
	Value string
	// ActivationSlug is the plugin slug used for the activation command.
	// For repository targets it equals Value; for vault targets it is
	// derived from the package filename.
	ActivationSlug string
}

// Client invokes the provisioning tools for one server
type Client struct {
	runner executor.CommandRunner
	config *config.Config
}

func NewClient(runner executor.CommandRunner, cfg *config.Config) *Client {
	return &Client{runner: runner, config: cfg}
}

// CreateSite provisions a new WordPress site. The admin password is passed
// over stdin (the tool prompts for it twice); it never appears in argv.
func (c *Client) CreateSite(ctx context.Context, site *domain.Site) error {
	args := []string{
		"site", "create", site.Domain,
		"--wp",
		fmt.Sprintf("--email=%s", site.AdminEmail),
		fmt.Sprintf("--user=%s", site.AdminUser),
	}
	switch site.Stack {
	case domain.StackRedis:
		args = append(args, "--wpredis")
	default:
		args = append(args, "--wpfc")
	}

	result, err := c.runner.Run(ctx, executor.Command{
		Name:    c.config.ProvisionCommand,
		Args:    args,
		Stdin:   fmt.Sprintf("%s\n%s\n", site.AdminPassword, site.AdminPassword),
		Timeout: c.config.CreateSiteTimeout,
	})
	if err != nil {
		return err
	}
	if !result.Succeeded() {
		return newCommandError("create_site", result)
	}

	slog.Debug("Site created",
		"layer", "provision",
		"operation", "create_site",
		"site_domain", site.Domain,
		"stack", site.Stack)
	return nil
}

// InstallPlugin installs a plugin on a site from either a repository slug or
// a local package file.
func (c *Client) InstallPlugin(ctx context.Context, siteDomain string, target Target) error {
	result, err := c.runner.Run(ctx, executor.Command{
		Name:    c.config.WPCommand,
		Args:    append(c.wpBaseArgs(siteDomain), "plugin", "install", target.Value),
		Timeout: c.config.PluginStepTimeout,
	})
	if err != nil {
		return err
	}
	if !result.Succeeded() {
		return newCommandError("install_plugin", result)
	}
	return nil
}

// ActivatePlugin activates an installed plugin by slug
func (c *Client) ActivatePlugin(ctx context.Context, siteDomain, slug string) error {
	result, err := c.runner.Run(ctx, executor.Command{
		Name:    c.config.WPCommand,
		Args:    append(c.wpBaseArgs(siteDomain), "plugin", "activate", slug),
		Timeout: c.config.PluginStepTimeout,
	})
	if err != nil {
		return err
	}
	if !result.Succeeded() {
		return newCommandError("activate_plugin", result)
	}
	return nil
}

func (c *Client) wpBaseArgs(siteDomain string) []string {
	docroot := filepath.Join(c.config.SitesRoot, siteDomain, "htdocs")
	return []string{fmt.Sprintf("--path=%s", docroot), "--allow-root"}
}

// FailureKind classifies a tool failure from its exit code and stderr
type FailureKind int

const (
	FailureUnknown FailureKind = iota
	FailureAlreadyExists
	FailureInvalidArgument
	FailureNetwork
)

func (k FailureKind) String() string {
	switch k {
	case FailureAlreadyExists:
		return "already_exists"
	case FailureInvalidArgument:
		return "invalid_argument"
	case FailureNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// stderrClassifiers maps known stderr fragments to failure kinds. New tool
// versions only require updating this table.
var stderrClassifiers = []struct {
	fragment string
	kind     FailureKind
}{
	{"already exists", FailureAlreadyExists},
	{"already installed", FailureAlreadyExists},
	{"invalid domain", FailureInvalidArgument},
	{"is not a valid", FailureInvalidArgument},
	{"could not resolve host", FailureNetwork},
	{"connection timed out", FailureNetwork},
	{"download failed", FailureNetwork},
}

// CommandError is a tool invocation that finished with a non-zero exit code
type CommandError struct {
	Op       string
	ExitCode int
	Kind     FailureKind
	Detail   string // ANSI-cleaned stderr
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s failed (exit %d, %s): %s", e.Op, e.ExitCode, e.Kind, e.Detail)
}

func newCommandError(op string, result *executor.Result) *CommandError {
	detail := strings.TrimSpace(StripANSI(result.Stderr))
	if detail == "" {
		detail = strings.TrimSpace(StripANSI(result.Stdout))
	}
	return &CommandError{
		Op:       op,
		ExitCode: result.ExitCode,
		Kind:     classifyStderr(detail),
		Detail:   detail,
	}
}

func classifyStderr(stderr string) FailureKind {
	lowered := strings.ToLower(stderr)
	for _, c := range stderrClassifiers {
		if strings.Contains(lowered, c.fragment) {
			return c.kind
		}
	}
	return FailureUnknown
}

var ansiEscape = regexp.MustCompile(`\x1b(?:[@-Z\\-_]|\[[0-?]*[ -/]*[@-~])`)

// StripANSI removes terminal escape sequences from tool output before it is
// stored or shown.
func StripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}
