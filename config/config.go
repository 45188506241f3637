// Package config provides configuration for all Wopanel services.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	AssetsDirName = "assets"
	DatabaseName  = "wopanel.db"
)

// EnvProvider abstracts environment variable access for testing
type EnvProvider interface {
	Getenv(key string) string
	UserHomeDir() (string, error)
}

// DefaultEnvProvider implements EnvProvider using real OS functions
type DefaultEnvProvider struct{}

func (p *DefaultEnvProvider) Getenv(key string) string {
	return os.Getenv(key)
}

func (p *DefaultEnvProvider) UserHomeDir() (string, error) {
	return os.UserHomeDir()
}

// GetDefaultDataDir returns the default Wopanel data directory following the
// XDG Base Directory specification
func GetDefaultDataDir() string {
	return getDefaultDataDirWithEnv(&DefaultEnvProvider{})
}

func getDefaultDataDirWithEnv(env EnvProvider) string {
	xdgDataHome := env.Getenv("XDG_DATA_HOME")
	if xdgDataHome != "" {
		return filepath.Join(xdgDataHome, "wopanel")
	}

	homeDir, _ := env.UserHomeDir()
	return filepath.Join(homeDir, ".local", "share", "wopanel")
}

// Config holds configuration for all services
type Config struct {
	// Core paths
	DataDir      string
	DatabasePath string
	AssetsDir    string
	CatalogPath  string

	// Logging
	LogLevel     string
	ColorEnabled bool

	// Provisioning tools
	ProvisionCommand string // WordOps-style site provisioning binary
	WPCommand        string // wp-cli binary used for plugin install/activate
	SitesRoot        string // web root under which per-domain docroots live

	// Per-step executor timeouts
	CreateSiteTimeout time.Duration
	PluginStepTimeout time.Duration

	// Deployment concurrency
	MaxConcurrentDeployments int

	// HTTP server
	HTTPHost string
	HTTPPort int

	// Encryption
	EncryptionKey string

	// Environment provider for testing
	env EnvProvider
}

// NewConfig creates a new configuration with optional data directory override
func NewConfig(cliDataDir string) (*Config, error) {
	return newConfigWithEnv(&DefaultEnvProvider{}, cliDataDir)
}

// NewConfigWithEnv creates a new configuration with a custom environment
// provider (for testing)
func NewConfigWithEnv(env EnvProvider, cliDataDir string) (*Config, error) {
	return newConfigWithEnv(env, cliDataDir)
}

func newConfigWithEnv(env EnvProvider, cliDataDir string) (*Config, error) {
	c := &Config{env: env}

	// Set defaults first
	c.setDefaults()

	// Override with environment variables
	c.loadFromEnv()

	// Override with CLI flags (if provided)
	if cliDataDir != "" {
		c.DataDir = cliDataDir
	}

	// Derive dependent paths
	c.derivePaths()

	// Validate
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return c, nil
}

// setDefaults sets sensible default values
func (c *Config) setDefaults() {
	c.DataDir = getDefaultDataDirWithEnv(c.env)
	c.LogLevel = "info"
	c.ColorEnabled = true
	c.ProvisionCommand = "/usr/local/bin/wo"
	c.WPCommand = "wp"
	c.SitesRoot = "/var/www"
	c.CreateSiteTimeout = 15 * time.Minute
	c.PluginStepTimeout = 3 * time.Minute
	c.MaxConcurrentDeployments = 2
	c.HTTPHost = "127.0.0.1"
	c.HTTPPort = 8080
	// Don't set default encryption key - it must be provided explicitly
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if v := c.env.Getenv("WOPANEL_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := c.env.Getenv("WOPANEL_DATABASE_PATH"); v != "" {
		c.DatabasePath = v
	}
	if v := c.env.Getenv("WOPANEL_CATALOG_PATH"); v != "" {
		c.CatalogPath = v
	}
	if v := c.env.Getenv("WOPANEL_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := c.env.Getenv("WOPANEL_COLOR_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.ColorEnabled = enabled
		}
	}
	if v := c.env.Getenv("WOPANEL_PROVISION_COMMAND"); v != "" {
		c.ProvisionCommand = v
	}
	if v := c.env.Getenv("WOPANEL_WP_COMMAND"); v != "" {
		c.WPCommand = v
	}
	if v := c.env.Getenv("WOPANEL_SITES_ROOT"); v != "" {
		c.SitesRoot = v
	}
	if v := c.env.Getenv("WOPANEL_CREATE_SITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.CreateSiteTimeout = d
		}
	}
	if v := c.env.Getenv("WOPANEL_PLUGIN_STEP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.PluginStepTimeout = d
		}
	}
	if v := c.env.Getenv("WOPANEL_MAX_CONCURRENT_DEPLOYMENTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxConcurrentDeployments = n
		}
	}
	if v := c.env.Getenv("WOPANEL_HTTP_HOST"); v != "" {
		c.HTTPHost = v
	}
	if v := c.env.Getenv("WOPANEL_HTTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.HTTPPort = port
		}
	}
	if v := c.env.Getenv("WOPANEL_ENCRYPTION_KEY"); v != "" {
		c.EncryptionKey = v
	}
}

// derivePaths calculates dependent paths from the base DataDir
func (c *Config) derivePaths() {
	c.AssetsDir = filepath.Join(c.DataDir, AssetsDirName)

	if c.DatabasePath == "" {
		c.DatabasePath = filepath.Join(c.DataDir, DatabaseName)
	}
	if c.CatalogPath == "" {
		c.CatalogPath = filepath.Join(c.DataDir, "catalog.yml")
	}
}

// validate ensures configuration values are valid
func (c *Config) validate() error {
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warning": true, "error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warning, or error)", c.LogLevel)
	}

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d (must be 1-65535)", c.HTTPPort)
	}

	if c.CreateSiteTimeout <= 0 {
		return fmt.Errorf("create site timeout must be positive, got: %v", c.CreateSiteTimeout)
	}
	if c.PluginStepTimeout <= 0 {
		return fmt.Errorf("plugin step timeout must be positive, got: %v", c.PluginStepTimeout)
	}

	if c.MaxConcurrentDeployments < 1 {
		return fmt.Errorf("max concurrent deployments must be at least 1, got: %d", c.MaxConcurrentDeployments)
	}

	if c.ProvisionCommand == "" {
		return fmt.Errorf("provision command cannot be empty")
	}
	if c.WPCommand == "" {
		return fmt.Errorf("wp command cannot be empty")
	}

	// The admin password stored on site records is encrypted at rest, so the
	// key must be provided explicitly
	if c.EncryptionKey == "" {
		return fmt.Errorf(
			"encryption key is required - set the WOPANEL_ENCRYPTION_KEY environment variable",
		)
	}

	return nil
}

// GetLogLevel returns the configured log level
func (c *Config) GetLogLevel() string {
	return c.LogLevel
}
