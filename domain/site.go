// Package domain provides core domain types and entities for Wopanel.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StackType represents the caching/serving stack a site is provisioned with
type StackType string

const (
	StackFastCGI StackType = "fastcgi"
	StackRedis   StackType = "redis"
)

// String implements the Stringer interface
func (s StackType) String() string {
	return string(s)
}

// IsValid checks if the StackType is valid
func (s StackType) IsValid() bool {
	switch s {
	case StackFastCGI, StackRedis:
		return true
	default:
		return false
	}
}

// ParseStackType parses a string into a StackType
func ParseStackType(s string) (StackType, error) {
	stack := StackType(s)
	if !stack.IsValid() {
		return "", fmt.Errorf("invalid stack type: %q", s)
	}
	return stack, nil
}

// Site represents one managed WordPress site. Domain and Stack are immutable
// once the record is created; Status is mutated only by the deployment engine.
type Site struct {
	ID               uuid.UUID
	Domain           string
	AdminEmail       string
	AdminUser        string
	AdminPassword    string // plaintext in memory only; encrypted at rest
	Stack            StackType
	Status           SiteStatus
	StatusDetail     string // diagnostic text for failed provisioning
	InstalledPlugins []PluginInstallResult
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func NewSite(domain, adminEmail, adminUser string, stack StackType) Site {
	return Site{
		ID:         uuid.New(),
		Domain:     domain,
		AdminEmail: adminEmail,
		AdminUser:  adminUser,
		Stack:      stack,
		Status:     SiteStatusPending,
	}
}
