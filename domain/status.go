package domain

import "fmt"

// SiteStatus represents the lifecycle status of a managed site
type SiteStatus int

const (
	SiteStatusUnknown SiteStatus = iota
	SiteStatusPending
	SiteStatusActive
	SiteStatusFailed
)

func (s SiteStatus) String() string {
	switch s {
	case SiteStatusPending:
		return "pending"
	case SiteStatusActive:
		return "active"
	case SiteStatusFailed:
		return "failed"
	case SiteStatusUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

func ParseSiteStatus(s string) (SiteStatus, error) {
	switch s {
	case "pending":
		return SiteStatusPending, nil
	case "active":
		return SiteStatusActive, nil
	case "failed":
		return SiteStatusFailed, nil
	case "unknown":
		return SiteStatusUnknown, nil
	default:
		return SiteStatusUnknown, fmt.Errorf("invalid site status: %q", s)
	}
}
