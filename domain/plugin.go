package domain

import "fmt"

// PluginSource represents where an installable plugin comes from
type PluginSource string

const (
	// SourceRepository is the public wordpress.org plugin repository
	SourceRepository PluginSource = "repository"
	// SourceVault is the local index of uploaded packages
	SourceVault PluginSource = "vault"
)

// String implements the Stringer interface
func (s PluginSource) String() string {
	return string(s)
}

// IsValid checks if the PluginSource is valid
func (s PluginSource) IsValid() bool {
	switch s {
	case SourceRepository, SourceVault:
		return true
	default:
		return false
	}
}

// ParsePluginSource parses a string into a PluginSource
func ParsePluginSource(s string) (PluginSource, error) {
	source := PluginSource(s)
	if !source.IsValid() {
		return "", fmt.Errorf("invalid plugin source: %q", s)
	}
	return source, nil
}

// PluginReference is a caller-supplied request to install one plugin on a
// site. Identifier is a repository slug for SourceRepository and a vault
// asset ID for SourceVault. Activate is ignored when Install is false.
type PluginReference struct {
	Identifier string
	Source     PluginSource
	Install    bool
	Activate   bool
}

// PluginInstallResult is the recorded outcome of one PluginReference against
// one site. Error is set iff the install failed or, when activation was
// requested, the activation failed.
type PluginInstallResult struct {
	Identifier string
	Source     PluginSource
	Installed  bool
	Activated  bool
	Error      string
}
