package deploy

import "errors"

var (
	// ErrValidation is returned when a deployment request is rejected before
	// any side effect: bad input, duplicate domain, or an unresolvable vault
	// reference. Nothing has to be rolled back.
	ErrValidation = errors.New("invalid deployment request")

	// ErrUnknownPluginReference is returned when a repository plugin
	// identifier is not a plausible repository slug.
	ErrUnknownPluginReference = errors.New("unknown plugin reference")

	// ErrProvisioningFailed is returned when the site-creation command
	// failed. The attempt is terminal and is never retried automatically:
	// the side effects of a partial provisioning run are unknown and must
	// not be blindly repeated.
	ErrProvisioningFailed = errors.New("site provisioning failed")

	// ErrDeploymentCanceled is returned when the caller gave up before any
	// external step ran. The record is marked failed but no provisioning
	// command was executed, so the domain is immediately free for a retry.
	ErrDeploymentCanceled = errors.New("deployment canceled")
)
