package repository

import "errors"

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateDomain is returned when creating a site record for a domain
	// that already has a non-failed record. Enforced by a partial unique index,
	// so concurrent creates for the same domain cannot both succeed.
	ErrDuplicateDomain = errors.New("a site with this domain already exists")

	// ErrStorageUnavailable is returned when the underlying database cannot
	// serve the request.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
