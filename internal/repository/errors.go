package repository

import "errors"

// Common repository errors
var (
	// ErrDuplicateMembership is returned when an active membership already
	// exists for the (project, user) pair at insert time.
	ErrDuplicateMembership = errors.New("active membership already exists")
)
