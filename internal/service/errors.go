package service

import "errors"

// Business-rule errors surfaced to callers. None of these are retried
// automatically; only transient store failures inside the deletion saga are
// worth a retry, and those come back as an aggregated error instead.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInvalidOperation   = errors.New("invalid operation")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrIncompleteChildren = errors.New("sprint has unfinished tasks")
	ErrInvalidDateRange   = errors.New("invalid date range")
	ErrPreconditionFailed = errors.New("precondition failed")
)
