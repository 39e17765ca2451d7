package domain

import "errors"

var (
	// ErrTenantNotFound is fatal for the request: no tenant-scoped call may
	// follow it.
	ErrTenantNotFound = errors.New("tenant not found")

	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrConflict is the distinguished 409 "already booked" signal. Never
	// retried; the user must change input.
	ErrConflict = errors.New("conflict")

	// ErrStaleToken marks a replayed submission token.
	ErrStaleToken = errors.New("submission token already used")
)
