package storage

import "errors"

var (
	// ErrStorageUnavailable wraps failures opening or preparing the database.
	ErrStorageUnavailable = errors.New("history storage unavailable")

	// ErrMaintenance wraps failures during eviction or reclaim.
	ErrMaintenance = errors.New("history maintenance failed")

	// ErrQuery wraps read failures.
	ErrQuery = errors.New("history query failed")

	// ErrNotFound is returned by Get when no entry has the URL.
	ErrNotFound = errors.New("history entry not found")

	// ErrInvalidRange is returned for unknown clear ranges and time filters.
	ErrInvalidRange = errors.New("invalid range")
)
