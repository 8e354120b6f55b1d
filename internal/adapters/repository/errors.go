package repository

import "errors"

// Sentinel kinds for dataset lookups.
var (
	ErrNotFound = errors.New("player not found")
)
