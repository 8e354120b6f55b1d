package registry

import "errors"

// Sentinel kinds for registry errors.
var (
	ErrUnknownCluster = errors.New("unknown cluster")
	ErrEmptyRegistry  = errors.New("no cluster models")
)
