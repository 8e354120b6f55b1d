package probe

import "errors"

var (
	// ErrUnhealthy is returned when the service health check fails.
	ErrUnhealthy = errors.New("service unhealthy")
	// ErrViolations is returned when any ranking invariant does not hold.
	ErrViolations = errors.New("ranking invariants violated")
)
