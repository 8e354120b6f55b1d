package adjust

import "errors"

// Sentinel kinds for adjustment errors.
var (
	ErrInvalidTable = errors.New("invalid adjustment table")
)
