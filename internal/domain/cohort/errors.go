package cohort

import "errors"

// Sentinel kinds for cohort errors.
var (
	ErrEmptyCohort = errors.New("empty comparison cohort")
)
