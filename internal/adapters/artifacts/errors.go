package artifacts

import "errors"

// Sentinel kinds for artifact loading.
var (
	ErrLoad              = errors.New("load artifacts failed")
	ErrUnsupportedFormat = errors.New("unsupported artifact format")
	ErrMissingColumn     = errors.New("required column missing")
)
