package model

import "errors"

// Sentinel kinds for model errors.
var (
	ErrInvalidModel = errors.New("invalid cluster model")
)
