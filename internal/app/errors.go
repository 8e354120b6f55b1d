package service

import "errors"

// Sentinel kinds for service operations.
var (
	ErrYearOutOfRange = errors.New("year outside the display window")
	ErrInvalidRange   = errors.New("invalid year range")
)
