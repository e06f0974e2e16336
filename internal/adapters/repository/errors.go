package repository

import "errors"

// Sentinel kinds for prediction store errors.
var (
	ErrUnavailable = errors.New("prediction store unavailable")
	ErrInvalidRow  = errors.New("invalid prediction row")
)
