package config

import "errors"

// Sentinel kinds for configuration errors, matchable with errors.Is.
var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrLoadConfig    = errors.New("configuration not loadable")
)
