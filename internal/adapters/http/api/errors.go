package api

import "errors"

// Sentinel kinds for API errors.
var (
	// ErrBadRequest tags payloads rejected before validation ran, such as
	// malformed JSON or unknown fields.
	ErrBadRequest = errors.New("bad request")
)
