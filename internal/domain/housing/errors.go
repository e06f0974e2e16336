package housing

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest tags every request validation failure so callers can
// classify with errors.Is without knowing the offending field.
var ErrInvalidRequest = errors.New("invalid prediction request")

// ValidationError reports which field made a payload unusable.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidRequest.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidRequest }
