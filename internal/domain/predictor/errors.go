package predictor

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrNilModel indicates the engine was constructed without a model handle.
	ErrNilModel = errors.New("nil model handle")

	// ErrModelMismatch indicates the feature schema and the trained model
	// disagree. This is a deployment defect, not a user error.
	ErrModelMismatch = errors.New("model schema mismatch")
)
