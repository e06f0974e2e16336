package regressor

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrUnsupportedArtifact indicates an artifact extension no backend handles.
	ErrUnsupportedArtifact = errors.New("unsupported model artifact")

	// ErrArtifactInvalid indicates a readable but corrupt or inconsistent artifact.
	ErrArtifactInvalid = errors.New("invalid model artifact")

	// ErrFeatureCountMismatch indicates a scoring call with the wrong vector length.
	ErrFeatureCountMismatch = errors.New("feature count mismatch")
)
