// Package regressor loads trained regression model artifacts and exposes
// them as read-only scoring handles. Two backends exist: a pure-Go linear
// model read from a JSON coefficient export, and an ONNX Runtime session for
// models exported as .onnx graphs. The backend is picked by file extension.
package regressor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Model is a loaded, immutable scoring handle. Implementations are safe for
// concurrent Score calls; Close releases backend resources at shutdown.
type Model interface {
	// Name is the artifact file name, for logs and metrics.
	Name() string
	// Backend identifies the scoring implementation ("linear" or "onnx").
	Backend() string
	// FeatureCount reports the trained feature arity.
	FeatureCount() int
	// Score maps one feature vector to a predicted value. Vectors whose
	// length differs from FeatureCount are rejected with
	// ErrFeatureCountMismatch.
	Score(ctx context.Context, features []float64) (float64, error)
	// Close releases backend resources. Safe to call once at process exit.
	Close() error
}

// Option applies a configuration option to artifact loading.
type Option func(*loaderOptions)

type loaderOptions struct {
	ortLibraryPath string
}

// WithOrtLibraryPath points the ONNX backend at a specific ONNX Runtime
// shared library. Empty keeps the default lookup next to the artifact.
func WithOrtLibraryPath(path string) Option {
	return func(o *loaderOptions) {
		if path != "" {
			o.ortLibraryPath = path
		}
	}
}

// Load reads a model artifact once and returns its scoring handle. Every
// failure here is a startup failure: the process must not serve traffic
// without a working model.
func Load(ctx context.Context, path string, opts ...Option) (Model, error) {
	var o loaderOptions
	for _, opt := range opts {
		opt(&o)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return loadLinear(ctx, path)
	case ".onnx":
		return loadONNX(ctx, path, o.ortLibraryPath)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedArtifact, path)
	}
}
