// Package predictor composes the feature deriver with a trained model handle
// to turn raw requests into price predictions.
package predictor

import (
	"context"
	"fmt"
	"math"

	"github.com/homeval/homeval/internal/domain/housing"
)

// Model is the handle to a trained regression model. Implementations are
// read-only after construction and safe for concurrent Score calls.
type Model interface {
	// Name identifies the backend and artifact for logs and metrics.
	Name() string
	// FeatureCount reports how many features the model was trained on.
	FeatureCount() int
	// Score maps a feature vector to a predicted value, honoring ctx for
	// cancellation. Vectors of the wrong length must be rejected, never
	// coerced.
	Score(ctx context.Context, features []float64) (float64, error)
}

// Prediction carries the scalar result together with the exact vector that
// was scored, so callers persist the ground truth instead of re-deriving it.
type Prediction struct {
	Value    float64
	Features housing.FeatureVector
}

// Engine applies the model handle to derived feature vectors.
type Engine struct {
	model Model
}

// New creates an Engine bound to a model handle. Construction fails when the
// model's trained feature count does not match the deriver's schema; that is
// a deployment defect and must surface before the first request does.
func New(model Model) (*Engine, error) {
	if model == nil {
		return nil, ErrNilModel
	}
	if got, want := model.FeatureCount(), len(housing.FeatureNames()); got != want {
		return nil, fmt.Errorf("%w: model expects %d features, deriver produces %d",
			ErrModelMismatch, got, want)
	}
	return &Engine{model: model}, nil
}

// Predict derives the feature vector for req and scores it. Validation
// failures pass through untouched; any scoring failure on a validated vector
// is classified as a model mismatch, since the caller did nothing wrong.
func (e *Engine) Predict(ctx context.Context, req housing.PredictionRequest) (Prediction, error) {
	vec, err := housing.Derive(req)
	if err != nil {
		return Prediction{}, err
	}

	value, err := e.model.Score(ctx, vec.Values())
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: %w", ErrModelMismatch, err)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Prediction{}, fmt.Errorf("%w: model produced non-finite prediction", ErrModelMismatch)
	}

	return Prediction{Value: value, Features: vec}, nil
}
