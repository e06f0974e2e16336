package regressor

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"

	json "github.com/goccy/go-json"

	"github.com/homeval/homeval/internal/domain/housing"
)

// linearArtifact mirrors the JSON layout the training pipeline exports for
// linear models: ordered feature names, one coefficient per feature, and the
// intercept.
type linearArtifact struct {
	ModelType    string    `json:"model_type"`
	Target       string    `json:"target"`
	FeatureNames []string  `json:"feature_names"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// Linear scores vectors with a dense linear regression:
// intercept + coefficients · features. Pure data, no locking needed.
type Linear struct {
	name         string
	featureNames []string
	coefficients []float64
	intercept    float64
}

// loadLinear reads and validates a JSON coefficient artifact. The feature
// name list must match the deriver's canonical order exactly; a drifted
// artifact means the model was trained on a different schema than the one
// this binary derives, which no runtime check on vector length could catch.
func loadLinear(_ context.Context, path string) (*Linear, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("regressor: read artifact: %w", err)
	}

	var art linearArtifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArtifactInvalid, err)
	}

	if art.ModelType != "linear_regression" {
		return nil, fmt.Errorf("%w: model_type %q, want linear_regression", ErrArtifactInvalid, art.ModelType)
	}
	if len(art.Coefficients) == 0 {
		return nil, fmt.Errorf("%w: no coefficients", ErrArtifactInvalid)
	}
	if len(art.Coefficients) != len(art.FeatureNames) {
		return nil, fmt.Errorf("%w: %d coefficients for %d feature names",
			ErrArtifactInvalid, len(art.Coefficients), len(art.FeatureNames))
	}
	for i, c := range art.Coefficients {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("%w: coefficient %d is not finite", ErrArtifactInvalid, i)
		}
	}
	if math.IsNaN(art.Intercept) || math.IsInf(art.Intercept, 0) {
		return nil, fmt.Errorf("%w: intercept is not finite", ErrArtifactInvalid)
	}
	if !slices.Equal(art.FeatureNames, housing.FeatureNames()) {
		return nil, fmt.Errorf("%w: feature_names %v do not match the derived schema %v",
			ErrArtifactInvalid, art.FeatureNames, housing.FeatureNames())
	}

	return &Linear{
		name:         filepath.Base(path),
		featureNames: art.FeatureNames,
		coefficients: art.Coefficients,
		intercept:    art.Intercept,
	}, nil
}

// Name returns the artifact file name.
func (m *Linear) Name() string { return m.name }

// Backend returns the scoring implementation identifier.
func (m *Linear) Backend() string { return "linear" }

// FeatureCount returns the trained feature arity.
func (m *Linear) FeatureCount() int { return len(m.coefficients) }

// Score computes intercept + coefficients · features.
func (m *Linear) Score(_ context.Context, features []float64) (float64, error) {
	if len(features) != len(m.coefficients) {
		return 0, fmt.Errorf("%w: expected %d features, got %d",
			ErrFeatureCountMismatch, len(m.coefficients), len(features))
	}

	sum := m.intercept
	for i, c := range m.coefficients {
		sum += c * features[i]
	}
	return sum, nil
}

// Close is a no-op; the linear backend holds no external resources.
func (m *Linear) Close() error { return nil }
