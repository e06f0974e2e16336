package regressor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/homeval/homeval/internal/domain/housing"
)

const validArtifact = `{
  "model_type": "linear_regression",
  "target": "median_house_value",
  "feature_names": ["median_income", "housing_median_age", "avg_rooms", "avg_bedrooms", "population", "avg_occupancy", "latitude", "longitude"],
  "coefficients": [0, 0, 0, 0, 0, 1, 0, 0],
  "intercept": 0.5
}`

func writeArtifact(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return path
}

func TestLoadLinear(t *testing.T) {
	ctx := context.Background()
	path := writeArtifact(t, "model.json", validArtifact)

	model, err := loadLinear(ctx, path)
	if err != nil {
		t.Fatalf("loadLinear: %v", err)
	}
	defer model.Close()

	if got := model.Name(); got != "model.json" {
		t.Errorf("Name() = %q, want %q", got, "model.json")
	}
	if got := model.Backend(); got != "linear" {
		t.Errorf("Backend() = %q, want %q", got, "linear")
	}
	if got := model.FeatureCount(); got != len(housing.FeatureNames()) {
		t.Errorf("FeatureCount() = %d, want %d", got, len(housing.FeatureNames()))
	}
}

func TestLinearScore(t *testing.T) {
	ctx := context.Background()
	path := writeArtifact(t, "model.json", validArtifact)

	model, err := loadLinear(ctx, path)
	if err != nil {
		t.Fatalf("loadLinear: %v", err)
	}
	defer model.Close()

	// Weight 1 on avg_occupancy, everything else zeroed, intercept 0.5.
	// population 1000 over 500 households derives avg_occupancy 2, so the
	// model must return exactly 2.5.
	vec, err := housing.Derive(housing.PredictionRequest{
		TotalRooms:       8,
		TotalBedrooms:    3,
		Population:       1000,
		Households:       500,
		MedianIncome:     3.5,
		HousingMedianAge: 35,
		Latitude:         37.7749,
		Longitude:        -122.4194,
	})
	if err != nil {
		t.Fatalf("derive features: %v", err)
	}

	got, err := model.Score(ctx, vec.Values())
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if got != 2.5 {
		t.Errorf("Score = %v, want 2.5", got)
	}
}

func TestLinearScoreWrongLength(t *testing.T) {
	ctx := context.Background()
	path := writeArtifact(t, "model.json", validArtifact)

	model, err := loadLinear(ctx, path)
	if err != nil {
		t.Fatalf("loadLinear: %v", err)
	}
	defer model.Close()

	for _, n := range []int{0, 7, 9} {
		if _, err := model.Score(ctx, make([]float64, n)); !errors.Is(err, ErrFeatureCountMismatch) {
			t.Errorf("Score with %d features: err = %v, want ErrFeatureCountMismatch", n, err)
		}
	}
}

func TestLoadLinearRejectsBadArtifacts(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		body string
	}{
		{
			name: "corrupt json",
			body: `{"model_type": "linear_regression", "coefficients": [`,
		},
		{
			name: "wrong model type",
			body: `{
  "model_type": "gradient_boosting",
  "feature_names": ["median_income", "housing_median_age", "avg_rooms", "avg_bedrooms", "population", "avg_occupancy", "latitude", "longitude"],
  "coefficients": [1, 1, 1, 1, 1, 1, 1, 1],
  "intercept": 0
}`,
		},
		{
			name: "no coefficients",
			body: `{"model_type": "linear_regression", "feature_names": [], "coefficients": [], "intercept": 0}`,
		},
		{
			name: "arity mismatch",
			body: `{
  "model_type": "linear_regression",
  "feature_names": ["median_income", "housing_median_age", "avg_rooms", "avg_bedrooms", "population", "avg_occupancy", "latitude", "longitude"],
  "coefficients": [1, 1, 1],
  "intercept": 0
}`,
		},
		{
			name: "coefficient overflows float64",
			body: `{
  "model_type": "linear_regression",
  "feature_names": ["median_income", "housing_median_age", "avg_rooms", "avg_bedrooms", "population", "avg_occupancy", "latitude", "longitude"],
  "coefficients": [1e999, 1, 1, 1, 1, 1, 1, 1],
  "intercept": 0
}`,
		},
		{
			name: "drifted feature names",
			body: `{
  "model_type": "linear_regression",
  "feature_names": ["median_income", "housing_median_age", "rooms_per_household", "avg_bedrooms", "population", "avg_occupancy", "latitude", "longitude"],
  "coefficients": [1, 1, 1, 1, 1, 1, 1, 1],
  "intercept": 0
}`,
		},
		{
			name: "reordered feature names",
			body: `{
  "model_type": "linear_regression",
  "feature_names": ["housing_median_age", "median_income", "avg_rooms", "avg_bedrooms", "population", "avg_occupancy", "latitude", "longitude"],
  "coefficients": [1, 1, 1, 1, 1, 1, 1, 1],
  "intercept": 0
}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeArtifact(t, "model.json", tc.body)
			if _, err := loadLinear(ctx, path); !errors.Is(err, ErrArtifactInvalid) {
				t.Errorf("err = %v, want ErrArtifactInvalid", err)
			}
		})
	}
}

func TestLoadLinearMissingFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nope.json")

	if _, err := loadLinear(ctx, path); err == nil {
		t.Error("expected error for missing artifact file")
	}
}
