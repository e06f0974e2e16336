// Package housing contains the domain types of the prediction service: the
// raw census-block attributes callers submit and the engineered feature
// vector the regression model consumes.
package housing

import "math"

// PredictionRequest represents the raw attributes of a census block group.
// Fields mirror the OpenAPI schema for /predict.
type PredictionRequest struct {
	TotalRooms       float64 `json:"total_rooms"`
	TotalBedrooms    float64 `json:"total_bedrooms"`
	Population       float64 `json:"population"`
	Households       float64 `json:"households"` // denominator for the derived averages; must be > 0
	MedianIncome     float64 `json:"median_income"`
	HousingMedianAge float64 `json:"housing_median_age"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
}

// Validate rejects payloads the feature deriver cannot safely consume.
// A zero household count would turn the derived averages into Inf/NaN and
// silently corrupt both the prediction and the persisted record, so it is
// rejected here rather than coerced.
func (r PredictionRequest) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"total_rooms", r.TotalRooms},
		{"total_bedrooms", r.TotalBedrooms},
		{"population", r.Population},
		{"households", r.Households},
		{"median_income", r.MedianIncome},
		{"housing_median_age", r.HousingMedianAge},
		{"latitude", r.Latitude},
		{"longitude", r.Longitude},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &ValidationError{Field: f.name, Reason: "must be a finite number"}
		}
	}
	if r.Households <= 0 {
		return &ValidationError{Field: "households", Reason: "must be greater than zero"}
	}
	return nil
}
