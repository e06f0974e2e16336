package housing

// FeatureVector holds the engineered features under their trained names.
// Named-field construction removes the silent-reorder hazard of positional
// slices; Values is the single place that fixes the order.
type FeatureVector struct {
	MedianIncome     float64
	HousingMedianAge float64
	AvgRooms         float64
	AvgBedrooms      float64
	Population       float64
	AvgOccupancy     float64
	Latitude         float64
	Longitude        float64
}

// FeatureNames returns the canonical feature order the model was trained on.
// Model artifacts carry the same list and are cross-checked against it at
// load time; index i of Values() always corresponds to index i here.
func FeatureNames() []string {
	return []string{
		"median_income",
		"housing_median_age",
		"avg_rooms",
		"avg_bedrooms",
		"population",
		"avg_occupancy",
		"latitude",
		"longitude",
	}
}

// Values returns the features in training order, aligned with FeatureNames.
func (v FeatureVector) Values() []float64 {
	return []float64{
		v.MedianIncome,
		v.HousingMedianAge,
		v.AvgRooms,
		v.AvgBedrooms,
		v.Population,
		v.AvgOccupancy,
		v.Latitude,
		v.Longitude,
	}
}

// Derive maps a raw request into the feature vector the model expects.
// Deterministic and stateless: identical payloads yield identical vectors.
// The three averages divide by the household count, so Derive validates the
// request first and never emits Inf/NaN.
func Derive(req PredictionRequest) (FeatureVector, error) {
	if err := req.Validate(); err != nil {
		return FeatureVector{}, err
	}
	return FeatureVector{
		MedianIncome:     req.MedianIncome,
		HousingMedianAge: req.HousingMedianAge,
		AvgRooms:         req.TotalRooms / req.Households,
		AvgBedrooms:      req.TotalBedrooms / req.Households,
		Population:       req.Population,
		AvgOccupancy:     req.Population / req.Households,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
	}, nil
}
