package loadtest

import "time"

// Config holds configuration for the prediction load test
type Config struct {
	BaseURL     string        // Base URL of the service
	NumRequests int           // Number of prediction requests to generate
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	OutputFile  string        // Output file for requests and prices
	LogFile     string        // Log file for test output
	Verbose     bool          // Enable verbose logging
}

// PredictionRequest mirrors the POST /predict payload
type PredictionRequest struct {
	TotalRooms       float64 `json:"total_rooms"`
	TotalBedrooms    float64 `json:"total_bedrooms"`
	Population       float64 `json:"population"`
	Households       float64 `json:"households"`
	MedianIncome     float64 `json:"median_income"`
	HousingMedianAge float64 `json:"housing_median_age"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
}

// PredictionResponse mirrors a successful /predict answer
type PredictionResponse struct {
	PredictedPrice float64 `json:"predicted_price"`
}

// MetricsResponse mirrors the GET /metrics answer
type MetricsResponse struct {
	TotalPredictions int64 `json:"total_predictions"`
}

// ErrorResponse mirrors the service error envelope
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result pairs a submitted request with its predicted price
type Result struct {
	Request PredictionRequest `json:"request"`
	Price   float64           `json:"predicted_price"`
}

// Stats holds test statistics
type Stats struct {
	RequestsGenerated  int
	RequestsSubmitted  int
	RequestsSuccessful int
	RequestsRejected   int
	RequestsFailed     int
	BaselineCount      int64
	FinalCount         int64
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
