// Package sink defines the persistence ports a served prediction fans out to.
package sink

import (
	"context"
	"strconv"
	"time"
)

// TimestampLayout is the wire format for record timestamps in every sink.
const TimestampLayout = time.RFC3339Nano

// Record is one served prediction bound for persistence.
type Record struct {
	// Timestamp is when the prediction was served.
	Timestamp time.Time
	// Input is the request payload as JSON, exactly as decoded.
	Input string
	// Prediction is the value returned to the client.
	Prediction float64
}

// Sink is a single persistence destination for served predictions.
type Sink interface {
	// Name identifies the sink in logs and metrics.
	Name() string
	// Write persists one record.
	Write(ctx context.Context, rec Record) error
	// Close releases the sink's resources.
	Close() error
}

// Result tags one sink's write outcome with the sink's name.
type Result struct {
	Sink string
	Err  error
}

// FormatPrediction renders a prediction value the same way in every sink:
// the shortest decimal string that round-trips to the same float64.
func FormatPrediction(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
