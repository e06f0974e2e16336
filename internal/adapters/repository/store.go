// Package repository defines the prediction store interface and errors.
package repository

import "context"

// PredictionRow is one persisted prediction: the request payload as it
// arrived, the value served for it, and when.
type PredictionRow struct {
	ID         int64
	Timestamp  string
	Inputs     string
	Prediction string
}

// Store provides durable write/read access to served predictions.
type Store interface {
	// InsertPrediction appends one served prediction and returns the
	// generated row id.
	InsertPrediction(ctx context.Context, row PredictionRow) (int64, error)

	// CountPredictions returns the number of persisted predictions. Zero
	// with a nil error always means an empty table; an unreachable store
	// returns ErrUnavailable instead.
	CountPredictions(ctx context.Context) (int64, error)

	// FindByTimestamp returns the rows recorded at an exact timestamp,
	// oldest id first.
	FindByTimestamp(ctx context.Context, timestamp string) ([]PredictionRow, error)

	// Close flushes and closes the backing database.
	Close() error
}
