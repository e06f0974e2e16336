// Package dbsink adapts the prediction store to the sink port.
package dbsink

import (
	"context"
	"fmt"

	"github.com/homeval/homeval/internal/adapters/repository"
	"github.com/homeval/homeval/internal/adapters/sink"
)

// Name is the sink identifier used in logs and metrics.
const Name = "store"

// DBSink persists records as rows in the prediction store.
type DBSink struct {
	store repository.Store
}

// New wraps store as a sink.
func New(store repository.Store) *DBSink {
	return &DBSink{store: store}
}

// Name implements sink.Sink.
func (s *DBSink) Name() string { return Name }

// Write inserts one row. The generated id is discarded; row ordering comes
// from the store's sequence.
func (s *DBSink) Write(ctx context.Context, rec sink.Record) error {
	row := repository.PredictionRow{
		Timestamp:  rec.Timestamp.UTC().Format(sink.TimestampLayout),
		Inputs:     rec.Input,
		Prediction: sink.FormatPrediction(rec.Prediction),
	}
	if _, err := s.store.InsertPrediction(ctx, row); err != nil {
		return fmt.Errorf("db sink: %w", err)
	}
	return nil
}

// Close is a no-op. The store outlives the sink: the metrics read path keeps
// querying it, so its owner closes it.
func (s *DBSink) Close() error { return nil }
